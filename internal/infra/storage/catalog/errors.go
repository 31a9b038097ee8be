package catalog

import "errors"

var (
	// ErrTypeNotFound возвращается, когда тип помощи не найден
	ErrTypeNotFound = errors.New("catalog.repository: assistance type not found")

	// ErrTemplateNotFound возвращается, когда шаблон не найден
	ErrTemplateNotFound = errors.New("catalog.repository: assistance template not found")

	// ErrToonNotFound возвращается, когда витринный персонаж не найден
	ErrToonNotFound = errors.New("catalog.repository: featured toon not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("catalog.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("catalog.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("catalog.repository: failed to scan row")
)
