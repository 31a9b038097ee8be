package comment

import "errors"

var (
	// ErrBookingNotFound возвращается, когда комментарий добавляют к несуществующему бронированию
	ErrBookingNotFound = errors.New("comment.repository: booking not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("comment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("comment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("comment.repository: failed to scan row")
)
