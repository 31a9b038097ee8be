package catalog

import (
	"context"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
)

// CatalogRepository интерфейс репозитория справочников
type CatalogRepository interface {
	CreateType(ctx context.Context, t *domain.AssistanceType) (*domain.AssistanceType, error)
	GetType(ctx context.Context, id int64) (*domain.AssistanceType, error)
	UpdateType(ctx context.Context, t *domain.AssistanceType) (*domain.AssistanceType, error)
	ListTypes(ctx context.Context, activeOnly bool) ([]*domain.AssistanceType, error)

	CreateTemplate(ctx context.Context, t *domain.AssistanceTemplate) (*domain.AssistanceTemplate, error)
	GetTemplate(ctx context.Context, id int64) (*domain.AssistanceTemplate, error)
	UpdateTemplate(ctx context.Context, t *domain.AssistanceTemplate) (*domain.AssistanceTemplate, error)
	ListTemplates(ctx context.Context, activeOnly bool) ([]*domain.AssistanceTemplate, error)

	CreateToon(ctx context.Context, t *domain.FeaturedToon) (*domain.FeaturedToon, error)
	ListToons(ctx context.Context, activeOnly bool) ([]*domain.FeaturedToon, error)
	DeleteToon(ctx context.Context, id int64) error
}

// BookingCounter сообщает, ссылаются ли бронирования на тип помощи
type BookingCounter interface {
	CountByType(ctx context.Context, assistanceTypeID int64) (int, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
