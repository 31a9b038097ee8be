package create_booking

import (
	"context"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListActiveByType(ctx context.Context, assistanceTypeID int64, days []domain.Weekday) ([]*domain.Booking, error)
	NextRequestSeq(ctx context.Context) (int64, error)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// CatalogRepository интерфейс репозитория справочников
type CatalogRepository interface {
	GetType(ctx context.Context, id int64) (*domain.AssistanceType, error)
	GetTemplate(ctx context.Context, id int64) (*domain.AssistanceTemplate, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Locker блокировка по типу помощи на время проверки вместимости и вставки
type Locker interface {
	Lock(key int64) (unlock func())
}

// Metrics счётчик решений о допуске
type Metrics interface {
	ObserveAdmission(outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
