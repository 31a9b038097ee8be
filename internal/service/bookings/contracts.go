package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
	CompareAndSetStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (time.Time, error)
	AppendPhotos(ctx context.Context, id int64, urls []string, allowed []domain.BookingStatus, maxPhotos int) ([]string, error)
	Delete(ctx context.Context, id int64) error
}

// CommentRepository интерфейс репозитория комментариев (для удаления ленты)
type CommentRepository interface {
	DeleteByBooking(ctx context.Context, bookingID int64) (int64, error)
}

// CatalogRepository интерфейс репозитория справочников
type CatalogRepository interface {
	GetType(ctx context.Context, id int64) (*domain.AssistanceType, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счётчики переходов статусов
type Metrics interface {
	ObserveTransition(to string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
