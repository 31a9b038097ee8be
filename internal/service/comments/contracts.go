package comments

import (
	"context"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
)

// CommentRepository интерфейс репозитория комментариев
type CommentRepository interface {
	Append(ctx context.Context, c *domain.Comment) (*domain.Comment, error)
	ListByBooking(ctx context.Context, bookingID int64) ([]*domain.Comment, error)
	MarkRead(ctx context.Context, bookingID int64, viewer domain.ViewerRole) (int64, error)
}

// BookingRepository нужен для проверки существования и владельца бронирования
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
