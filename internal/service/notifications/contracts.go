package notifications

import (
	"context"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
)

// CommentRepository подсчёт непрочитанных комментариев
type CommentRepository interface {
	CountUnread(ctx context.Context, filter domain.UnreadFilter) (int, error)
}

// BookingRepository подсчёт заявок и проверка доступа к одной заявке
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	CountByStatus(ctx context.Context, status domain.BookingStatus, requesterID *string) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
