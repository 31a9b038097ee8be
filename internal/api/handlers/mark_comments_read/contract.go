package mark_comments_read

import (
	"context"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
	"github.com/m04kA/SMC-AssistanceService/internal/service/comments/models"
)

type CommentService interface {
	MarkRead(ctx context.Context, caller domain.Caller, bookingID int64) (*models.MarkReadResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
