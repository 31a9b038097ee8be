package get_notifications

import (
	"context"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
	"github.com/m04kA/SMC-AssistanceService/internal/service/notifications/models"
)

type NotificationService interface {
	UnreadCount(ctx context.Context, caller domain.Caller, req *models.UnreadRequest) (*models.UnreadResponse, error)
	Summary(ctx context.Context, caller domain.Caller) (*models.SummaryResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
