package cancel_booking

import (
	"context"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
	"github.com/m04kA/SMC-AssistanceService/internal/service/bookings/models"
)

type BookingService interface {
	Cancel(ctx context.Context, caller domain.Caller, id int64) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
