package get_remaining_capacity

import (
	"context"

	"github.com/m04kA/SMC-AssistanceService/internal/usecase/get_remaining_capacity"
)

type UseCase interface {
	Execute(ctx context.Context, req *get_remaining_capacity.Request) (*get_remaining_capacity.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
