package assistance_types

import (
	"context"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
	"github.com/m04kA/SMC-AssistanceService/internal/service/catalog/models"
)

type CatalogService interface {
	CreateType(ctx context.Context, caller domain.Caller, req *models.CreateTypeRequest) (*models.TypeResponse, error)
	GetType(ctx context.Context, caller domain.Caller, id int64) (*models.TypeResponse, error)
	ListTypes(ctx context.Context, caller domain.Caller, activeOnly bool) (*models.TypeListResponse, error)
	UpdateType(ctx context.Context, caller domain.Caller, id int64, req *models.UpdateTypeRequest) (*models.TypeResponse, error)
	DeactivateType(ctx context.Context, caller domain.Caller, id int64) (*models.TypeResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
