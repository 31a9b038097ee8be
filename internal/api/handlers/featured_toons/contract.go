package featured_toons

import (
	"context"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
	"github.com/m04kA/SMC-AssistanceService/internal/service/catalog/models"
)

type CatalogService interface {
	CreateToon(ctx context.Context, caller domain.Caller, req *models.CreateToonRequest) (*models.ToonResponse, error)
	ListToons(ctx context.Context, caller domain.Caller, activeOnly bool) (*models.ToonListResponse, error)
	DeleteToon(ctx context.Context, caller domain.Caller, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
