package assistance_templates

import (
	"context"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
	"github.com/m04kA/SMC-AssistanceService/internal/service/catalog/models"
)

type CatalogService interface {
	CreateTemplate(ctx context.Context, caller domain.Caller, req *models.CreateTemplateRequest) (*models.TemplateResponse, error)
	GetTemplate(ctx context.Context, caller domain.Caller, id int64) (*models.TemplateResponse, error)
	ListTemplates(ctx context.Context, caller domain.Caller, activeOnly bool) (*models.TemplateListResponse, error)
	UpdateTemplate(ctx context.Context, caller domain.Caller, id int64, req *models.UpdateTemplateRequest) (*models.TemplateResponse, error)
	DeactivateTemplate(ctx context.Context, caller domain.Caller, id int64) (*models.TemplateResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
