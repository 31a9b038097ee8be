package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AssistanceService/internal/infra/storage/catalog"
	bookingModels "github.com/m04kA/SMC-AssistanceService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AssistanceService/internal/service/catalog/models"
	"github.com/m04kA/SMC-AssistanceService/internal/validation"
)

// CreateTemplate создает шаблон заявки
// Расписание по умолчанию проверяется так же, как расписание заявки
func (s *Service) CreateTemplate(ctx context.Context, caller domain.Caller, req *models.CreateTemplateRequest) (*models.TemplateResponse, error) {
	if err := requireAdmin(caller); err != nil {
		s.logger.Warn("CreateTemplate: access denied for user=%s", caller.UserID)
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	t, err := s.getType(ctx, "CreateTemplate", req.AssistanceTypeID)
	if err != nil {
		return nil, err
	}

	schedule, err := templateSchedule(t, req.DefaultSchedule)
	if err != nil {
		return nil, err
	}

	slots := req.DefaultSlots
	if slots == 0 {
		slots = domain.DefaultSlots
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	created, err := s.catalogRepo.CreateTemplate(ctx, &domain.AssistanceTemplate{
		Title:            req.Title,
		Description:      req.Description,
		AssistanceTypeID: t.ID,
		DefaultSchedule:  schedule,
		DefaultSlots:     slots,
		Active:           active,
		DisplayOrder:     req.DisplayOrder,
	})
	if err != nil {
		s.logger.Error("CreateTemplate: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateTemplate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateTemplate: created template id=%d for assistance type id=%d", created.ID, t.ID)
	return models.FromDomainTemplate(created), nil
}

// GetTemplate получает шаблон; неактивные шаблоны видит только администратор
func (s *Service) GetTemplate(ctx context.Context, caller domain.Caller, id int64) (*models.TemplateResponse, error) {
	t, err := s.getTemplate(ctx, "GetTemplate", id)
	if err != nil {
		return nil, err
	}
	if !t.Active && !caller.IsAdmin {
		return nil, domain.NewNotFoundError(domain.EntityAssistanceTemplate, id)
	}
	return models.FromDomainTemplate(t), nil
}

// ListTemplates возвращает шаблоны в порядке отображения
func (s *Service) ListTemplates(ctx context.Context, caller domain.Caller, activeOnly bool) (*models.TemplateListResponse, error) {
	templates, err := s.catalogRepo.ListTemplates(ctx, activeOnly || !caller.IsAdmin)
	if err != nil {
		s.logger.Error("ListTemplates: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListTemplates - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainTemplateList(templates), nil
}

// UpdateTemplate частично обновляет шаблон
// Уже созданные по шаблону заявки не меняются: они хранят копию
func (s *Service) UpdateTemplate(ctx context.Context, caller domain.Caller, id int64, req *models.UpdateTemplateRequest) (*models.TemplateResponse, error) {
	if err := requireAdmin(caller); err != nil {
		s.logger.Warn("UpdateTemplate: access denied for user=%s", caller.UserID)
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if req.Schedule != nil && req.ClearSchedule {
		return nil, domain.NewValidationError("defaultSchedule", "defaultSchedule and clearSchedule are mutually exclusive")
	}

	current, err := s.getTemplate(ctx, "UpdateTemplate", id)
	if err != nil {
		return nil, err
	}

	next := *current
	if req.Title != nil {
		next.Title = *req.Title
	}
	if req.Description != nil {
		next.Description = req.Description
	}
	if req.DefaultSlots != nil {
		next.DefaultSlots = *req.DefaultSlots
	}
	if req.Active != nil {
		next.Active = *req.Active
	}
	if req.DisplayOrder != nil {
		next.DisplayOrder = *req.DisplayOrder
	}
	if req.ClearSchedule {
		next.DefaultSchedule = nil
	}
	if req.Schedule != nil {
		t, err := s.getType(ctx, "UpdateTemplate", current.AssistanceTypeID)
		if err != nil {
			return nil, err
		}
		if next.DefaultSchedule, err = templateSchedule(t, req.Schedule); err != nil {
			return nil, err
		}
	}

	updated, err := s.catalogRepo.UpdateTemplate(ctx, &next)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrTemplateNotFound) {
			return nil, domain.NewNotFoundError(domain.EntityAssistanceTemplate, id)
		}
		s.logger.Error("UpdateTemplate: repository error for template id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateTemplate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateTemplate: updated template id=%d", id)
	return models.FromDomainTemplate(updated), nil
}

// DeactivateTemplate скрывает шаблон
func (s *Service) DeactivateTemplate(ctx context.Context, caller domain.Caller, id int64) (*models.TemplateResponse, error) {
	inactive := false
	return s.UpdateTemplate(ctx, caller, id, &models.UpdateTemplateRequest{Active: &inactive})
}

func (s *Service) getTemplate(ctx context.Context, op string, id int64) (*domain.AssistanceTemplate, error) {
	t, err := s.catalogRepo.GetTemplate(ctx, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrTemplateNotFound) {
			s.logger.Warn("%s: template id=%d not found", op, id)
			return nil, domain.NewNotFoundError(domain.EntityAssistanceTemplate, id)
		}
		s.logger.Error("%s: repository error for template id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return t, nil
}

// templateSchedule проверяет и нормализует расписание шаблона
func templateSchedule(t *domain.AssistanceType, req *bookingModels.ScheduleRequest) (*domain.Schedule, error) {
	if req == nil {
		return nil, nil
	}
	if !t.AllowSchedule {
		return nil, domain.NewValidationError("defaultSchedule", "assistance type does not allow scheduling")
	}

	raw, err := req.ToDomain()
	if err != nil {
		return nil, err
	}
	normalized, _, err := raw.Normalize()
	if err != nil {
		return nil, err
	}
	return &normalized, nil
}
