package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AssistanceService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AssistanceService/internal/service/catalog/models"
	"github.com/m04kA/SMC-AssistanceService/internal/validation"
)

// Service справочники: типы помощи, шаблоны заявок и витрина персонажей
// Изменения доступны только администратору
type Service struct {
	catalogRepo CatalogRepository
	bookings    BookingCounter
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса справочников
func NewService(
	catalogRepo CatalogRepository,
	bookings BookingCounter,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		catalogRepo: catalogRepo,
		bookings:    bookings,
		txManager:   txManager,
		logger:      logger,
	}
}

// CreateType создает тип помощи
func (s *Service) CreateType(ctx context.Context, caller domain.Caller, req *models.CreateTypeRequest) (*models.TypeResponse, error) {
	if err := requireAdmin(caller); err != nil {
		s.logger.Warn("CreateType: access denied for user=%s", caller.UserID)
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	t := &domain.AssistanceType{
		Name:             strings.TrimSpace(req.Name),
		Active:           active,
		DisplayOrder:     req.DisplayOrder,
		AllowPhotoUpload: req.AllowPhotoUpload,
		AllowSchedule:    req.AllowSchedule,
		Capacity:         req.Capacity,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	created, err := s.catalogRepo.CreateType(ctx, t)
	if err != nil {
		s.logger.Error("CreateType: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateType - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateType: created assistance type id=%d name=%q", created.ID, created.Name)
	return models.FromDomainType(created), nil
}

// GetType получает тип помощи; неактивные типы видит только администратор
func (s *Service) GetType(ctx context.Context, caller domain.Caller, id int64) (*models.TypeResponse, error) {
	t, err := s.getType(ctx, "GetType", id)
	if err != nil {
		return nil, err
	}
	if !t.Active && !caller.IsAdmin {
		return nil, domain.NewNotFoundError(domain.EntityAssistanceType, id)
	}
	return models.FromDomainType(t), nil
}

// ListTypes возвращает типы в порядке отображения
// activeOnly принудительно включается для не-администраторов
func (s *Service) ListTypes(ctx context.Context, caller domain.Caller, activeOnly bool) (*models.TypeListResponse, error) {
	types, err := s.catalogRepo.ListTypes(ctx, activeOnly || !caller.IsAdmin)
	if err != nil {
		s.logger.Error("ListTypes: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListTypes - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainTypeList(types), nil
}

// UpdateType частично обновляет тип помощи
//
// Пока на тип ссылается хотя бы одно бронирование, менять можно только
// active, displayOrder и capacity. Название и флаги возможностей заморожены.
func (s *Service) UpdateType(ctx context.Context, caller domain.Caller, id int64, req *models.UpdateTypeRequest) (*models.TypeResponse, error) {
	if err := requireAdmin(caller); err != nil {
		s.logger.Warn("UpdateType: access denied for user=%s", caller.UserID)
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if req.Capacity != nil && req.ClearCapacity {
		return nil, domain.NewValidationError("capacity", "capacity and clearCapacity are mutually exclusive")
	}

	var updated *domain.AssistanceType
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := s.getType(txCtx, "UpdateType", id)
		if err != nil {
			return err
		}

		if touchesIdentity(current, req) {
			referenced, err := s.bookings.CountByType(txCtx, id)
			if err != nil {
				return fmt.Errorf("%w: UpdateType - count bookings: %v", ErrInternal, err)
			}
			if referenced > 0 {
				s.logger.Warn("UpdateType: assistance type id=%d is referenced by %d bookings", id, referenced)
				return domain.NewValidationError("name",
					"name and capability flags cannot change once bookings reference the type")
			}
		}

		next := *current
		applyTypeUpdate(&next, req)
		if err := next.Validate(); err != nil {
			return err
		}

		updated, err = s.catalogRepo.UpdateType(txCtx, &next)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrTypeNotFound) {
				return domain.NewNotFoundError(domain.EntityAssistanceType, id)
			}
			return fmt.Errorf("%w: UpdateType - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			s.logger.Error("UpdateType: assistance type id=%d: %v", id, err)
		}
		return nil, err
	}

	s.logger.Info("UpdateType: updated assistance type id=%d", id)
	return models.FromDomainType(updated), nil
}

// DeactivateType скрывает тип из каталога. Тип никогда не удаляется физически.
func (s *Service) DeactivateType(ctx context.Context, caller domain.Caller, id int64) (*models.TypeResponse, error) {
	inactive := false
	return s.UpdateType(ctx, caller, id, &models.UpdateTypeRequest{Active: &inactive})
}

func (s *Service) getType(ctx context.Context, op string, id int64) (*domain.AssistanceType, error) {
	t, err := s.catalogRepo.GetType(ctx, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrTypeNotFound) {
			s.logger.Warn("%s: assistance type id=%d not found", op, id)
			return nil, domain.NewNotFoundError(domain.EntityAssistanceType, id)
		}
		s.logger.Error("%s: repository error for assistance type id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return t, nil
}

// touchesIdentity сообщает, меняет ли запрос замороженные поля
func touchesIdentity(current *domain.AssistanceType, req *models.UpdateTypeRequest) bool {
	if req.Name != nil && strings.TrimSpace(*req.Name) != current.Name {
		return true
	}
	if req.AllowPhotoUpload != nil && *req.AllowPhotoUpload != current.AllowPhotoUpload {
		return true
	}
	if req.AllowSchedule != nil && *req.AllowSchedule != current.AllowSchedule {
		return true
	}
	return false
}

func applyTypeUpdate(t *domain.AssistanceType, req *models.UpdateTypeRequest) {
	if req.Name != nil {
		t.Name = strings.TrimSpace(*req.Name)
	}
	if req.Active != nil {
		t.Active = *req.Active
	}
	if req.DisplayOrder != nil {
		t.DisplayOrder = *req.DisplayOrder
	}
	if req.AllowPhotoUpload != nil {
		t.AllowPhotoUpload = *req.AllowPhotoUpload
	}
	if req.AllowSchedule != nil {
		t.AllowSchedule = *req.AllowSchedule
	}
	if req.Capacity != nil {
		c := *req.Capacity
		t.Capacity = &c
	}
	if req.ClearCapacity {
		t.Capacity = nil
	}
}

func requireAdmin(caller domain.Caller) error {
	if !caller.IsAdmin {
		return domain.ErrAccessDenied
	}
	return nil
}
