package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AssistanceService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AssistanceService/internal/service/catalog/models"
	"github.com/m04kA/SMC-AssistanceService/internal/validation"
)

// CreateToon добавляет персонажа на витрину
func (s *Service) CreateToon(ctx context.Context, caller domain.Caller, req *models.CreateToonRequest) (*models.ToonResponse, error) {
	if err := requireAdmin(caller); err != nil {
		s.logger.Warn("CreateToon: access denied for user=%s", caller.UserID)
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	created, err := s.catalogRepo.CreateToon(ctx, &domain.FeaturedToon{
		CharacterClass: req.CharacterClass,
		Name:           req.Name,
		ImageURL:       req.ImageURL,
		Description:    req.Description,
		DisplayOrder:   req.DisplayOrder,
		Active:         active,
	})
	if err != nil {
		s.logger.Error("CreateToon: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateToon - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateToon: created toon id=%d", created.ID)
	return models.FromDomainToon(created), nil
}

// ListToons возвращает витрину
func (s *Service) ListToons(ctx context.Context, caller domain.Caller, activeOnly bool) (*models.ToonListResponse, error) {
	toons, err := s.catalogRepo.ListToons(ctx, activeOnly || !caller.IsAdmin)
	if err != nil {
		s.logger.Error("ListToons: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListToons - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainToonList(toons), nil
}

// DeleteToon удаляет персонажа; на витрину ничего не ссылается
func (s *Service) DeleteToon(ctx context.Context, caller domain.Caller, id int64) error {
	if err := requireAdmin(caller); err != nil {
		s.logger.Warn("DeleteToon: access denied for user=%s", caller.UserID)
		return err
	}

	if err := s.catalogRepo.DeleteToon(ctx, id); err != nil {
		if errors.Is(err, catalogRepo.ErrToonNotFound) {
			s.logger.Warn("DeleteToon: toon id=%d not found", id)
			return domain.NewNotFoundError(domain.EntityFeaturedToon, id)
		}
		s.logger.Error("DeleteToon: repository error for toon id=%d: %v", id, err)
		return fmt.Errorf("%w: DeleteToon - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteToon: deleted toon id=%d", id)
	return nil
}
