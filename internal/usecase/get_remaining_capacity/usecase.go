package get_remaining_capacity

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AssistanceService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AssistanceService/internal/service/ledger"
	"github.com/m04kA/SMC-AssistanceService/internal/validation"
)

// UseCase use case для расчёта свободной вместимости окна
type UseCase struct {
	bookingRepo BookingRepository
	catalogRepo CatalogRepository
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		catalogRepo: catalogRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute выполняет use case расчёта свободной вместимости
// Результат информационный: допуск всё равно проверяется при создании заявки
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetRemainingCapacity: type=%d, days=%v, preset=%s",
		req.AssistanceTypeID, req.Schedule.SelectedDays, req.Schedule.TimeRangePreset)

	// 1. Валидация входных данных
	if err := validation.Struct(req); err != nil {
		uc.logger.Warn("GetRemainingCapacity: validation failed: %v", err)
		return nil, err
	}
	raw, err := req.Schedule.ToDomain()
	if err != nil {
		return nil, err
	}
	schedule, window, err := raw.Normalize()
	if err != nil {
		uc.logger.Warn("GetRemainingCapacity: invalid schedule: %v", err)
		return nil, err
	}
	slots := req.Slots
	if slots == 0 {
		slots = domain.DefaultSlots
	}

	// 2. Тип помощи
	t, err := uc.catalogRepo.GetType(ctx, req.AssistanceTypeID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrTypeNotFound) {
			uc.logger.Warn("GetRemainingCapacity: assistance type id=%d not found", req.AssistanceTypeID)
			return nil, domain.NewNotFoundError(domain.EntityAssistanceType, req.AssistanceTypeID)
		}
		uc.logger.Error("GetRemainingCapacity: failed to get assistance type id=%d: %v", req.AssistanceTypeID, err)
		return nil, fmt.Errorf("%w: failed to get assistance type: %v", ErrInternal, err)
	}
	if !t.AllowSchedule {
		return nil, domain.NewValidationError("assistanceTypeId", "assistance type does not use scheduling")
	}

	// 3. Занятость по дням
	var existing []*domain.Booking
	if t.HasCapacityLimit() {
		err = uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
			found, err := uc.bookingRepo.ListActiveByType(txCtx, t.ID, schedule.Days)
			if err != nil {
				return err
			}
			existing = found
			return nil
		})
		if err != nil {
			uc.logger.Error("GetRemainingCapacity: failed to list bookings for type id=%d: %v", t.ID, err)
			return nil, fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
		}
	}

	resp := &Response{
		AssistanceTypeID: t.ID,
		StartTime:        window.Start.String(),
		EndTime:          window.End.String(),
		Unlimited:        !t.HasCapacityLimit(),
		Days:             make([]DayResponse, 0, len(schedule.Days)),
	}
	for _, c := range ledger.Remaining(t, schedule.Days, window, existing) {
		resp.Days = append(resp.Days, DayResponse{
			Day:           string(c.Day),
			Used:          c.Used,
			Capacity:      c.Capacity,
			Remaining:     c.Remaining(),
			Fits:          c.Fits(slots),
			OccupancyRate: c.OccupancyRate(),
		})
	}

	return resp, nil
}
