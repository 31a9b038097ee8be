package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AssistanceService/internal/infra/storage/catalog"
	bookingModels "github.com/m04kA/SMC-AssistanceService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AssistanceService/internal/service/ledger"
	"github.com/m04kA/SMC-AssistanceService/pkg/metrics"
	"github.com/m04kA/SMC-AssistanceService/pkg/txmanager"
)

// UseCase use case для создания заявки с проверкой вместимости
type UseCase struct {
	bookingRepo   BookingRepository
	catalogRepo   CatalogRepository
	txManager     TransactionManager
	locks         Locker
	metrics       Metrics
	logger        Logger
	numberPrefix  string
	maxTxAttempts int
}

// NewUseCase создает новый экземпляр use case
// metrics может быть nil; пустой numberPrefix заменяется на domain.RequestNumberPrefix
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	locks Locker,
	metrics Metrics,
	logger Logger,
	numberPrefix string,
	maxTxAttempts int,
) *UseCase {
	if numberPrefix == "" {
		numberPrefix = domain.RequestNumberPrefix
	}
	return &UseCase{
		bookingRepo:   bookingRepo,
		catalogRepo:   catalogRepo,
		txManager:     txManager,
		locks:         locks,
		metrics:       metrics,
		logger:        logger,
		numberPrefix:  numberPrefix,
		maxTxAttempts: maxTxAttempts,
	}
}

// Execute выполняет use case создания заявки
//
// Проверка вместимости и вставка выполняются под блокировкой типа помощи
// в сериализуемой транзакции; конфликт сериализации повторяется менеджером
// транзакций, после исчерпания попыток возвращается TransientConflictError.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: character=%s, type=%d, template=%v, slots=%d",
		req.CharacterID, req.AssistanceTypeID, req.TemplateID, req.Slots)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		uc.observe(metrics.AdmissionRejected)
		return nil, err
	}

	// 2. Шаблон: копируем незаданные поля
	typeID, slots := req.AssistanceTypeID, req.Slots
	var schedule *domain.Schedule
	if req.TemplateID != nil {
		tpl, err := uc.getTemplate(ctx, *req.TemplateID)
		if err != nil {
			return nil, err
		}
		if typeID, schedule, slots, err = applyTemplate(req, tpl); err != nil {
			uc.observe(metrics.AdmissionRejected)
			return nil, err
		}
		uc.logger.Info("CreateBooking: using template id=%d", tpl.ID)
	}
	if slots == 0 {
		slots = domain.DefaultSlots
	}

	// 3. Тип помощи: проверяется только при создании
	assistanceType, err := uc.getType(ctx, typeID)
	if err != nil {
		return nil, err
	}
	if !assistanceType.Active {
		uc.logger.Warn("CreateBooking: assistance type id=%d is inactive", typeID)
		uc.observe(metrics.AdmissionRejected)
		return nil, domain.NewValidationError("assistanceTypeId", "assistance type is not active")
	}
	if len(req.PhotoURLs) > 0 && !assistanceType.AllowPhotoUpload {
		uc.observe(metrics.AdmissionRejected)
		return nil, domain.NewValidationError("photoUrls", "this assistance type does not accept photos")
	}

	// 4. Расписание: для типа без расписания поля запроса игнорируются
	schedule, err = resolveSchedule(assistanceType, req, schedule)
	if err != nil {
		uc.logger.Warn("CreateBooking: invalid schedule: %v", err)
		uc.observe(metrics.AdmissionRejected)
		return nil, err
	}

	// Дни для выборки пересекающихся заявок
	var days []domain.Weekday
	if schedule != nil {
		normalized, _, err := schedule.Normalize()
		if err != nil {
			uc.logger.Warn("CreateBooking: invalid schedule: %v", err)
			uc.observe(metrics.AdmissionRejected)
			return nil, err
		}
		days = normalized.Days
	}

	unlock := uc.locks.Lock(typeID)
	defer unlock()

	var result *domain.Booking

	// 5. Проверка вместимости и вставка в одной транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var existing []*domain.Booking
		if len(days) > 0 && assistanceType.HasCapacityLimit() {
			// FOR UPDATE внутри транзакции
			found, err := uc.bookingRepo.ListActiveByType(txCtx, typeID, days)
			if err != nil {
				return fmt.Errorf("%w: failed to list bookings: %w", ErrInternal, err)
			}
			existing = found
		}

		decision, err := ledger.Admit(assistanceType, schedule, slots, existing)
		if err != nil {
			return err
		}

		seq, err := uc.bookingRepo.NextRequestSeq(txCtx)
		if err != nil {
			return fmt.Errorf("%w: failed to allocate request number: %w", ErrInternal, err)
		}

		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			RequestNumber:    formatRequestNumber(uc.numberPrefix, seq),
			Requester:        domain.Requester{CharacterID: req.CharacterID, Contact: req.Contact},
			AssistanceTypeID: typeID,
			AdditionalInfo:   req.AdditionalInfo,
			PhotoURLs:        req.PhotoURLs,
			Schedule:         decision.Schedule,
			Window:           decision.Window,
			Slots:            slots,
			DonationIntent:   req.DonationIntent,
			Status:           domain.StatusPending,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, uc.fail(typeID, err)
	}

	uc.observe(metrics.AdmissionAdmitted)
	uc.logger.Info("CreateBooking: created booking id=%d number=%s", result.ID, result.RequestNumber)

	return bookingModels.FromDomainBooking(result), nil
}

// fail логирует ошибку допуска и приводит её к доменной
func (uc *UseCase) fail(typeID int64, err error) error {
	switch {
	case errors.Is(err, domain.ErrCapacityExceeded):
		uc.logger.Warn("CreateBooking: type id=%d: %v", typeID, err)
		uc.observe(metrics.AdmissionCapacityExceeded)
		return err
	case errors.Is(err, domain.ErrValidation):
		uc.logger.Warn("CreateBooking: type id=%d: %v", typeID, err)
		uc.observe(metrics.AdmissionRejected)
		return err
	case errors.Is(err, txmanager.ErrSerializationFailure):
		uc.logger.Warn("CreateBooking: type id=%d: giving up after serialization conflicts: %v", typeID, err)
		uc.observe(metrics.AdmissionConflict)
		return &domain.TransientConflictError{Op: "create booking", Attempts: uc.maxTxAttempts, Err: err}
	default:
		uc.logger.Error("CreateBooking: type id=%d: %v", typeID, err)
		return err
	}
}

func (uc *UseCase) getType(ctx context.Context, id int64) (*domain.AssistanceType, error) {
	t, err := uc.catalogRepo.GetType(ctx, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrTypeNotFound) {
			uc.logger.Warn("CreateBooking: assistance type id=%d not found", id)
			return nil, domain.NewNotFoundError(domain.EntityAssistanceType, id)
		}
		uc.logger.Error("CreateBooking: failed to get assistance type id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get assistance type: %v", ErrInternal, err)
	}
	return t, nil
}

func (uc *UseCase) getTemplate(ctx context.Context, id int64) (*domain.AssistanceTemplate, error) {
	tpl, err := uc.catalogRepo.GetTemplate(ctx, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrTemplateNotFound) {
			uc.logger.Warn("CreateBooking: template id=%d not found", id)
			return nil, domain.NewNotFoundError(domain.EntityAssistanceTemplate, id)
		}
		uc.logger.Error("CreateBooking: failed to get template id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get template: %v", ErrInternal, err)
	}
	if !tpl.Active {
		uc.logger.Warn("CreateBooking: template id=%d is inactive", id)
		return nil, domain.NewNotFoundError(domain.EntityAssistanceTemplate, id)
	}
	return tpl, nil
}

func (uc *UseCase) observe(outcome string) {
	if uc.metrics != nil {
		uc.metrics.ObserveAdmission(outcome)
	}
}
