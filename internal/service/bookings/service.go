package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AssistanceService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-AssistanceService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AssistanceService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AssistanceService/internal/validation"
)

// Service жизненный цикл бронирований: смена статусов, фото, просмотр, удаление
type Service struct {
	bookingRepo BookingRepository
	commentRepo CommentRepository
	catalogRepo CatalogRepository
	txManager   TransactionManager
	metrics     Metrics
	logger      Logger
	maxRetries  int
}

// NewService создает новый экземпляр сервиса бронирований
// metrics может быть nil
func NewService(
	bookingRepo BookingRepository,
	commentRepo CommentRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
	maxRetries int,
) *Service {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Service{
		bookingRepo: bookingRepo,
		commentRepo: commentRepo,
		catalogRepo: catalogRepo,
		txManager:   txManager,
		metrics:     metrics,
		logger:      logger,
		maxRetries:  maxRetries,
	}
}

// GetByID получает бронирование по ID
// Заявитель видит только свои бронирования, администратор - все
func (s *Service) GetByID(ctx context.Context, caller domain.Caller, id int64) (*models.BookingResponse, error) {
	booking, err := s.load(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !caller.CanAccess(booking) {
		s.logger.Warn("GetByID: access denied for user=%s to booking id=%d", caller.UserID, id)
		return nil, domain.ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// ListMine возвращает бронирования вызывающего заявителя, новые первыми
func (s *Service) ListMine(ctx context.Context, caller domain.Caller, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	filter := req.ToDomainFilter()
	filter.RequesterID = &caller.UserID

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListMine: repository error for user=%s: %v", caller.UserID, err)
		return nil, fmt.Errorf("%w: ListMine - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListMine: fetched %d bookings for user=%s", len(bookings), caller.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// ListAll возвращает все бронирования с фильтром по статусу и типу (только администратор)
func (s *Service) ListAll(ctx context.Context, caller domain.Caller, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	if !caller.IsAdmin {
		s.logger.Warn("ListAll: access denied for user=%s", caller.UserID)
		return nil, domain.ErrAccessDenied
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.List(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("ListAll: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListAll - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListAll: fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// ChangeStatus переводит бронирование в статус to
//
// Переход выполняется условным обновлением по текущему статусу. Если статус успел
// измениться, бронирование перечитывается и переход проверяется заново; после
// maxRetries проигранных гонок возвращается TransientConflictError.
// Заявитель может только отменить своё бронирование.
func (s *Service) ChangeStatus(ctx context.Context, caller domain.Caller, id int64, req *models.ChangeStatusRequest) (*models.BookingResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	to := domain.BookingStatus(req.Status)

	s.logger.Info("ChangeStatus: booking id=%d to=%s by user=%s admin=%t", id, to, caller.UserID, caller.IsAdmin)

	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		booking, err := s.load(ctx, "ChangeStatus", id)
		if err != nil {
			return nil, err
		}

		if !caller.CanAccess(booking) {
			s.logger.Warn("ChangeStatus: access denied for user=%s to booking id=%d", caller.UserID, id)
			return nil, domain.ErrAccessDenied
		}

		if err := domain.ValidateTransition(booking.Status, to, caller.IsAdmin); err != nil {
			s.logger.Warn("ChangeStatus: booking id=%d: %v", id, err)
			return nil, err
		}

		updatedAt, err := s.bookingRepo.CompareAndSetStatus(ctx, id, booking.Status, to)
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			s.logger.Warn("ChangeStatus: booking id=%d changed concurrently, attempt=%d", id, attempt)
			continue
		}
		if err != nil {
			s.logger.Error("ChangeStatus: repository error for booking id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: ChangeStatus - repository error: %v", ErrInternal, err)
		}

		if s.metrics != nil {
			s.metrics.ObserveTransition(string(to))
		}
		s.logger.Info("ChangeStatus: booking id=%d %s -> %s", id, booking.Status, to)

		booking.Status = to
		booking.UpdatedAt = updatedAt
		return models.FromDomainBooking(booking), nil
	}

	s.logger.Warn("ChangeStatus: booking id=%d gave up after %d attempts", id, s.maxRetries)
	return nil, &domain.TransientConflictError{Op: "change booking status", Attempts: s.maxRetries}
}

// Confirm переводит pending -> confirmed (администратор)
func (s *Service) Confirm(ctx context.Context, caller domain.Caller, id int64) (*models.BookingResponse, error) {
	return s.ChangeStatus(ctx, caller, id, &models.ChangeStatusRequest{Status: string(domain.StatusConfirmed)})
}

// Complete переводит confirmed -> completed (администратор)
func (s *Service) Complete(ctx context.Context, caller domain.Caller, id int64) (*models.BookingResponse, error) {
	return s.ChangeStatus(ctx, caller, id, &models.ChangeStatusRequest{Status: string(domain.StatusCompleted)})
}

// Cancel отменяет бронирование; его слоты перестают учитываться при допуске
func (s *Service) Cancel(ctx context.Context, caller domain.Caller, id int64) (*models.BookingResponse, error) {
	return s.ChangeStatus(ctx, caller, id, &models.ChangeStatusRequest{Status: string(domain.StatusCancelled)})
}

// AddPhotos добавляет ссылки на фото к своему бронированию
// Разрешено, пока бронирование pending или confirmed, и если тип помощи принимает фото
func (s *Service) AddPhotos(ctx context.Context, caller domain.Caller, id int64, req *models.AddPhotosRequest) (*models.BookingResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		booking, err := s.load(ctx, "AddPhotos", id)
		if err != nil {
			return nil, err
		}

		if !booking.IsOwnedBy(caller.UserID) {
			s.logger.Warn("AddPhotos: user=%s is not the requester of booking id=%d", caller.UserID, id)
			return nil, domain.ErrAccessDenied
		}

		if !booking.CanAddPhotos() {
			s.logger.Warn("AddPhotos: booking id=%d is %s", id, booking.Status)
			return nil, &domain.InvalidTransitionError{From: booking.Status, Action: "add photos"}
		}

		if attempt == 1 {
			if err := s.checkPhotoUpload(ctx, booking.AssistanceTypeID); err != nil {
				return nil, err
			}
		}
		// Лимит проверяется на каждой попытке: конкурентное добавление могло его исчерпать
		if len(booking.PhotoURLs)+len(req.PhotoURLs) > domain.MaxPhotosPerBooking {
			s.logger.Warn("AddPhotos: booking id=%d already has %d photos", id, len(booking.PhotoURLs))
			return nil, domain.NewValidationError("photoUrls",
				fmt.Sprintf("at most %d photos per booking", domain.MaxPhotosPerBooking))
		}

		// Статус и лимит повторно проверяются в условном обновлении
		photos, err := s.bookingRepo.AppendPhotos(ctx, id, req.PhotoURLs,
			[]domain.BookingStatus{domain.StatusPending, domain.StatusConfirmed}, domain.MaxPhotosPerBooking)
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			s.logger.Warn("AddPhotos: booking id=%d changed concurrently, attempt=%d", id, attempt)
			continue
		}
		if err != nil {
			s.logger.Error("AddPhotos: repository error for booking id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: AddPhotos - repository error: %v", ErrInternal, err)
		}

		s.logger.Info("AddPhotos: booking id=%d now has %d photos", id, len(photos))
		booking.PhotoURLs = photos
		return models.FromDomainBooking(booking), nil
	}

	return nil, &domain.TransientConflictError{Op: "add booking photos", Attempts: s.maxRetries}
}

// Purge физически удаляет бронирование вместе с комментариями (администратор)
// Номер заявки после удаления не переиспользуется
func (s *Service) Purge(ctx context.Context, caller domain.Caller, id int64) error {
	if !caller.IsAdmin {
		s.logger.Warn("Purge: access denied for user=%s", caller.UserID)
		return domain.ErrAccessDenied
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		removed, err := s.commentRepo.DeleteByBooking(txCtx, id)
		if err != nil {
			return fmt.Errorf("%w: Purge - delete comments: %v", ErrInternal, err)
		}

		if err := s.bookingRepo.Delete(txCtx, id); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return domain.NewNotFoundError(domain.EntityBooking, id)
			}
			return fmt.Errorf("%w: Purge - delete booking: %v", ErrInternal, err)
		}

		s.logger.Info("Purge: booking id=%d deleted with %d comments", id, removed)
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("Purge: booking id=%d not found", id)
		} else {
			s.logger.Error("Purge: booking id=%d: %v", id, err)
		}
		return err
	}

	return nil
}

func (s *Service) load(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, domain.NewNotFoundError(domain.EntityBooking, id)
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

func (s *Service) checkPhotoUpload(ctx context.Context, typeID int64) error {
	t, err := s.catalogRepo.GetType(ctx, typeID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrTypeNotFound) {
			return domain.NewNotFoundError(domain.EntityAssistanceType, typeID)
		}
		return fmt.Errorf("%w: AddPhotos - get assistance type: %v", ErrInternal, err)
	}
	if !t.AllowPhotoUpload {
		return domain.NewValidationError("photoUrls", "this assistance type does not accept photos")
	}
	return nil
}
