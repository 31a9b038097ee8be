package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AssistanceService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AssistanceService/internal/service/notifications/models"
	"github.com/m04kA/SMC-AssistanceService/internal/validation"
)

// Service счётчики уведомлений. Ничего не кэширует: каждое значение
// пересчитывается из хранилища в момент запроса.
type Service struct {
	commentRepo CommentRepository
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса уведомлений
func NewService(commentRepo CommentRepository, bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		commentRepo: commentRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// UnreadCount число комментариев другой стороны, которые вызывающий ещё не прочитал.
// Заявитель видит только свои бронирования.
func (s *Service) UnreadCount(ctx context.Context, caller domain.Caller, req *models.UnreadRequest) (*models.UnreadResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	filter := domain.UnreadFilter{Role: caller.Role(), BookingID: req.BookingID}
	if !caller.IsAdmin {
		filter.RequesterID = &caller.UserID
	}

	if req.BookingID != nil {
		if err := s.checkBooking(ctx, caller, *req.BookingID); err != nil {
			return nil, err
		}
	}

	unread, err := s.commentRepo.CountUnread(ctx, filter)
	if err != nil {
		s.logger.Error("UnreadCount: repository error for user=%s: %v", caller.UserID, err)
		return nil, fmt.Errorf("%w: UnreadCount - repository error: %v", ErrInternal, err)
	}

	return &models.UnreadResponse{Role: string(filter.Role), Unread: unread}, nil
}

// PendingCount число заявок в статусе pending: всех для администратора, своих для заявителя
func (s *Service) PendingCount(ctx context.Context, caller domain.Caller) (int, error) {
	var requesterID *string
	if !caller.IsAdmin {
		requesterID = &caller.UserID
	}

	pending, err := s.bookingRepo.CountByStatus(ctx, domain.StatusPending, requesterID)
	if err != nil {
		s.logger.Error("PendingCount: repository error for user=%s: %v", caller.UserID, err)
		return 0, fmt.Errorf("%w: PendingCount - repository error: %v", ErrInternal, err)
	}
	return pending, nil
}

// Summary оба счётчика одним запросом
func (s *Service) Summary(ctx context.Context, caller domain.Caller) (*models.SummaryResponse, error) {
	unread, err := s.UnreadCount(ctx, caller, &models.UnreadRequest{})
	if err != nil {
		return nil, err
	}
	pending, err := s.PendingCount(ctx, caller)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Summary: user=%s role=%s unread=%d pending=%d", caller.UserID, unread.Role, unread.Unread, pending)
	return &models.SummaryResponse{
		Role:            unread.Role,
		UnreadComments:  unread.Unread,
		PendingBookings: pending,
	}, nil
}

func (s *Service) checkBooking(ctx context.Context, caller domain.Caller, id int64) error {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return domain.NewNotFoundError(domain.EntityBooking, id)
		}
		return fmt.Errorf("%w: UnreadCount - get booking: %v", ErrInternal, err)
	}
	if !caller.CanAccess(booking) {
		s.logger.Warn("UnreadCount: access denied for user=%s to booking id=%d", caller.UserID, id)
		return domain.ErrAccessDenied
	}
	return nil
}
