package comments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AssistanceService/internal/infra/storage/booking"
	commentRepo "github.com/m04kA/SMC-AssistanceService/internal/infra/storage/comment"
	"github.com/m04kA/SMC-AssistanceService/internal/service/comments/models"
	"github.com/m04kA/SMC-AssistanceService/internal/validation"
)

// Service лента комментариев бронирования
type Service struct {
	commentRepo CommentRepository
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса комментариев
func NewService(commentRepo CommentRepository, bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		commentRepo: commentRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Add добавляет комментарий от имени вызывающего
// Комментарии разрешены и после завершения или отмены бронирования
func (s *Service) Add(ctx context.Context, caller domain.Caller, bookingID int64, req *models.AddCommentRequest) (*models.CommentResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, domain.NewValidationError("content", "must not be blank")
	}

	if err := s.authorize(ctx, "Add", caller, bookingID); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.Append(ctx, &domain.Comment{
		BookingID:  bookingID,
		Content:    content,
		IsAdmin:    caller.IsAdmin,
		AuthorName: req.AuthorName,
	})
	if err != nil {
		// бронирование могли удалить между проверкой и вставкой
		if errors.Is(err, commentRepo.ErrBookingNotFound) {
			s.logger.Warn("Add: booking id=%d disappeared", bookingID)
			return nil, domain.NewNotFoundError(domain.EntityBooking, bookingID)
		}
		s.logger.Error("Add: failed to append comment to booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Add - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Add: comment id=%d added to booking id=%d by %s", comment.ID, bookingID, caller.Role())
	return models.FromDomainComment(comment), nil
}

// List возвращает ленту в порядке добавления; пустая лента не ошибка
func (s *Service) List(ctx context.Context, caller domain.Caller, bookingID int64) (*models.CommentListResponse, error) {
	if err := s.authorize(ctx, "List", caller, bookingID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByBooking(ctx, bookingID)
	if err != nil {
		s.logger.Error("List: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainCommentList(comments), nil
}

// MarkRead отмечает прочитанными комментарии другой стороны. Идемпотентна.
func (s *Service) MarkRead(ctx context.Context, caller domain.Caller, bookingID int64) (*models.MarkReadResponse, error) {
	if err := s.authorize(ctx, "MarkRead", caller, bookingID); err != nil {
		return nil, err
	}

	marked, err := s.commentRepo.MarkRead(ctx, bookingID, caller.Role())
	if err != nil {
		s.logger.Error("MarkRead: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: MarkRead - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("MarkRead: booking id=%d marked=%d for %s", bookingID, marked, caller.Role())
	return &models.MarkReadResponse{Marked: marked}, nil
}

// authorize проверяет существование бронирования и доступ к нему
func (s *Service) authorize(ctx context.Context, op string, caller domain.Caller, bookingID int64) error {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, bookingID)
			return domain.NewNotFoundError(domain.EntityBooking, bookingID)
		}
		s.logger.Error("%s: failed to get booking id=%d: %v", op, bookingID, err)
		return fmt.Errorf("%w: %s - get booking: %v", ErrInternal, op, err)
	}

	if !caller.CanAccess(booking) {
		s.logger.Warn("%s: access denied for user=%s to booking id=%d", op, caller.UserID, bookingID)
		return domain.ErrAccessDenied
	}
	return nil
}
