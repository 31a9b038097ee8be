package mark_comments_read

import (
	"net/http"

	"github.com/m04kA/SMC-AssistanceService/internal/api/handlers"
	"github.com/m04kA/SMC-AssistanceService/internal/api/middleware"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgMissingUserID    = "отсутствует ID пользователя"
)

type Handler struct {
	service CommentService
	logger  Logger
}

func NewHandler(service CommentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/comments/read
// Отмечает прочитанными комментарии другой стороны
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.MarkRead(r.Context(), caller, bookingID)
	if err != nil {
		handlers.HandleError(w, h.logger, "POST /bookings/{id}/comments/read", err)
		return
	}

	if result.Marked > 0 {
		h.logger.Info("POST /bookings/{id}/comments/read - Marked as read: booking_id=%d, count=%d, role=%s",
			bookingID, result.Marked, caller.Role())
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}
