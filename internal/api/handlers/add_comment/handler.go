package add_comment

import (
	"net/http"

	"github.com/m04kA/SMC-AssistanceService/internal/api/handlers"
	"github.com/m04kA/SMC-AssistanceService/internal/api/middleware"
	"github.com/m04kA/SMC-AssistanceService/internal/service/comments/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
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

// Handle POST /api/v1/bookings/{bookingId}/comments
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

	var req models.AddCommentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/comments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	comment, err := h.service.Add(r.Context(), caller, bookingID, &req)
	if err != nil {
		handlers.HandleError(w, h.logger, "POST /bookings/{id}/comments", err)
		return
	}

	h.logger.Info("POST /bookings/{id}/comments - Comment added: booking_id=%d, comment_id=%d, role=%s",
		bookingID, comment.ID, caller.Role())
	handlers.RespondJSON(w, http.StatusCreated, comment)
}
