package list_comments

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

// Handle GET /api/v1/bookings/{bookingId}/comments
// Чтение ленты не отмечает комментарии прочитанными
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

	thread, err := h.service.List(r.Context(), caller, bookingID)
	if err != nil {
		handlers.HandleError(w, h.logger, "GET /bookings/{id}/comments", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, thread)
}
