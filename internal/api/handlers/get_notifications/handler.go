package get_notifications

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AssistanceService/internal/api/handlers"
	"github.com/m04kA/SMC-AssistanceService/internal/api/middleware"
	"github.com/m04kA/SMC-AssistanceService/internal/service/notifications/models"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgMissingUserID    = "отсутствует ID пользователя"
)

type Handler struct {
	service NotificationService
	logger  Logger
}

func NewHandler(service NotificationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Summary GET /api/v1/notifications
// Непрочитанные комментарии и, для администратора, заявки в ожидании
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	summary, err := h.service.Summary(r.Context(), caller)
	if err != nil {
		handlers.HandleError(w, h.logger, "GET /notifications", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, summary)
}

// Unread GET /api/v1/notifications/unread?bookingId=
func (h *Handler) Unread(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	req := &models.UnreadRequest{}
	if raw := r.URL.Query().Get("bookingId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			h.logger.Warn("GET /notifications/unread - Invalid booking ID: %s", raw)
			handlers.RespondBadRequest(w, msgInvalidBookingID)
			return
		}
		req.BookingID = &id
	}

	unread, err := h.service.UnreadCount(r.Context(), caller, req)
	if err != nil {
		handlers.HandleError(w, h.logger, "GET /notifications/unread", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, unread)
}
