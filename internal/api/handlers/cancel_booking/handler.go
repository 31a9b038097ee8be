package cancel_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AssistanceService/internal/api/handlers"
	"github.com/m04kA/SMC-AssistanceService/internal/api/middleware"
	"github.com/m04kA/SMC-AssistanceService/internal/domain"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgCannotCancel     = "бронирование не может быть отменено"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/cancel
// Заявитель отменяет своё бронирование, администратор - любое
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	booking, err := h.service.Cancel(r.Context(), caller, bookingID)
	if err != nil {
		var transitionErr *domain.InvalidTransitionError
		if errors.As(err, &transitionErr) {
			h.logger.Warn("PATCH /bookings/{id}/cancel - Cannot cancel: booking_id=%d, status=%s",
				bookingID, transitionErr.From)
			handlers.RespondJSON(w, http.StatusConflict, handlers.ErrorResponse{
				Error:   msgCannotCancel,
				Details: string(transitionErr.From),
			})
			return
		}
		handlers.HandleError(w, h.logger, "PATCH /bookings/{id}/cancel", err)
		return
	}

	h.logger.Info("PATCH /bookings/{id}/cancel - Booking cancelled successfully: booking_id=%d, user=%s",
		bookingID, caller.UserID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
