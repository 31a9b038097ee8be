package add_booking_photos

import (
	"net/http"

	"github.com/m04kA/SMC-AssistanceService/internal/api/handlers"
	"github.com/m04kA/SMC-AssistanceService/internal/api/middleware"
	"github.com/m04kA/SMC-AssistanceService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
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

// Handle POST /api/v1/bookings/{bookingId}/photos
// Файлы загружаются во внешнее хранилище; сюда приходят готовые ссылки
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

	var req models.AddPhotosRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/photos - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.service.AddPhotos(r.Context(), caller, bookingID, &req)
	if err != nil {
		handlers.HandleError(w, h.logger, "POST /bookings/{id}/photos", err)
		return
	}

	h.logger.Info("POST /bookings/{id}/photos - Photos added: booking_id=%d, total=%d", bookingID, len(booking.PhotoURLs))
	handlers.RespondJSON(w, http.StatusOK, booking)
}
