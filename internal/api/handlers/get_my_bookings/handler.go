package get_my_bookings

import (
	"net/http"

	"github.com/m04kA/SMC-AssistanceService/internal/api/handlers"
	"github.com/m04kA/SMC-AssistanceService/internal/api/middleware"
)

const (
	msgInvalidQuery  = "некорректные параметры запроса"
	msgMissingUserID = "отсутствует ID пользователя"
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

// Handle GET /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	req, err := handlers.ParseListBookingsRequest(r)
	if err != nil {
		h.logger.Warn("GET /bookings - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.service.ListMine(r.Context(), caller, req)
	if err != nil {
		handlers.HandleError(w, h.logger, "GET /bookings", err)
		return
	}

	h.logger.Info("GET /bookings - Bookings retrieved successfully: user=%s, count=%d",
		caller.UserID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
