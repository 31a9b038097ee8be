package create_booking

import (
	"net/http"

	"github.com/m04kA/SMC-AssistanceService/internal/api/handlers"
	"github.com/m04kA/SMC-AssistanceService/internal/api/middleware"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(caller.UserID))
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("POST /bookings - Failed to create booking: character=%s, type=%d, error=%v",
				caller.UserID, req.AssistanceTypeID, err)
		} else {
			h.logger.Warn("POST /bookings - Rejected: character=%s, type=%d, status=%d, error=%v",
				caller.UserID, req.AssistanceTypeID, status, err)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, number=%s, character=%s",
		result.ID, result.RequestNumber, caller.UserID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
