package get_remaining_capacity

import (
	"net/http"

	"github.com/m04kA/SMC-AssistanceService/internal/api/handlers"
)

const (
	msgInvalidTypeID = "некорректный ID типа помощи"
	msgInvalidQuery  = "некорректные параметры запроса"
)

type Handler struct {
	useCase UseCase
	logger  Logger
}

func NewHandler(useCase UseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/assistance-types/{typeId}/capacity
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	typeID, err := handlers.PathID(r, "typeId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTypeID)
		return
	}

	req, err := parseQuery(r, typeID)
	if err != nil {
		h.logger.Warn("GET /assistance-types/{id}/capacity - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		handlers.HandleError(w, h.logger, "GET /assistance-types/{id}/capacity", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
