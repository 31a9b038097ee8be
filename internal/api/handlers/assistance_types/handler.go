package assistance_types

import (
	"net/http"

	"github.com/m04kA/SMC-AssistanceService/internal/api/handlers"
	"github.com/m04kA/SMC-AssistanceService/internal/api/middleware"
	"github.com/m04kA/SMC-AssistanceService/internal/domain"
	"github.com/m04kA/SMC-AssistanceService/internal/service/catalog/models"
)

const (
	msgInvalidTypeID      = "некорректный ID типа помощи"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidQuery       = "некорректные параметры запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
)

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /api/v1/assistance-types?all=true
// Неактивные типы видит только администратор
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	all, err := handlers.QueryBool(r, "all", false)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	caller, _ := middleware.CallerFromContext(r.Context())
	types, err := h.service.ListTypes(r.Context(), caller, !all)
	if err != nil {
		handlers.HandleError(w, h.logger, "GET /assistance-types", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, types)
}

// Get GET /api/v1/assistance-types/{typeId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "typeId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTypeID)
		return
	}

	caller, _ := middleware.CallerFromContext(r.Context())
	t, err := h.service.GetType(r.Context(), caller, id)
	if err != nil {
		handlers.HandleError(w, h.logger, "GET /assistance-types/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, t)
}

// Create POST /api/v1/admin/assistance-types
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req models.CreateTypeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/assistance-types - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	t, err := h.service.CreateType(r.Context(), caller, &req)
	if err != nil {
		handlers.HandleError(w, h.logger, "POST /admin/assistance-types", err)
		return
	}

	h.logger.Info("POST /admin/assistance-types - Type created: id=%d, name=%s", t.ID, t.Name)
	handlers.RespondJSON(w, http.StatusCreated, t)
}

// Update PATCH /api/v1/admin/assistance-types/{typeId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "typeId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTypeID)
		return
	}
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req models.UpdateTypeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/assistance-types/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	t, err := h.service.UpdateType(r.Context(), caller, id, &req)
	if err != nil {
		handlers.HandleError(w, h.logger, "PATCH /admin/assistance-types/{id}", err)
		return
	}

	h.logger.Info("PATCH /admin/assistance-types/{id} - Type updated: id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, t)
}

// Deactivate DELETE /api/v1/admin/assistance-types/{typeId}
// Тип не удаляется: на него ссылаются бронирования
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "typeId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTypeID)
		return
	}
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	t, err := h.service.DeactivateType(r.Context(), caller, id)
	if err != nil {
		handlers.HandleError(w, h.logger, "DELETE /admin/assistance-types/{id}", err)
		return
	}

	h.logger.Info("DELETE /admin/assistance-types/{id} - Type deactivated: id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, t)
}

func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (domain.Caller, bool) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
	}
	return caller, ok
}
