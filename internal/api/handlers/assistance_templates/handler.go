package assistance_templates

import (
	"net/http"

	"github.com/m04kA/SMC-AssistanceService/internal/api/handlers"
	"github.com/m04kA/SMC-AssistanceService/internal/api/middleware"
	"github.com/m04kA/SMC-AssistanceService/internal/service/catalog/models"
)

const (
	msgInvalidTemplateID  = "некорректный ID шаблона"
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

// List GET /api/v1/assistance-templates?all=true
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	all, err := handlers.QueryBool(r, "all", false)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	caller, _ := middleware.CallerFromContext(r.Context())
	templates, err := h.service.ListTemplates(r.Context(), caller, !all)
	if err != nil {
		handlers.HandleError(w, h.logger, "GET /assistance-templates", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, templates)
}

// Get GET /api/v1/assistance-templates/{templateId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "templateId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTemplateID)
		return
	}

	caller, _ := middleware.CallerFromContext(r.Context())
	t, err := h.service.GetTemplate(r.Context(), caller, id)
	if err != nil {
		handlers.HandleError(w, h.logger, "GET /assistance-templates/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, t)
}

// Create POST /api/v1/admin/assistance-templates
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreateTemplateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/assistance-templates - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	t, err := h.service.CreateTemplate(r.Context(), caller, &req)
	if err != nil {
		handlers.HandleError(w, h.logger, "POST /admin/assistance-templates", err)
		return
	}

	h.logger.Info("POST /admin/assistance-templates - Template created: id=%d, type_id=%d", t.ID, t.AssistanceTypeID)
	handlers.RespondJSON(w, http.StatusCreated, t)
}

// Update PATCH /api/v1/admin/assistance-templates/{templateId}
// Изменение шаблона не затрагивает уже созданные по нему заявки
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "templateId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTemplateID)
		return
	}
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpdateTemplateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/assistance-templates/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	t, err := h.service.UpdateTemplate(r.Context(), caller, id, &req)
	if err != nil {
		handlers.HandleError(w, h.logger, "PATCH /admin/assistance-templates/{id}", err)
		return
	}

	h.logger.Info("PATCH /admin/assistance-templates/{id} - Template updated: id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, t)
}

// Deactivate DELETE /api/v1/admin/assistance-templates/{templateId}
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "templateId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTemplateID)
		return
	}
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	t, err := h.service.DeactivateTemplate(r.Context(), caller, id)
	if err != nil {
		handlers.HandleError(w, h.logger, "DELETE /admin/assistance-templates/{id}", err)
		return
	}

	h.logger.Info("DELETE /admin/assistance-templates/{id} - Template deactivated: id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, t)
}
