package featured_toons

import (
	"net/http"

	"github.com/m04kA/SMC-AssistanceService/internal/api/handlers"
	"github.com/m04kA/SMC-AssistanceService/internal/api/middleware"
	"github.com/m04kA/SMC-AssistanceService/internal/service/catalog/models"
)

const (
	msgInvalidToonID      = "некорректный ID персонажа"
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

// List GET /api/v1/featured-toons?all=true
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	all, err := handlers.QueryBool(r, "all", false)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	caller, _ := middleware.CallerFromContext(r.Context())
	toons, err := h.service.ListToons(r.Context(), caller, !all)
	if err != nil {
		handlers.HandleError(w, h.logger, "GET /featured-toons", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, toons)
}

// Create POST /api/v1/admin/featured-toons
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreateToonRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/featured-toons - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	toon, err := h.service.CreateToon(r.Context(), caller, &req)
	if err != nil {
		handlers.HandleError(w, h.logger, "POST /admin/featured-toons", err)
		return
	}

	h.logger.Info("POST /admin/featured-toons - Toon created: id=%d, name=%s", toon.ID, toon.Name)
	handlers.RespondJSON(w, http.StatusCreated, toon)
}

// Delete DELETE /api/v1/admin/featured-toons/{toonId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "toonId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidToonID)
		return
	}
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.DeleteToon(r.Context(), caller, id); err != nil {
		handlers.HandleError(w, h.logger, "DELETE /admin/featured-toons/{id}", err)
		return
	}

	h.logger.Info("DELETE /admin/featured-toons/{id} - Toon deleted: id=%d", id)
	w.WriteHeader(http.StatusNoContent)
}
