package resources

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers"
	resourcesService "github.com/m04kA/SMC-ResourceBookingService/internal/service/resources"
	"github.com/m04kA/SMC-ResourceBookingService/internal/service/resources/models"
)

const (
	msgInvalidResourceID = "некорректный ID ресурса"
	msgInvalidRuleID     = "некорректный ID правила"
	msgInvalidConfigID   = "некорректный ID конфигурации"
	msgInvalidBody       = "некорректное тело запроса"
	msgResourceNotFound  = "ресурс не найден"
	msgRuleNotFound      = "правило не найдено"
	msgConfigNotFound    = "конфигурация не найдена"
)

type Handler struct {
	service ResourceService
	logger  Logger
}

func NewHandler(service ResourceService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Create POST /api/v1/resources
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateResourceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /resources - Invalid body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	resp, err := h.service.CreateResource(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, "POST /resources", err)
		return
	}

	h.logger.Info("POST /resources - Resource created: id=%d", resp.ID)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}

// Get GET /api/v1/resources/{resourceId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	resourceID, ok := h.parseID(w, r, "resourceId", msgInvalidResourceID)
	if !ok {
		return
	}

	resp, err := h.service.GetResource(r.Context(), resourceID)
	if err != nil {
		h.respondServiceError(w, "GET /resources/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// List GET /api/v1/resources?status=draft|published
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var status *string
	if v := r.URL.Query().Get("status"); v != "" {
		status = &v
	}

	resp, err := h.service.ListResources(r.Context(), status)
	if err != nil {
		h.respondServiceError(w, "GET /resources", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Update PUT /api/v1/resources/{resourceId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	resourceID, ok := h.parseID(w, r, "resourceId", msgInvalidResourceID)
	if !ok {
		return
	}

	var req models.UpdateResourceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /resources/{id} - Invalid body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	resp, err := h.service.UpdateResource(r.Context(), resourceID, &req)
	if err != nil {
		h.respondServiceError(w, "PUT /resources/{id}", err)
		return
	}

	h.logger.Info("PUT /resources/{id} - Resource updated: id=%d", resourceID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Delete DELETE /api/v1/resources/{resourceId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	resourceID, ok := h.parseID(w, r, "resourceId", msgInvalidResourceID)
	if !ok {
		return
	}

	if err := h.service.DeleteResource(r.Context(), resourceID); err != nil {
		h.respondServiceError(w, "DELETE /resources/{id}", err)
		return
	}

	h.logger.Info("DELETE /resources/{id} - Resource deleted: id=%d", resourceID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

// CreateRule POST /api/v1/resources/{resourceId}/rules
func (h *Handler) CreateRule(w http.ResponseWriter, r *http.Request) {
	resourceID, ok := h.parseID(w, r, "resourceId", msgInvalidResourceID)
	if !ok {
		return
	}

	var req models.CreateRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /resources/{id}/rules - Invalid body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	resp, err := h.service.CreateRule(r.Context(), resourceID, &req)
	if err != nil {
		h.respondServiceError(w, "POST /resources/{id}/rules", err)
		return
	}

	h.logger.Info("POST /resources/{id}/rules - Rule created: id=%d, resource_id=%d", resp.ID, resourceID)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}

// ListRules GET /api/v1/resources/{resourceId}/rules
func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	resourceID, ok := h.parseID(w, r, "resourceId", msgInvalidResourceID)
	if !ok {
		return
	}

	resp, err := h.service.ListRules(r.Context(), resourceID)
	if err != nil {
		h.respondServiceError(w, "GET /resources/{id}/rules", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// UpdateRule PUT /api/v1/resources/{resourceId}/rules/{ruleId}
func (h *Handler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	resourceID, ok := h.parseID(w, r, "resourceId", msgInvalidResourceID)
	if !ok {
		return
	}
	ruleID, ok := h.parseID(w, r, "ruleId", msgInvalidRuleID)
	if !ok {
		return
	}

	var req models.UpdateRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /resources/{id}/rules/{ruleId} - Invalid body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	resp, err := h.service.UpdateRule(r.Context(), resourceID, ruleID, &req)
	if err != nil {
		h.respondServiceError(w, "PUT /resources/{id}/rules/{ruleId}", err)
		return
	}

	h.logger.Info("PUT /resources/{id}/rules/{ruleId} - Rule updated: id=%d", ruleID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// DeleteRule DELETE /api/v1/resources/{resourceId}/rules/{ruleId}
func (h *Handler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	resourceID, ok := h.parseID(w, r, "resourceId", msgInvalidResourceID)
	if !ok {
		return
	}
	ruleID, ok := h.parseID(w, r, "ruleId", msgInvalidRuleID)
	if !ok {
		return
	}

	if err := h.service.DeleteRule(r.Context(), resourceID, ruleID); err != nil {
		h.respondServiceError(w, "DELETE /resources/{id}/rules/{ruleId}", err)
		return
	}

	h.logger.Info("DELETE /resources/{id}/rules/{ruleId} - Rule deleted: id=%d", ruleID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

// CreatePricingConfig POST /api/v1/resources/{resourceId}/pricing-configs
func (h *Handler) CreatePricingConfig(w http.ResponseWriter, r *http.Request) {
	resourceID, ok := h.parseID(w, r, "resourceId", msgInvalidResourceID)
	if !ok {
		return
	}

	var req models.CreatePricingConfigRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /resources/{id}/pricing-configs - Invalid body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	resp, err := h.service.CreatePricingConfig(r.Context(), resourceID, &req)
	if err != nil {
		h.respondServiceError(w, "POST /resources/{id}/pricing-configs", err)
		return
	}

	h.logger.Info("POST /resources/{id}/pricing-configs - Config created: id=%d", resp.ID)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}

// ListPricingConfigs GET /api/v1/resources/{resourceId}/pricing-configs
func (h *Handler) ListPricingConfigs(w http.ResponseWriter, r *http.Request) {
	resourceID, ok := h.parseID(w, r, "resourceId", msgInvalidResourceID)
	if !ok {
		return
	}

	resp, err := h.service.ListPricingConfigs(r.Context(), resourceID)
	if err != nil {
		h.respondServiceError(w, "GET /resources/{id}/pricing-configs", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// DeletePricingConfig DELETE /api/v1/resources/{resourceId}/pricing-configs/{configId}
func (h *Handler) DeletePricingConfig(w http.ResponseWriter, r *http.Request) {
	resourceID, ok := h.parseID(w, r, "resourceId", msgInvalidResourceID)
	if !ok {
		return
	}
	configID, ok := h.parseID(w, r, "configId", msgInvalidConfigID)
	if !ok {
		return
	}

	if err := h.service.DeletePricingConfig(r.Context(), resourceID, configID); err != nil {
		h.respondServiceError(w, "DELETE /resources/{id}/pricing-configs/{configId}", err)
		return
	}

	h.logger.Info("DELETE /resources/{id}/pricing-configs/{configId} - Config deleted: id=%d", configID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request, name, msg string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		h.logger.Warn("resources - Invalid %s: %v", name, err)
		handlers.RespondBadRequest(w, msg)
		return 0, false
	}
	return id, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, resourcesService.ErrResourceNotFound):
		handlers.RespondNotFound(w, msgResourceNotFound)

	case errors.Is(err, resourcesService.ErrRuleNotFound):
		handlers.RespondNotFound(w, msgRuleNotFound)

	case errors.Is(err, resourcesService.ErrPricingConfigNotFound):
		handlers.RespondNotFound(w, msgConfigNotFound)

	case errors.Is(err, resourcesService.ErrRuleConflict):
		handlers.RespondConflict(w, err.Error())

	case errors.Is(err, resourcesService.ErrInvalidInput):
		handlers.RespondBadRequest(w, err.Error())

	default:
		h.logger.Error("%s - error=%v", op, err)
		handlers.RespondInternalError(w)
	}
}
