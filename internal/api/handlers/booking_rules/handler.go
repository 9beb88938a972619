package booking_rules

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers"
	rulesService "github.com/m04kA/SMC-ResourceBookingService/internal/service/rules"
	"github.com/m04kA/SMC-ResourceBookingService/internal/service/rules/models"
)

const (
	msgInvalidRuleID = "некорректный ID правила"
	msgInvalidBody   = "некорректное тело запроса"
	msgInvalidParams = "некорректные параметры запроса"
	msgNotFound      = "правило не найдено"
)

type Handler struct {
	service RuleService
	logger  Logger
}

func NewHandler(service RuleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Create POST /api/v1/booking-rules
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /booking-rules - Invalid body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	resp, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, "POST /booking-rules", err)
		return
	}

	h.logger.Info("POST /booking-rules - Rule created: id=%d", resp.ID)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}

// Get GET /api/v1/booking-rules/{ruleId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ruleID, ok := h.parseRuleID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Get(r.Context(), ruleID)
	if err != nil {
		h.respondServiceError(w, "GET /booking-rules/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// List GET /api/v1/booking-rules
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.List(r.Context())
	if err != nil {
		h.respondServiceError(w, "GET /booking-rules", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Update PUT /api/v1/booking-rules/{ruleId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ruleID, ok := h.parseRuleID(w, r)
	if !ok {
		return
	}

	var req models.UpdateRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /booking-rules/{id} - Invalid body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	resp, err := h.service.Update(r.Context(), ruleID, &req)
	if err != nil {
		h.respondServiceError(w, "PUT /booking-rules/{id}", err)
		return
	}

	h.logger.Info("PUT /booking-rules/{id} - Rule updated: id=%d", ruleID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Delete DELETE /api/v1/booking-rules/{ruleId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ruleID, ok := h.parseRuleID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), ruleID); err != nil {
		h.respondServiceError(w, "DELETE /booking-rules/{id}", err)
		return
	}

	h.logger.Info("DELETE /booking-rules/{id} - Rule deleted: id=%d", ruleID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

// Evaluate GET /api/v1/booking-rules/evaluate?resourceId=...&at=...
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &models.EvaluateRequest{}

	if v := query.Get("resourceId"); v != "" {
		resourceID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		req.ResourceID = &resourceID
	}
	if v := query.Get("at"); v != "" {
		at, err := time.Parse(time.RFC3339, v)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		req.At = &at
	}

	resp, err := h.service.Evaluate(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, "GET /booking-rules/evaluate", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) parseRuleID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	ruleID, err := strconv.ParseInt(mux.Vars(r)["ruleId"], 10, 64)
	if err != nil {
		h.logger.Warn("booking_rules - Invalid rule ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRuleID)
		return 0, false
	}
	return ruleID, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, rulesService.ErrRuleNotFound):
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, rulesService.ErrInvalidInput):
		handlers.RespondBadRequest(w, err.Error())

	default:
		h.logger.Error("%s - error=%v", op, err)
		handlers.RespondInternalError(w)
	}
}
