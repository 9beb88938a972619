package holds

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers"
	allocationsService "github.com/m04kA/SMC-ResourceBookingService/internal/service/allocations"
	uc "github.com/m04kA/SMC-ResourceBookingService/internal/usecase/create_hold"
)

const (
	msgInvalidBody         = "некорректное тело запроса"
	msgInvalidAllocationID = "некорректный ID аллокации"
	msgAllocationNotFound  = "аллокация не найдена"
	msgResourceNotFound    = "ресурс не найден"
	msgResourceBusy        = "ресурс занят, повторите запрос"
	msgMissingCartID       = "отсутствует ID корзины"
)

type Handler struct {
	createHold CreateHoldUseCase
	service    AllocationService
	logger     Logger
}

func NewHandler(createHold CreateHoldUseCase, service AllocationService, logger Logger) *Handler {
	return &Handler{
		createHold: createHold,
		service:    service,
		logger:     logger,
	}
}

// createRequest тело запроса на создание холда
type createRequest struct {
	ResourceID int64     `json:"resourceId"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	CartID     *string   `json:"cartId,omitempty"`
}

// releaseRequest тело запроса на освобождение холда
type releaseRequest struct {
	Reason string `json:"reason,omitempty"`
}

// Create POST /api/v1/holds
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /holds - Invalid body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	resp, err := h.createHold.Execute(r.Context(), &uc.Request{
		ResourceID: req.ResourceID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		CartID:     req.CartID,
	})
	if err != nil {
		switch {
		case errors.Is(err, uc.ErrResourceNotFound):
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, uc.ErrWindowNotAvailable):
			h.logger.Warn("POST /holds - Window not available: resource_id=%d", req.ResourceID)
			handlers.RespondConflict(w, err.Error())

		case errors.Is(err, uc.ErrLockTimeout):
			handlers.RespondTooManyRequests(w, msgResourceBusy)

		case errors.Is(err, uc.ErrResourceNotBookable),
			errors.Is(err, uc.ErrInvalidWindow),
			errors.Is(err, uc.ErrWindowInPast),
			errors.Is(err, uc.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /holds - resource_id=%d, error=%v", req.ResourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /holds - Hold created: id=%d, resource_id=%d", resp.ID, resp.ResourceID)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}

// Get GET /api/v1/holds/{allocationId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	allocationID, ok := parseAllocationID(w, r, h.logger)
	if !ok {
		return
	}

	resp, err := h.service.GetByID(r.Context(), allocationID)
	if err != nil {
		if errors.Is(err, allocationsService.ErrAllocationNotFound) {
			handlers.RespondNotFound(w, msgAllocationNotFound)
			return
		}
		h.logger.Error("GET /holds/{id} - allocation_id=%d, error=%v", allocationID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Release DELETE /api/v1/holds/{allocationId}
func (h *Handler) Release(w http.ResponseWriter, r *http.Request) {
	allocationID, ok := parseAllocationID(w, r, h.logger)
	if !ok {
		return
	}

	var req releaseRequest
	if r.ContentLength > 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("DELETE /holds/{id} - Invalid body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidBody)
			return
		}
	}

	err := h.service.Release(r.Context(), allocationID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, allocationsService.ErrAllocationNotFound):
			handlers.RespondNotFound(w, msgAllocationNotFound)

		case errors.Is(err, allocationsService.ErrInvalidTransition):
			handlers.RespondConflict(w, err.Error())

		case errors.Is(err, allocationsService.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("DELETE /holds/{id} - allocation_id=%d, error=%v", allocationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /holds/{id} - Hold released: allocation_id=%d", allocationID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

// ListByCart GET /api/v1/carts/{cartId}/allocations
func (h *Handler) ListByCart(w http.ResponseWriter, r *http.Request) {
	cartID := mux.Vars(r)["cartId"]
	if cartID == "" {
		handlers.RespondBadRequest(w, msgMissingCartID)
		return
	}

	resp, err := h.service.ListByCart(r.Context(), cartID)
	if err != nil {
		if errors.Is(err, allocationsService.ErrInvalidInput) {
			handlers.RespondBadRequest(w, err.Error())
			return
		}
		h.logger.Error("GET /carts/{id}/allocations - cart_id=%s, error=%v", cartID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

func parseAllocationID(w http.ResponseWriter, r *http.Request, logger Logger) (int64, bool) {
	allocationID, err := strconv.ParseInt(mux.Vars(r)["allocationId"], 10, 64)
	if err != nil {
		logger.Warn("holds - Invalid allocation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAllocationID)
		return 0, false
	}
	return allocationID, true
}
