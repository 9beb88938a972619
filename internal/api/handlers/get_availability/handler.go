package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers"
	uc "github.com/m04kA/SMC-ResourceBookingService/internal/usecase/get_availability"
)

const (
	msgInvalidResourceID = "некорректный ID ресурса"
	msgInvalidParams     = "некорректные параметры запроса"
	msgNotFound          = "ресурс не найден"

	defaultView = "month"
)

type Handler struct {
	usecase AvailabilityUseCase
	logger  Logger
}

func NewHandler(usecase AvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		usecase: usecase,
		logger:  logger,
	}
}

// Handle GET /api/v1/resources/{resourceId}/availability?from=...&to=...&view=month|week|day
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	resourceID, err := strconv.ParseInt(vars["resourceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /resources/{id}/availability - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	query := r.URL.Query()

	from, err := parseTimeParam(query.Get("from"))
	if err != nil {
		h.logger.Warn("GET /resources/{id}/availability - Invalid from: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}
	to, err := parseTimeParam(query.Get("to"))
	if err != nil {
		h.logger.Warn("GET /resources/{id}/availability - Invalid to: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	view := query.Get("view")
	if view == "" {
		view = defaultView
	}

	resp, err := h.usecase.Execute(r.Context(), &uc.Request{
		ResourceID: resourceID,
		From:       from,
		To:         to,
		View:       view,
	})
	if err != nil {
		switch {
		case errors.Is(err, uc.ErrResourceNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, uc.ErrInvalidView),
			errors.Is(err, uc.ErrInvalidRange),
			errors.Is(err, uc.ErrRangeTooWide),
			errors.Is(err, uc.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /resources/{id}/availability - resource_id=%d, error=%v", resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// parseTimeParam разбирает параметр времени: RFC3339 или YYYY-MM-DD
func parseTimeParam(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
