package bookings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers"
	bookingsService "github.com/m04kA/SMC-ResourceBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-ResourceBookingService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgInvalidBody      = "некорректное тело запроса"
	msgInvalidParams    = "некорректные параметры запроса"
	msgNotFound         = "бронирование не найдено"
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

// Get GET /api/v1/bookings/{bookingId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := h.parseBookingID(w, r)
	if !ok {
		return
	}

	booking, err := h.service.GetByID(r.Context(), bookingID)
	if err != nil {
		h.respondServiceError(w, "GET /bookings/{id}", bookingID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, booking)
}

// List GET /api/v1/bookings?status=...&startFrom=...&startTo=...&orderId=...
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &models.ListBookingsRequest{}

	if v := query.Get("status"); v != "" {
		req.Status = &v
	}
	if v := query.Get("orderId"); v != "" {
		req.OrderID = &v
	}
	if v := query.Get("startFrom"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		req.StartFrom = &t
	}
	if v := query.Get("startTo"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		req.StartTo = &t
	}

	list, err := h.service.List(r.Context(), req)
	if err != nil {
		if errors.Is(err, bookingsService.ErrInvalidInput) {
			handlers.RespondBadRequest(w, err.Error())
			return
		}
		h.logger.Error("GET /bookings - error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, list)
}

// Confirm PATCH /api/v1/bookings/{bookingId}/confirm
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := h.parseBookingID(w, r)
	if !ok {
		return
	}

	booking, err := h.service.Confirm(r.Context(), bookingID)
	if err != nil {
		h.respondServiceError(w, "PATCH /bookings/{id}/confirm", bookingID, err)
		return
	}

	h.logger.Info("PATCH /bookings/{id}/confirm - Booking confirmed: booking_id=%d", bookingID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}

// Complete PATCH /api/v1/bookings/{bookingId}/complete
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := h.parseBookingID(w, r)
	if !ok {
		return
	}

	booking, err := h.service.Complete(r.Context(), bookingID)
	if err != nil {
		h.respondServiceError(w, "PATCH /bookings/{id}/complete", bookingID, err)
		return
	}

	h.logger.Info("PATCH /bookings/{id}/complete - Booking completed: booking_id=%d", bookingID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}

// Cancel PATCH /api/v1/bookings/{bookingId}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := h.parseBookingID(w, r)
	if !ok {
		return
	}

	var req models.CancelBookingRequest
	if r.ContentLength > 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidBody)
			return
		}
	}

	booking, err := h.service.Cancel(r.Context(), bookingID, &req)
	if err != nil {
		h.respondServiceError(w, "PATCH /bookings/{id}/cancel", bookingID, err)
		return
	}

	h.logger.Info("PATCH /bookings/{id}/cancel - Booking cancelled: booking_id=%d", bookingID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}

// Stats GET /api/v1/bookings/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		h.logger.Error("GET /bookings/stats - error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, stats)
}

func (h *Handler) parseBookingID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("bookings - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return 0, false
	}
	return bookingID, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, op string, bookingID int64, err error) {
	switch {
	case errors.Is(err, bookingsService.ErrBookingNotFound):
		h.logger.Warn("%s - Booking not found: booking_id=%d", op, bookingID)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, bookingsService.ErrInvalidTransition),
		errors.Is(err, bookingsService.ErrConcurrentUpdate):
		h.logger.Warn("%s - booking_id=%d: %v", op, bookingID, err)
		handlers.RespondConflict(w, err.Error())

	case errors.Is(err, bookingsService.ErrInvalidInput):
		handlers.RespondBadRequest(w, err.Error())

	default:
		h.logger.Error("%s - booking_id=%d, error=%v", op, bookingID, err)
		handlers.RespondInternalError(w)
	}
}
