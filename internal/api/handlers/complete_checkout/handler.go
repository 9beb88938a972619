package complete_checkout

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers"
	uc "github.com/m04kA/SMC-ResourceBookingService/internal/usecase/complete_checkout"
)

const (
	msgInvalidBody   = "некорректное тело запроса"
	msgMissingCartID = "отсутствует ID корзины"
	msgCartBusy      = "корзина обрабатывается, повторите запрос"
)

type Handler struct {
	usecase CompleteCheckoutUseCase
	logger  Logger
}

func NewHandler(usecase CompleteCheckoutUseCase, logger Logger) *Handler {
	return &Handler{
		usecase: usecase,
		logger:  logger,
	}
}

// request тело запроса на завершение чекаута
type request struct {
	OrderID string `json:"orderId"`
}

// Handle POST /api/v1/carts/{cartId}/complete
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	cartID := mux.Vars(r)["cartId"]
	if cartID == "" {
		handlers.RespondBadRequest(w, msgMissingCartID)
		return
	}

	var req request
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /carts/{id}/complete - Invalid body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	resp, err := h.usecase.Execute(r.Context(), &uc.Request{
		CartID:  cartID,
		OrderID: req.OrderID,
	})
	if err != nil {
		switch {
		case errors.Is(err, uc.ErrNoAllocations):
			handlers.RespondNotFound(w, err.Error())

		case errors.Is(err, uc.ErrHoldExpired),
			errors.Is(err, uc.ErrAlreadyProcessed):
			h.logger.Warn("POST /carts/{id}/complete - cart_id=%s: %v", cartID, err)
			handlers.RespondConflict(w, err.Error())

		case errors.Is(err, uc.ErrLockTimeout):
			handlers.RespondTooManyRequests(w, msgCartBusy)

		case errors.Is(err, uc.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /carts/{id}/complete - cart_id=%s, error=%v", cartID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /carts/{id}/complete - Booking created: id=%d, number=%s, cart_id=%s",
		resp.ID, resp.BookingNumber, cartID)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}
