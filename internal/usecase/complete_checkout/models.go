package complete_checkout

import (
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

// Request модель запроса на завершение чекаута
type Request struct {
	CartID  string // ID корзины, холды которой подтверждаются
	OrderID string // ID заказа во внешней системе
}

// LineItemResponse позиция созданного бронирования
type LineItemResponse struct {
	ID           int64     `json:"id"`
	AllocationID int64     `json:"allocationId"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID            int64              `json:"id"`
	BookingNumber string             `json:"bookingNumber"`
	OrderID       string             `json:"orderId"`
	StartTime     time.Time          `json:"startTime"`
	EndTime       time.Time          `json:"endTime"`
	Status        string             `json:"status"`
	ConfirmedAt   *time.Time         `json:"confirmedAt,omitempty"`
	LineItems     []LineItemResponse `json:"lineItems"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// fromDomain конвертирует бронирование с позициями в response
func fromDomain(b *domain.Booking, items []domain.BookingLineItem) *Response {
	resp := &Response{
		ID:            b.ID,
		BookingNumber: b.BookingNumber,
		OrderID:       b.OrderID,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		Status:        string(b.Status),
		ConfirmedAt:   b.ConfirmedAt,
		CreatedAt:     b.CreatedAt,
	}
	for _, item := range items {
		resp.LineItems = append(resp.LineItems, LineItemResponse{
			ID:           item.ID,
			AllocationID: item.AllocationID,
			StartTime:    item.StartTime,
			EndTime:      item.EndTime,
		})
	}
	return resp
}
