package create_hold

import (
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

// Request модель запроса на создание холда
type Request struct {
	ResourceID int64     // ID ресурса
	StartTime  time.Time // Начало окна (включительно)
	EndTime    time.Time // Конец окна (исключительно)
	CartID     *string   // Внешняя корзина, к которой привязан холд (опционально)
}

// Response модель ответа с созданным холдом
type Response struct {
	ID         int64      `json:"id"`
	ResourceID int64      `json:"resourceId"`
	CartID     *string    `json:"cartId,omitempty"`
	StartTime  time.Time  `json:"startTime"`
	EndTime    time.Time  `json:"endTime"`
	Status     string     `json:"status"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// fromDomain конвертирует аллокацию в response
func fromDomain(a *domain.ResourceAllocation) *Response {
	return &Response{
		ID:         a.ID,
		ResourceID: a.ResourceID,
		CartID:     a.CartID,
		StartTime:  a.StartTime,
		EndTime:    a.EndTime,
		Status:     string(a.Status),
		ExpiresAt:  a.ExpiresAt,
		CreatedAt:  a.CreatedAt,
	}
}
