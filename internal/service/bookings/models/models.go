package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/booking"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе бронирования
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// ListBookingsRequest запрос на получение бронирований с фильтрацией
type ListBookingsRequest struct {
	Status    *string    `json:"status,omitempty"`
	StartFrom *time.Time `json:"startFrom,omitempty"`
	StartTo   *time.Time `json:"startTo,omitempty"`
	OrderID   *string    `json:"orderId,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		StartFrom: r.StartFrom,
		StartTo:   r.StartTo,
		OrderID:   r.OrderID,
	}
	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}
	return filter, nil
}

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	CancellationReason string `json:"cancellationReason"`
}

// Response модели

// LineItemResponse позиция бронирования в ответе API
type LineItemResponse struct {
	ID           int64     `json:"id"`
	AllocationID int64     `json:"allocationId"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
}

// BookingResponse бронирование в ответе API
type BookingResponse struct {
	ID            int64              `json:"id"`
	BookingNumber string             `json:"bookingNumber"`
	OrderID       string             `json:"orderId"`
	StartTime     time.Time          `json:"startTime"`
	EndTime       time.Time          `json:"endTime"`
	Status        string             `json:"status"`
	ConfirmedAt   *time.Time         `json:"confirmedAt,omitempty"`
	CancelledAt   *time.Time         `json:"cancelledAt,omitempty"`
	CompletedAt   *time.Time         `json:"completedAt,omitempty"`
	LineItems     []LineItemResponse `json:"lineItems,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// BookingListResponse список бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// StatsResponse агрегаты бронирований для дашборда
type StatsResponse struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Upcoming int64 `json:"upcoming"`
	Active   int64 `json:"active"`
	Past     int64 `json:"past"`
}

// Конвертация

// ToDomainBookingStatus конвертирует строку статуса в domain тип
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	switch domain.BookingStatus(s) {
	case domain.BookingPending, domain.BookingConfirmed, domain.BookingCompleted, domain.BookingCancelled:
		return domain.BookingStatus(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// FromDomainBooking конвертирует domain бронирование в response
func FromDomainBooking(b *domain.Booking, items []domain.BookingLineItem) *BookingResponse {
	resp := &BookingResponse{
		ID:            b.ID,
		BookingNumber: b.BookingNumber,
		OrderID:       b.OrderID,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		Status:        string(b.Status),
		ConfirmedAt:   b.ConfirmedAt,
		CancelledAt:   b.CancelledAt,
		CompletedAt:   b.CompletedAt,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
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

// FromDomainBookingList конвертирует список domain бронирований в response
func FromDomainBookingList(list []*domain.Booking) *BookingListResponse {
	bookings := make([]BookingResponse, 0, len(list))
	for _, b := range list {
		bookings = append(bookings, *FromDomainBooking(b, nil))
	}
	return &BookingListResponse{Bookings: bookings}
}

// FromStats конвертирует агрегаты репозитория в response
func FromStats(s *bookingRepo.Stats) *StatsResponse {
	return &StatsResponse{
		Total:    s.Total,
		Pending:  s.Pending,
		Upcoming: s.Upcoming,
		Active:   s.Active,
		Past:     s.Past,
	}
}
