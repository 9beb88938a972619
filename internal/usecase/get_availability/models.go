package get_availability

import (
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/availability"
	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

// Request модель запроса доступности ресурса
type Request struct {
	ResourceID int64     // ID ресурса
	From       time.Time // Начало периода (включительно)
	To         time.Time // Конец периода (исключительно)
	View       string    // Вид календаря: month, week, day
}

// LayerInfo слой доступности в ответе, для атрибуции слотов
type LayerInfo struct {
	SourceType     string     `json:"sourceType"`               // base, rule, allocation
	SourceID       *int64     `json:"sourceId,omitempty"`       // ID правила или аллокации
	Effect         string     `json:"effect"`                   // grant, block
	Priority       int        `json:"priority"`                 //
	AllocationType *string    `json:"allocationType,omitempty"` // hold, booked
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`      // только для hold
}

// SlotResponse один слот календаря
type SlotResponse struct {
	StartTime      time.Time  `json:"startTime"`
	EndTime        time.Time  `json:"endTime"`
	Available      bool       `json:"available"`
	EffectiveLayer *LayerInfo `json:"effectiveLayer,omitempty"`
}

// DayResponse один день календаря. Slots пустой для месячного вида
type DayResponse struct {
	Date           string         `json:"date"` // YYYY-MM-DD
	IsAvailable    bool           `json:"isAvailable"`
	Slots          []SlotResponse `json:"slots,omitempty"`
	EffectiveLayer *LayerInfo     `json:"effectiveLayer,omitempty"`
}

// Response модель ответа с календарем доступности
type Response struct {
	ResourceID int64         `json:"resourceId"`
	View       string        `json:"view"`
	From       time.Time     `json:"from"`
	To         time.Time     `json:"to"`
	Days       []DayResponse `json:"days"`
}

// fromLayer конвертирует слой доступности в ответ
func fromLayer(l *domain.AvailabilityLayer) *LayerInfo {
	if l == nil {
		return nil
	}
	info := &LayerInfo{
		SourceType: string(l.SourceType),
		SourceID:   l.SourceID,
		Effect:     string(l.Effect),
		Priority:   l.Priority,
	}
	if l.Metadata != nil {
		allocationType := string(l.Metadata.AllocationType)
		info.AllocationType = &allocationType
		info.ExpiresAt = l.Metadata.ExpiresAt
	}
	return info
}

// fromDays конвертирует результат проекции в ответ
func fromDays(days []availability.DayAvailability) []DayResponse {
	out := make([]DayResponse, 0, len(days))
	for _, day := range days {
		resp := DayResponse{
			Date:           day.Date.Format(domain.DateFormat),
			IsAvailable:    day.IsAvailable,
			EffectiveLayer: fromLayer(day.EffectiveLayer),
		}
		for _, slot := range day.Slots {
			resp.Slots = append(resp.Slots, SlotResponse{
				StartTime:      slot.Start,
				EndTime:        slot.End,
				Available:      slot.Available,
				EffectiveLayer: fromLayer(slot.EffectiveLayer),
			})
		}
		out = append(out, resp)
	}
	return out
}
