package models

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

var (
	// ErrInvalidScope возвращается при некорректной области действия правила
	ErrInvalidScope = errors.New("invalid rule scope")
)

// Request модели

// CreateRuleRequest запрос на создание правила бронирования
type CreateRuleRequest struct {
	Name                  string          `json:"name"`
	Description           *string         `json:"description,omitempty"`
	Scope                 string          `json:"scope"`
	ResourceIDs           []int64         `json:"resourceIds,omitempty"`
	RequirePayment        *bool           `json:"requirePayment,omitempty"`      // true по умолчанию
	RequireConfirmation   *bool           `json:"requireConfirmation,omitempty"` // false по умолчанию
	ReservationTTLSeconds *int            `json:"reservationTtlSeconds,omitempty"`
	Configuration         json.RawMessage `json:"configuration,omitempty"`
	Priority              int             `json:"priority"`
	IsActive              *bool           `json:"isActive,omitempty"` // true по умолчанию
	ValidFrom             *time.Time      `json:"validFrom,omitempty"`
	ValidUntil            *time.Time      `json:"validUntil,omitempty"`
}

// UpdateRuleRequest запрос на обновление правила бронирования, nil поля не меняются
type UpdateRuleRequest struct {
	Name                  *string         `json:"name,omitempty"`
	Description           *string         `json:"description,omitempty"`
	Scope                 *string         `json:"scope,omitempty"`
	ResourceIDs           []int64         `json:"resourceIds,omitempty"`
	RequirePayment        *bool           `json:"requirePayment,omitempty"`
	RequireConfirmation   *bool           `json:"requireConfirmation,omitempty"`
	ReservationTTLSeconds *int            `json:"reservationTtlSeconds,omitempty"`
	Configuration         json.RawMessage `json:"configuration,omitempty"`
	Priority              *int            `json:"priority,omitempty"`
	IsActive              *bool           `json:"isActive,omitempty"`
	ValidFrom             *time.Time      `json:"validFrom,omitempty"`
	ValidUntil            *time.Time      `json:"validUntil,omitempty"`
}

// EvaluateRequest запрос на вычисление эффективной политики
type EvaluateRequest struct {
	ResourceID *int64     `json:"resourceId,omitempty"`
	At         *time.Time `json:"at,omitempty"` // текущий момент по умолчанию
}

// Response модели

// RuleResponse правило бронирования в ответе API
type RuleResponse struct {
	ID                    int64           `json:"id"`
	Name                  string          `json:"name"`
	Description           *string         `json:"description,omitempty"`
	Scope                 string          `json:"scope"`
	ResourceIDs           []int64         `json:"resourceIds,omitempty"`
	RequirePayment        bool            `json:"requirePayment"`
	RequireConfirmation   bool            `json:"requireConfirmation"`
	ReservationTTLSeconds int             `json:"reservationTtlSeconds"`
	Configuration         json.RawMessage `json:"configuration,omitempty"`
	Priority              int             `json:"priority"`
	IsActive              bool            `json:"isActive"`
	ValidFrom             *time.Time      `json:"validFrom,omitempty"`
	ValidUntil            *time.Time      `json:"validUntil,omitempty"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
}

// RuleListResponse список правил бронирования
type RuleListResponse struct {
	Rules []RuleResponse `json:"rules"`
}

// EvaluateResponse эффективная политика бронирования
type EvaluateResponse struct {
	RequirePayment        bool            `json:"require_payment"`
	ReservationTTLSeconds int             `json:"reservation_ttl_seconds"`
	RequireConfirmation   bool            `json:"require_confirmation"`
	CustomConfig          json.RawMessage `json:"custom_config"`
	ResolvedFrom          []string        `json:"_resolved_from"`
	Priority              int             `json:"_priority"`
}

// Конвертация

// ToDomainScope конвертирует строку области действия в domain тип
func ToDomainScope(s string) (domain.RuleScope, error) {
	switch domain.RuleScope(s) {
	case domain.ScopeGlobal, domain.ScopeResource:
		return domain.RuleScope(s), nil
	default:
		return "", ErrInvalidScope
	}
}

// FromDomainRule конвертирует domain правило в response
func FromDomainRule(r *domain.BookingRule) *RuleResponse {
	return &RuleResponse{
		ID:                    r.ID,
		Name:                  r.Name,
		Description:           r.Description,
		Scope:                 string(r.Scope),
		ResourceIDs:           r.ResourceIDs,
		RequirePayment:        r.RequirePayment,
		RequireConfirmation:   r.RequireConfirmation,
		ReservationTTLSeconds: r.ReservationTTLSeconds,
		Configuration:         r.Configuration,
		Priority:              r.Priority,
		IsActive:              r.IsActive,
		ValidFrom:             r.ValidFrom,
		ValidUntil:            r.ValidUntil,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
}

// FromDomainRuleList конвертирует список domain правил в response
func FromDomainRuleList(list []*domain.BookingRule) *RuleListResponse {
	rules := make([]RuleResponse, 0, len(list))
	for _, r := range list {
		rules = append(rules, *FromDomainRule(r))
	}
	return &RuleListResponse{Rules: rules}
}

// FromResolvedRules конвертирует результат резолвера в response
func FromResolvedRules(r domain.ResolvedRules) *EvaluateResponse {
	resolvedFrom := make([]string, 0, len(r.ResolvedFrom))
	for _, scope := range r.ResolvedFrom {
		resolvedFrom = append(resolvedFrom, string(scope))
	}
	return &EvaluateResponse{
		RequirePayment:        r.RequirePayment,
		ReservationTTLSeconds: r.ReservationTTLSeconds,
		RequireConfirmation:   r.RequireConfirmation,
		CustomConfig:          r.CustomConfig,
		ResolvedFrom:          resolvedFrom,
		Priority:              r.Priority,
	}
}
