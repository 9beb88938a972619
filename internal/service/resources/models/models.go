package models

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе ресурса
	ErrInvalidStatus = errors.New("invalid resource status")

	// ErrInvalidEffect возвращается при некорректном эффекте правила
	ErrInvalidEffect = errors.New("invalid rule effect")

	// ErrInvalidUnit возвращается при некорректной единице тарификации
	ErrInvalidUnit = errors.New("invalid pricing unit")
)

// Request модели

// CreateResourceRequest запрос на создание ресурса
type CreateResourceRequest struct {
	ProductID    string  `json:"productId"`
	Title        string  `json:"title"`
	Subtitle     *string `json:"subtitle,omitempty"`
	Description  *string `json:"description,omitempty"`
	ResourceType string  `json:"resourceType"`
	Status       *string `json:"status,omitempty"`     // draft по умолчанию
	IsBookable   *bool   `json:"isBookable,omitempty"` // true по умолчанию
}

// UpdateResourceRequest запрос на обновление ресурса, nil поля не меняются
type UpdateResourceRequest struct {
	Title        *string `json:"title,omitempty"`
	Subtitle     *string `json:"subtitle,omitempty"`
	Description  *string `json:"description,omitempty"`
	ResourceType *string `json:"resourceType,omitempty"`
	Status       *string `json:"status,omitempty"`
	IsBookable   *bool   `json:"isBookable,omitempty"`
}

// CreateRuleRequest запрос на создание правила доступности
type CreateRuleRequest struct {
	RuleType      string          `json:"ruleType"`
	Name          string          `json:"name"`
	Description   *string         `json:"description,omitempty"`
	Effect        string          `json:"effect"`
	Priority      int             `json:"priority"`
	ValidFrom     *time.Time      `json:"validFrom,omitempty"`
	ValidUntil    *time.Time      `json:"validUntil,omitempty"`
	Configuration json.RawMessage `json:"configuration,omitempty"`
	IsActive      *bool           `json:"isActive,omitempty"` // true по умолчанию
}

// UpdateRuleRequest запрос на обновление правила доступности
type UpdateRuleRequest struct {
	Name          *string         `json:"name,omitempty"`
	Description   *string         `json:"description,omitempty"`
	Effect        *string         `json:"effect,omitempty"`
	Priority      *int            `json:"priority,omitempty"`
	ValidFrom     *time.Time      `json:"validFrom,omitempty"`
	ValidUntil    *time.Time      `json:"validUntil,omitempty"`
	Configuration json.RawMessage `json:"configuration,omitempty"`
	IsActive      *bool           `json:"isActive,omitempty"`
}

// CreatePricingConfigRequest запрос на создание конфигурации цены
type CreatePricingConfigRequest struct {
	ProductVariantID    string  `json:"productVariantId"`
	ProductVariantTitle *string `json:"productVariantTitle,omitempty"`
	Unit                string  `json:"unit"`
	UnitValue           int     `json:"unitValue"`
}

// Response модели

// ResourceResponse ресурс в ответе API
type ResourceResponse struct {
	ID           int64     `json:"id"`
	ProductID    string    `json:"productId"`
	Title        string    `json:"title"`
	Subtitle     *string   `json:"subtitle,omitempty"`
	Description  *string   `json:"description,omitempty"`
	ResourceType string    `json:"resourceType"`
	Status       string    `json:"status"`
	IsBookable   bool      `json:"isBookable"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ResourceListResponse список ресурсов
type ResourceListResponse struct {
	Resources []ResourceResponse `json:"resources"`
}

// RuleResponse правило доступности в ответе API
type RuleResponse struct {
	ID            int64           `json:"id"`
	ResourceID    int64           `json:"resourceId"`
	RuleType      string          `json:"ruleType"`
	Name          string          `json:"name"`
	Description   *string         `json:"description,omitempty"`
	Effect        string          `json:"effect"`
	Priority      int             `json:"priority"`
	ValidFrom     *time.Time      `json:"validFrom,omitempty"`
	ValidUntil    *time.Time      `json:"validUntil,omitempty"`
	Configuration json.RawMessage `json:"configuration,omitempty"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// RuleListResponse список правил доступности
type RuleListResponse struct {
	Rules []RuleResponse `json:"rules"`
}

// PricingConfigResponse конфигурация цены в ответе API
type PricingConfigResponse struct {
	ID                  int64   `json:"id"`
	ResourceID          int64   `json:"resourceId"`
	ProductVariantID    string  `json:"productVariantId"`
	ProductVariantTitle *string `json:"productVariantTitle,omitempty"`
	Unit                string  `json:"unit"`
	UnitValue           int     `json:"unitValue"`
}

// PricingConfigListResponse список конфигураций цены
type PricingConfigListResponse struct {
	PricingConfigs []PricingConfigResponse `json:"pricingConfigs"`
}

// Конвертация

// ToDomainResourceStatus конвертирует строку статуса в domain тип
func ToDomainResourceStatus(s string) (domain.ResourceStatus, error) {
	switch domain.ResourceStatus(s) {
	case domain.ResourceDraft, domain.ResourcePublished:
		return domain.ResourceStatus(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// ToDomainRuleEffect конвертирует строку эффекта в domain тип
func ToDomainRuleEffect(s string) (domain.RuleEffect, error) {
	switch domain.RuleEffect(s) {
	case domain.RuleEffectAvailable, domain.RuleEffectUnavailable:
		return domain.RuleEffect(s), nil
	default:
		return "", ErrInvalidEffect
	}
}

// ToDomainPricingUnit конвертирует строку единицы тарификации в domain тип
func ToDomainPricingUnit(s string) (domain.PricingUnit, error) {
	switch domain.PricingUnit(s) {
	case domain.UnitSecond, domain.UnitMinute, domain.UnitHour, domain.UnitDay, domain.UnitCustom:
		return domain.PricingUnit(s), nil
	default:
		return "", ErrInvalidUnit
	}
}

// FromDomainResource конвертирует domain ресурс в response
func FromDomainResource(r *domain.Resource) *ResourceResponse {
	return &ResourceResponse{
		ID:           r.ID,
		ProductID:    r.ProductID,
		Title:        r.Title,
		Subtitle:     r.Subtitle,
		Description:  r.Description,
		ResourceType: r.ResourceType,
		Status:       string(r.Status),
		IsBookable:   r.IsBookable,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// FromDomainResourceList конвертирует список domain ресурсов в response
func FromDomainResourceList(list []*domain.Resource) *ResourceListResponse {
	resources := make([]ResourceResponse, 0, len(list))
	for _, r := range list {
		resources = append(resources, *FromDomainResource(r))
	}
	return &ResourceListResponse{Resources: resources}
}

// FromDomainRule конвертирует domain правило в response
func FromDomainRule(r *domain.AvailabilityRule) *RuleResponse {
	return &RuleResponse{
		ID:            r.ID,
		ResourceID:    r.ResourceID,
		RuleType:      r.RuleType,
		Name:          r.Name,
		Description:   r.Description,
		Effect:        string(r.Effect),
		Priority:      r.Priority,
		ValidFrom:     r.ValidFrom,
		ValidUntil:    r.ValidUntil,
		Configuration: r.Configuration,
		IsActive:      r.IsActive,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// FromDomainRuleList конвертирует список domain правил в response
func FromDomainRuleList(list []domain.AvailabilityRule) *RuleListResponse {
	rules := make([]RuleResponse, 0, len(list))
	for i := range list {
		rules = append(rules, *FromDomainRule(&list[i]))
	}
	return &RuleListResponse{Rules: rules}
}

// FromDomainPricingConfig конвертирует domain конфигурацию цены в response
func FromDomainPricingConfig(pc *domain.PricingConfig) *PricingConfigResponse {
	return &PricingConfigResponse{
		ID:                  pc.ID,
		ResourceID:          pc.ResourceID,
		ProductVariantID:    pc.ProductVariantID,
		ProductVariantTitle: pc.ProductVariantTitle,
		Unit:                string(pc.Unit),
		UnitValue:           pc.UnitValue,
	}
}

// FromDomainPricingConfigList конвертирует список конфигураций цены в response
func FromDomainPricingConfigList(list []domain.PricingConfig) *PricingConfigListResponse {
	configs := make([]PricingConfigResponse, 0, len(list))
	for i := range list {
		configs = append(configs, *FromDomainPricingConfig(&list[i]))
	}
	return &PricingConfigListResponse{PricingConfigs: configs}
}
