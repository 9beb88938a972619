package resources

import (
	"context"

	"github.com/m04kA/SMC-ResourceBookingService/internal/service/resources/models"
)

type ResourceService interface {
	CreateResource(ctx context.Context, req *models.CreateResourceRequest) (*models.ResourceResponse, error)
	GetResource(ctx context.Context, id int64) (*models.ResourceResponse, error)
	ListResources(ctx context.Context, status *string) (*models.ResourceListResponse, error)
	UpdateResource(ctx context.Context, id int64, req *models.UpdateResourceRequest) (*models.ResourceResponse, error)
	DeleteResource(ctx context.Context, id int64) error

	CreateRule(ctx context.Context, resourceID int64, req *models.CreateRuleRequest) (*models.RuleResponse, error)
	ListRules(ctx context.Context, resourceID int64) (*models.RuleListResponse, error)
	UpdateRule(ctx context.Context, resourceID, ruleID int64, req *models.UpdateRuleRequest) (*models.RuleResponse, error)
	DeleteRule(ctx context.Context, resourceID, ruleID int64) error

	CreatePricingConfig(ctx context.Context, resourceID int64, req *models.CreatePricingConfigRequest) (*models.PricingConfigResponse, error)
	ListPricingConfigs(ctx context.Context, resourceID int64) (*models.PricingConfigListResponse, error)
	DeletePricingConfig(ctx context.Context, resourceID, configID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
