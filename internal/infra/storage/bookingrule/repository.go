package bookingrule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с правилами бронирования
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил бронирования
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var ruleColumns = []string{
	"id",
	"name",
	"description",
	"scope",
	"resource_ids",
	"require_payment",
	"require_confirmation",
	"reservation_ttl_seconds",
	"configuration",
	"priority",
	"is_active",
	"valid_from",
	"valid_until",
	"created_at",
	"updated_at",
}

// Create создает новое правило бронирования
func (r *Repository) Create(ctx context.Context, rule *domain.BookingRule) (*domain.BookingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_rules").
		Columns(
			"name",
			"description",
			"scope",
			"resource_ids",
			"require_payment",
			"require_confirmation",
			"reservation_ttl_seconds",
			"configuration",
			"priority",
			"is_active",
			"valid_from",
			"valid_until",
		).
		Values(
			rule.Name,
			rule.Description,
			rule.Scope,
			pq.Array(rule.ResourceIDs),
			rule.RequirePayment,
			rule.RequireConfirmation,
			rule.ReservationTTLSeconds,
			configurationValue(rule.Configuration),
			rule.Priority,
			rule.IsActive,
			rule.ValidFrom,
			rule.ValidUntil,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return rule, nil
}

// GetByID получает правило бронирования по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.BookingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("booking_rules").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rule, err := scanRule(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan rule: %v", ErrScanRow, err)
	}

	return rule, nil
}

// List получает все правила бронирования. Фильтрация по активности и окну
// действия выполняется на уровне резолвера, а не в запросе
func (r *Repository) List(ctx context.Context) ([]*domain.BookingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("booking_rules").
		OrderBy("priority ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]*domain.BookingRule, 0)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}

// Update обновляет правило бронирования целиком
func (r *Repository) Update(ctx context.Context, rule *domain.BookingRule) (*domain.BookingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("booking_rules").
		Set("name", rule.Name).
		Set("description", rule.Description).
		Set("scope", rule.Scope).
		Set("resource_ids", pq.Array(rule.ResourceIDs)).
		Set("require_payment", rule.RequirePayment).
		Set("require_confirmation", rule.RequireConfirmation).
		Set("reservation_ttl_seconds", rule.ReservationTTLSeconds).
		Set("configuration", configurationValue(rule.Configuration)).
		Set("priority", rule.Priority).
		Set("is_active", rule.IsActive).
		Set("valid_from", rule.ValidFrom).
		Set("valid_until", rule.ValidUntil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": rule.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&rule.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	return rule, nil
}

// Delete удаляет правило бронирования
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("booking_rules").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrRuleNotFound
	}

	return nil
}

// configurationValue приводит JSON конфигурацию к значению для вставки:
// nil остается NULL в БД, не пустым объектом
func configurationValue(cfg []byte) interface{} {
	if len(cfg) == 0 {
		return nil
	}
	return []byte(cfg)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRule(row rowScanner) (*domain.BookingRule, error) {
	var (
		rule        domain.BookingRule
		resourceIDs pq.Int64Array
		cfg         []byte
	)
	err := row.Scan(
		&rule.ID,
		&rule.Name,
		&rule.Description,
		&rule.Scope,
		&resourceIDs,
		&rule.RequirePayment,
		&rule.RequireConfirmation,
		&rule.ReservationTTLSeconds,
		&cfg,
		&rule.Priority,
		&rule.IsActive,
		&rule.ValidFrom,
		&rule.ValidUntil,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rule.ResourceIDs = []int64(resourceIDs)
	if len(cfg) > 0 {
		rule.Configuration = cfg
	}
	return &rule, nil
}
