package allocation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с аллокациями ресурсов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория аллокаций
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var allocationColumns = []string{
	"id",
	"resource_id",
	"cart_id",
	"line_item_id",
	"start_time",
	"end_time",
	"expires_at",
	"status",
	"cancellation_reason",
	"created_at",
	"updated_at",
}

// Create создает новую аллокацию
// Если в контексте передана активная транзакция, использует её - создание
// hold'а выполняется в транзакции вместе с проверкой доступности окна
func (r *Repository) Create(ctx context.Context, alloc *domain.ResourceAllocation) (*domain.ResourceAllocation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("resource_allocations").
		Columns(
			"resource_id",
			"cart_id",
			"line_item_id",
			"start_time",
			"end_time",
			"expires_at",
			"status",
		).
		Values(
			alloc.ResourceID,
			alloc.CartID,
			alloc.LineItemID,
			alloc.StartTime,
			alloc.EndTime,
			alloc.ExpiresAt,
			alloc.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&alloc.ID, &alloc.CreatedAt, &alloc.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return alloc, nil
}

// GetByID получает аллокацию по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ResourceAllocation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(allocationColumns...).
		From("resource_allocations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	alloc, err := scanAllocation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAllocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan allocation: %v", ErrScanRow, err)
	}

	return alloc, nil
}

// ListByResource получает аллокации ресурса
// При activeOnly=true отмененные аллокации исключаются - для слоев
// доступности нужны только активные
func (r *Repository) ListByResource(ctx context.Context, resourceID int64, activeOnly bool) ([]domain.ResourceAllocation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(allocationColumns...).
		From("resource_allocations").
		Where(squirrel.Eq{"resource_id": resourceID}).
		OrderBy("start_time ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.AllocationCancelled})
	}

	// Внутри транзакции блокируем строки - создание hold'а проверяет
	// доступность окна и не должно гоняться с параллельными вставками
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByResource - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByResource - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAllocations(rows)
}

// ListByCart получает аллокации, привязанные к корзине
func (r *Repository) ListByCart(ctx context.Context, cartID string) ([]domain.ResourceAllocation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(allocationColumns...).
		From("resource_allocations").
		Where(squirrel.Eq{"cart_id": cartID}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCart - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCart - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAllocations(rows)
}

// ListByLineItems получает аллокации по списку позиций бронирования
func (r *Repository) ListByLineItems(ctx context.Context, lineItemIDs []int64) ([]domain.ResourceAllocation, error) {
	if len(lineItemIDs) == 0 {
		return []domain.ResourceAllocation{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(allocationColumns...).
		From("resource_allocations").
		Where(squirrel.Eq{"line_item_id": lineItemIDs}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByLineItems - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByLineItems - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAllocations(rows)
}

// ListExpiredHolds получает все hold-аллокации с истекшим сроком
// Используется sweep'ом просроченных hold'ов
func (r *Repository) ListExpiredHolds(ctx context.Context, now time.Time) ([]domain.ResourceAllocation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(allocationColumns...).
		From("resource_allocations").
		Where(squirrel.Eq{"status": domain.AllocationHold}).
		Where(squirrel.Lt{"expires_at": now}).
		OrderBy("expires_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredHolds - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredHolds - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAllocations(rows)
}

// TransitionStatus условно переводит аллокацию в новый статус:
// обновление срабатывает только если текущий статус входит в allowedFrom.
// Возвращает ErrStaleTransition, если аллокация существует, но уже в другом
// статусе - так sweep не затирает только что подтвержденную аллокацию
func (r *Repository) TransitionStatus(
	ctx context.Context,
	id int64,
	allowedFrom []domain.AllocationStatus,
	to domain.AllocationStatus,
	cancellationReason *string,
) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("resource_allocations").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": allowedFrom})

	if cancellationReason != nil {
		updateBuilder = updateBuilder.Set("cancellation_reason", *cancellationReason)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: TransitionStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: TransitionStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: TransitionStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		// Различаем "нет такой аллокации" и "статус изменился конкурентно"
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return ErrAllocationNotFound
		}
		return ErrStaleTransition
	}

	return nil
}

// LinkLineItem привязывает аллокацию к позиции бронирования
func (r *Repository) LinkLineItem(ctx context.Context, id int64, lineItemID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("resource_allocations").
		Set("line_item_id", lineItemID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: LinkLineItem - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: LinkLineItem - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: LinkLineItem - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAllocationNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAllocation(row rowScanner) (*domain.ResourceAllocation, error) {
	var alloc domain.ResourceAllocation
	err := row.Scan(
		&alloc.ID,
		&alloc.ResourceID,
		&alloc.CartID,
		&alloc.LineItemID,
		&alloc.StartTime,
		&alloc.EndTime,
		&alloc.ExpiresAt,
		&alloc.Status,
		&alloc.CancellationReason,
		&alloc.CreatedAt,
		&alloc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &alloc, nil
}

func scanAllocations(rows *sql.Rows) ([]domain.ResourceAllocation, error) {
	allocations := make([]domain.ResourceAllocation, 0)

	for rows.Next() {
		alloc, err := scanAllocation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAllocations - scan row: %v", ErrScanRow, err)
		}
		allocations = append(allocations, *alloc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAllocations - rows error: %v", ErrScanRow, err)
	}

	return allocations, nil
}
