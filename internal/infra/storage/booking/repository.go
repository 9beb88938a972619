package booking

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

// Repository репозиторий для работы с бронированиями и их позициями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var bookingColumns = []string{
	"id",
	"booking_number",
	"order_id",
	"start_time",
	"end_time",
	"status",
	"confirmed_at",
	"cancelled_at",
	"completed_at",
	"created_at",
	"updated_at",
}

// Create создает новое бронирование
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns("booking_number", "order_id", "start_time", "end_time", "status", "confirmed_at").
		Values(b.BookingNumber, b.OrderID, b.StartTime, b.EndTime, b.Status, b.ConfirmedAt).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return b, nil
}

// CreateLineItem создает позицию бронирования
func (r *Repository) CreateLineItem(ctx context.Context, item *domain.BookingLineItem) (*domain.BookingLineItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_line_items").
		Columns("booking_id", "allocation_id", "start_time", "end_time").
		Values(item.BookingID, item.AllocationID, item.StartTime, item.EndTime).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateLineItem - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateLineItem - execute insert: %v", ErrExecQuery, err)
	}

	return item, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return b, nil
}

// ListLineItems получает позиции бронирования
func (r *Repository) ListLineItems(ctx context.Context, bookingID int64) ([]domain.BookingLineItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"booking_id",
		"allocation_id",
		"start_time",
		"end_time",
		"created_at",
	).
		From("booking_line_items").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListLineItems - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListLineItems - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	items := make([]domain.BookingLineItem, 0)
	for rows.Next() {
		var item domain.BookingLineItem
		err := rows.Scan(
			&item.ID,
			&item.BookingID,
			&item.AllocationID,
			&item.StartTime,
			&item.EndTime,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListLineItems - scan row: %v", ErrScanRow, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListLineItems - rows error: %v", ErrScanRow, err)
	}

	return items, nil
}

// List получает бронирования с гибкой фильтрацией по статусу, периоду и заказу
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		OrderBy("start_time DESC")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.StartFrom != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_time": *filter.StartFrom})
	}
	if filter.StartTo != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"start_time": *filter.StartTo})
	}
	if filter.OrderID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"order_id": *filter.OrderID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// transitionTimestampColumn сопоставляет целевой статус с колонкой timestamp,
// которая выставляется ровно один раз при соответствующем переходе
func transitionTimestampColumn(to domain.BookingStatus) string {
	switch to {
	case domain.BookingConfirmed:
		return "confirmed_at"
	case domain.BookingCancelled:
		return "cancelled_at"
	case domain.BookingCompleted:
		return "completed_at"
	default:
		return ""
	}
}

// TransitionStatus условно переводит бронирование в новый статус.
// Обновление срабатывает только если текущий статус входит в allowedFrom,
// timestamp перехода выставляется той же командой
func (r *Repository) TransitionStatus(ctx context.Context, id int64, allowedFrom []domain.BookingStatus, to domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": allowedFrom})

	if col := transitionTimestampColumn(to); col != "" {
		updateBuilder = updateBuilder.Set(col, squirrel.Expr("NOW()"))
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
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return ErrBookingNotFound
		}
		return ErrStaleTransition
	}

	return nil
}

// Stats статистика бронирований на момент времени
type Stats struct {
	Total    int64
	Pending  int64
	Upcoming int64 // подтвержденные, начинающиеся в будущем
	Active   int64 // окно бронирования включает текущий момент
	Past     int64 // завершенные или закончившиеся
}

// GetStats считает агрегаты для дашборда одним запросом
func (r *Repository) GetStats(ctx context.Context, now time.Time) (*Stats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*) AS total").
		Column("COUNT(*) FILTER (WHERE status = 'pending') AS pending").
		Column("COUNT(*) FILTER (WHERE status = 'confirmed' AND start_time > ?) AS upcoming", now).
		Column("COUNT(*) FILTER (WHERE status IN ('pending','confirmed') AND start_time <= ? AND end_time > ?) AS active", now, now).
		Column("COUNT(*) FILTER (WHERE status = 'completed' OR (status = 'confirmed' AND end_time <= ?)) AS past", now).
		From("bookings").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetStats - build select query: %v", ErrBuildQuery, err)
	}

	var stats Stats
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&stats.Total,
		&stats.Pending,
		&stats.Upcoming,
		&stats.Active,
		&stats.Past,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: GetStats - scan stats: %v", ErrScanRow, err)
	}

	return &stats, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(
		&b.ID,
		&b.BookingNumber,
		&b.OrderID,
		&b.StartTime,
		&b.EndTime,
		&b.Status,
		&b.ConfirmedAt,
		&b.CancelledAt,
		&b.CompletedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
