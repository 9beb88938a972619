package locks

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/psqlbuilder"
)

const defaultRetryInterval = 100 * time.Millisecond

// Provider консультативные блокировки поверх таблицы resource_locks.
// Сериализует конкурирующие hold/checkout по одному ресурсу или корзине.
// Блокировка имеет TTL, поэтому упавший процесс не держит ее вечно
type Provider struct {
	db            dbmetrics.DBExecutor
	retryInterval time.Duration
}

// NewProvider создает новый провайдер блокировок
func NewProvider(db dbmetrics.DBExecutor) *Provider {
	return &Provider{
		db:            db,
		retryInterval: defaultRetryInterval,
	}
}

// Acquire пытается захватить блокировку с именем key, повторяя попытки до
// истечения timeout. Протухшие блокировки перехватываются тем же запросом
func (p *Provider) Acquire(ctx context.Context, key string, ttl, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	for {
		acquired, err := p.tryAcquire(ctx, key, ttl)
		if err != nil {
			return err
		}
		if acquired {
			return nil
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("%w: Acquire - key %q", ErrLockTimeout, key)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: Acquire - context cancelled for key %q: %v", ErrLockTimeout, key, ctx.Err())
		case <-time.After(p.retryInterval):
		}
	}
}

// Release снимает блокировку. Отсутствие строки не считается ошибкой:
// блокировка могла протухнуть и быть перехвачена
func (p *Provider) Release(ctx context.Context, key string) error {
	query, args, err := psqlbuilder.Delete("resource_locks").
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Release - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := p.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Release - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// tryAcquire одна попытка захвата: вставка новой блокировки, либо перехват
// протухшей через условный ON CONFLICT UPDATE
func (p *Provider) tryAcquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	query, args, err := psqlbuilder.Insert("resource_locks").
		Columns("key", "expires_at").
		Values(key, time.Now().Add(ttl)).
		Suffix("ON CONFLICT (key) DO UPDATE SET expires_at = EXCLUDED.expires_at, created_at = NOW() WHERE resource_locks.expires_at < NOW()").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: tryAcquire - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := p.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: tryAcquire - execute insert: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: tryAcquire - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}
