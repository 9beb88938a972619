package sweeper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	allocationRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/allocation"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/ptr"
)

// ErrSweepFailed возвращается, когда не удалось получить список протухших холдов
var ErrSweepFailed = errors.New("sweeper: sweep run failed")

// Sweeper периодически отменяет протухшие холды, освобождая окна ресурсов.
// Каждый холд обрабатывается независимо: ошибка по одному не останавливает
// проход, подтвержденные конкурентно аллокации пропускаются
type Sweeper struct {
	allocationRepo AllocationRepository
	metrics        MetricsObserver
	interval       time.Duration
	logger         Logger
}

// New создает новый экземпляр sweeper'а
func New(allocationRepo AllocationRepository, metrics MetricsObserver, interval time.Duration, logger Logger) *Sweeper {
	return &Sweeper{
		allocationRepo: allocationRepo,
		metrics:        metrics,
		interval:       interval,
		logger:         logger,
	}
}

// Run запускает периодические проходы до отмены контекста.
// Первый проход выполняется сразу, не дожидаясь тика
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("Run: starting expiry sweeper, interval=%s", s.interval)

	if _, err := s.SweepExpiredHolds(ctx); err != nil {
		s.logger.Error("Run: initial sweep failed: %v", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Run: expiry sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.SweepExpiredHolds(ctx); err != nil {
				s.logger.Error("Run: sweep failed: %v", err)
			}
		}
	}
}

// SweepExpiredHolds один проход: находит холды с истекшим expires_at и
// отменяет их с причиной "expired". Возвращает число отмененных холдов
func (s *Sweeper) SweepExpiredHolds(ctx context.Context) (int, error) {
	now := time.Now()

	holds, err := s.allocationRepo.ListExpiredHolds(ctx, now)
	if err != nil {
		s.metrics.ObserveSweepRun(0, 0, err)
		return 0, fmt.Errorf("%w: failed to list expired holds: %v", ErrSweepFailed, err)
	}

	if len(holds) == 0 {
		s.metrics.ObserveSweepRun(0, 0, nil)
		return 0, nil
	}

	expired := 0
	failed := 0
	for _, hold := range holds {
		err := s.allocationRepo.TransitionStatus(ctx, hold.ID,
			[]domain.AllocationStatus{domain.AllocationHold},
			domain.AllocationCancelled,
			ptr.Ptr(domain.CancellationReasonExpired))
		switch {
		case err == nil:
			expired++
		case errors.Is(err, allocationRepo.ErrStaleTransition):
			// Холд успели подтвердить или отменить между выборкой и обновлением
			s.logger.Info("SweepExpiredHolds: allocation id=%d changed status concurrently, skipping", hold.ID)
		case errors.Is(err, allocationRepo.ErrAllocationNotFound):
			s.logger.Info("SweepExpiredHolds: allocation id=%d disappeared, skipping", hold.ID)
		default:
			failed++
			s.logger.Error("SweepExpiredHolds: failed to expire allocation id=%d: %v", hold.ID, err)
		}
	}

	s.metrics.ObserveSweepRun(expired, failed, nil)
	s.logger.Info("SweepExpiredHolds: expired %d of %d holds, %d failed", expired, len(holds), failed)

	return expired, nil
}
