package worker

import (
	"context"
	"time"

	"pickle-admin/internal/service"
	"pickle-admin/internal/util"

	"go.uber.org/zap"
)

// Reconciler periodically runs the full recalculation path so the
// denormalized aggregates converge even if an incremental update was missed
// (bulk imports, manual edits). The recalculation is idempotent, so overlap
// with on-demand runs is harmless.
type Reconciler struct {
	stats    *service.StatsService
	interval time.Duration
	logger   *zap.Logger
	done     chan struct{}
}

// NewReconciler creates a new reconciler. An interval of zero or less
// disables it.
func NewReconciler(stats *service.StatsService, interval time.Duration) *Reconciler {
	return &Reconciler{
		stats:    stats,
		interval: interval,
		logger:   util.GetLogger(),
		done:     make(chan struct{}),
	}
}

// Start runs the reconciliation loop until the context is cancelled or Stop
// is called.
func (r *Reconciler) Start(ctx context.Context) error {
	if r.interval <= 0 {
		r.logger.Info("Reconciler disabled")
		return nil
	}

	r.logger.Info("Starting reconciler", zap.Duration("interval", r.interval))
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.done:
			return nil
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

// Stop stops the reconciliation loop.
func (r *Reconciler) Stop() {
	close(r.done)
}

func (r *Reconciler) runOnce(ctx context.Context) {
	if err := r.stats.RecalculateCustomerStats(ctx); err != nil {
		r.logger.Error("Scheduled customer stats recalculation failed", zap.Error(err))
	}

	reports, err := r.stats.RecalculateProductStock(ctx)
	if err != nil {
		r.logger.Error("Scheduled stock report failed", zap.Error(err))
		return
	}
	for _, rep := range reports {
		if rep.TotalOrdered > 0 && rep.CurrentStock == 0 {
			r.logger.Warn("Product out of stock",
				zap.String("product_id", rep.ProductID),
				zap.String("product", rep.ProductName),
				zap.Int("total_ordered", rep.TotalOrdered))
		}
	}
}
