package workers

import (
	"context"
	"sync"
	"time"

	"rentify_backend/internal/logger"
)

// LapsedExpirer переводит активные подписки с end_date < now в expired.
type LapsedExpirer interface {
	ExpireLapsed(ctx context.Context, now time.Time) (int64, error)
}

type SubscriptionWorker struct {
	expirer  LapsedExpirer
	interval time.Duration
	now      func() time.Time

	wg sync.WaitGroup
}

func NewSubscriptionWorker(expirer LapsedExpirer, interval time.Duration) *SubscriptionWorker {
	return &SubscriptionWorker{
		expirer:  expirer,
		interval: interval,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start запускает фоновую проверку истечения подписок. Первый проход сразу,
// затем каждые interval. Останавливается вместе с ctx.
func (w *SubscriptionWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		logger.Info("Subscription worker disabled")
		return
	}
	w.wg.Add(1)
	go w.checkExpiredSubscriptions(ctx)
}

// Wait blocks until the background loop has returned.
func (w *SubscriptionWorker) Wait() {
	w.wg.Wait()
}

func (w *SubscriptionWorker) checkExpiredSubscriptions(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Info("Subscription worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single expiry pass and returns how many subscriptions lapsed.
func (w *SubscriptionWorker) RunOnce(ctx context.Context) int64 {
	n, err := w.expirer.ExpireLapsed(ctx, w.now())
	if err != nil {
		if ctx.Err() == nil {
			logger.CtxWithError(ctx, "Error checking expired subscriptions", err)
		}
		return 0
	}
	if n > 0 {
		logger.Info("Marked subscriptions as expired", "count", n)
	}
	return n
}
