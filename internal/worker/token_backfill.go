package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/digistore/internal/domain/model"
)

// BackfillFacade exposes the subset of application functionality required by the worker.
type BackfillFacade interface {
	OrdersMissingTokens(ctx context.Context, limit int) ([]string, error)
	IssueTokens(ctx context.Context, orderID string) ([]model.DownloadToken, error)
	DeliverTokens(ctx context.Context, orderID string, tokens []model.DownloadToken) error
}

// TokenBackfill periodically re-runs token issuance for paid orders whose
// tokens were not all created at payment time.
type TokenBackfill struct {
	facade    BackfillFacade
	interval  time.Duration
	batchSize int
	workers   int
	logger    *slog.Logger

	jobs   chan string
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewTokenBackfill constructs the backfill worker pool.
func NewTokenBackfill(facade BackfillFacade, interval time.Duration, batchSize, workers int, logger *slog.Logger) *TokenBackfill {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &TokenBackfill{
		facade:    facade,
		interval:  interval,
		batchSize: batchSize,
		workers:   workers,
		logger:    logger,
		jobs:      make(chan string, batchSize),
	}
}

// Start launches background processing.
func (b *TokenBackfill) Start(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel

	for i := 0; i < b.workers; i++ {
		b.wg.Add(1)
		go b.worker(runCtx)
	}

	b.wg.Add(1)
	go b.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (b *TokenBackfill) Stop() {
	b.mu.Lock()
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	b.mu.Unlock()

	b.wg.Wait()
}

func (b *TokenBackfill) dispatch(ctx context.Context) {
	defer b.wg.Done()
	defer close(b.jobs)
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.fetchAndDispatch(ctx)
		}
	}
}

func (b *TokenBackfill) fetchAndDispatch(ctx context.Context) {
	orderIDs, err := b.facade.OrdersMissingTokens(ctx, b.batchSize)
	if err != nil {
		b.logger.Error("fetch orders missing tokens failed", slog.String("error", err.Error()))
		return
	}
	for _, id := range orderIDs {
		select {
		case <-ctx.Done():
			return
		case b.jobs <- id:
		}
	}
}

func (b *TokenBackfill) worker(ctx context.Context) {
	defer b.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case orderID, ok := <-b.jobs:
			if !ok {
				return
			}
			b.handleOrder(ctx, orderID)
		}
	}
}

func (b *TokenBackfill) handleOrder(ctx context.Context, orderID string) {
	tokens, err := b.facade.IssueTokens(ctx, orderID)
	if err != nil {
		b.logger.Error("token backfill failed", slog.String("order_id", orderID), slog.String("error", err.Error()))
		return
	}
	b.logger.Info("token backfill completed", slog.String("order_id", orderID), slog.Int("tokens", len(tokens)))

	if len(tokens) == 0 {
		return
	}
	if err := b.facade.DeliverTokens(ctx, orderID, tokens); err != nil {
		b.logger.Error("backfill delivery failed", slog.String("order_id", orderID), slog.String("error", err.Error()))
	}
}
