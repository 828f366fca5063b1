package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/domain/repository"
)

// TokenIssuer mints one download token per purchased product.
type TokenIssuer struct {
	orders repository.OrderRepository
	tokens repository.TokenRepository
	opts   Options
	logger *slog.Logger
	now    func() time.Time
}

// NewTokenIssuer constructs TokenIssuer.
func NewTokenIssuer(orders repository.OrderRepository, tokens repository.TokenRepository, opts Options, logger *slog.Logger) *TokenIssuer {
	return &TokenIssuer{orders: orders, tokens: tokens, opts: opts, logger: logger, now: time.Now}
}

// Issue creates missing tokens for orderID and returns every token the order
// holds. Re-invocation never duplicates tokens. Per-item insert failures are
// joined into the returned error alongside whatever tokens exist.
func (i *TokenIssuer) Issue(ctx context.Context, orderID string) ([]model.DownloadToken, error) {
	items, err := i.orders.Items(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}

	expiresAt := i.now().Add(i.opts.TokenTTL)
	seen := make(map[string]struct{}, len(items))
	var errs []error
	created := 0

	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}

		inserted, err := i.tokens.Insert(ctx, model.DownloadToken{
			Token:        uuid.NewString(),
			OrderID:      orderID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ExpiresAt:    expiresAt,
			MaxDownloads: i.opts.MaxDownloads,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("issue token for product %s: %w", item.ProductID, err))
			continue
		}
		if inserted {
			created++
		}
	}

	issueErr := errors.Join(errs...)
	if issueErr != nil {
		i.logger.Error("token issuance incomplete",
			slog.String("order_id", orderID),
			slog.Int("failed", len(errs)),
			slog.Any("error", issueErr),
		)
	} else if created > 0 {
		i.logger.Info("download tokens issued", slog.String("order_id", orderID), slog.Int("count", created))
	}

	tokens, err := i.tokens.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, errors.Join(issueErr, fmt.Errorf("list tokens: %w", err))
	}
	return tokens, issueErr
}
