package repository

import (
	"context"
	"time"

	"github.com/polkiloo/digistore/internal/domain/model"
)

// TokenRepository stores download tokens.
type TokenRepository interface {
	// Insert creates the token unless one already exists for its order and product.
	Insert(ctx context.Context, token model.DownloadToken) (bool, error)
	ListByOrder(ctx context.Context, orderID string) ([]model.DownloadToken, error)
	GetByToken(ctx context.Context, token string) (*model.DownloadToken, error)
	// Consume atomically counts one download when the token is usable at now.
	Consume(ctx context.Context, token string, now time.Time) (*model.DownloadToken, bool, error)
}

// ProductRepository resolves stored files for products.
type ProductRepository interface {
	File(ctx context.Context, productID string) (*model.ProductFile, error)
}
