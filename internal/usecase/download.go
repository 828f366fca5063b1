package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/domain/repository"
	"github.com/polkiloo/digistore/internal/storage/files"
)

const defaultContentType = "application/octet-stream"

// DownloadUseCase redeems download tokens for file streams.
type DownloadUseCase struct {
	tokens   repository.TokenRepository
	products repository.ProductRepository
	store    files.Store
	logger   *slog.Logger
	now      func() time.Time
}

// NewDownloadUseCase constructs DownloadUseCase.
func NewDownloadUseCase(tokens repository.TokenRepository, products repository.ProductRepository, store files.Store, logger *slog.Logger) *DownloadUseCase {
	return &DownloadUseCase{tokens: tokens, products: products, store: store, logger: logger, now: time.Now}
}

// Open validates token, opens its file and counts one download. The counter
// is only incremented through the repository's atomic Consume, so concurrent
// callers can never exceed the token's limit.
func (u *DownloadUseCase) Open(ctx context.Context, token string) (*model.FileDownload, error) {
	token = strings.TrimSpace(token)
	if _, err := uuid.Parse(token); err != nil {
		return nil, fmt.Errorf("%w: download token", domainErrors.ErrNotFound)
	}

	current, err := u.tokens.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	now := u.now()
	if !current.Usable(now) {
		return nil, classifyToken(current, now)
	}

	file, err := u.products.File(ctx, current.ProductID)
	if err != nil {
		return nil, fmt.Errorf("product file: %w", err)
	}

	obj, err := u.store.Open(ctx, file.FileKey)
	if err != nil {
		u.logger.Error("failed to open product file",
			slog.String("product_id", file.ProductID),
			slog.String("file_key", file.FileKey),
			slog.Any("error", err),
		)
		return nil, err
	}

	consumed, ok, err := u.tokens.Consume(ctx, token, u.now())
	if err != nil || !ok {
		obj.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("consume token: %w", err)
		}
		return nil, u.reclassify(ctx, token)
	}

	u.logger.Info("download started",
		slog.String("order_id", consumed.OrderID),
		slog.String("product_id", consumed.ProductID),
		slog.Int("download_count", consumed.DownloadCount),
	)

	return &model.FileDownload{
		FileName:    fileName(file),
		ContentType: contentType(file, obj),
		Body:        obj.Body,
		Size:        obj.Size,
		Remaining:   consumed.Remaining(),
	}, nil
}

// reclassify explains why Consume found no usable row.
func (u *DownloadUseCase) reclassify(ctx context.Context, token string) error {
	current, err := u.tokens.GetByToken(ctx, token)
	if err != nil {
		return err
	}
	if err := classifyToken(current, u.now()); err != nil {
		return err
	}
	return fmt.Errorf("%w: token changed during download", domainErrors.ErrConflict)
}

func classifyToken(t *model.DownloadToken, now time.Time) error {
	switch {
	case !now.Before(t.ExpiresAt):
		return fmt.Errorf("%w: download link expired", domainErrors.ErrExpired)
	case t.DownloadCount >= t.MaxDownloads:
		return domainErrors.ErrQuotaExceeded
	default:
		return nil
	}
}

func fileName(f *model.ProductFile) string {
	if f.FileName != "" {
		return f.FileName
	}
	return f.Name
}

func contentType(f *model.ProductFile, obj *files.Object) string {
	switch {
	case f.ContentType != "":
		return f.ContentType
	case obj.ContentType != "":
		return obj.ContentType
	default:
		return defaultContentType
	}
}

