package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/domain/model"
)

const tokenColumns = `id, token, order_id, product_id, product_name, expires_at,
                      download_count, max_downloads, created_at, last_downloaded_at`

func scanToken(row pgx.Row) (*model.DownloadToken, error) {
	var t model.DownloadToken
	err := row.Scan(&t.ID, &t.Token, &t.OrderID, &t.ProductID, &t.ProductName, &t.ExpiresAt,
		&t.DownloadCount, &t.MaxDownloads, &t.CreatedAt, &t.LastDownloadedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// --- TokenRepository implementation ---

func (r *tokenRepository) Insert(ctx context.Context, t model.DownloadToken) (bool, error) {
	const query = `INSERT INTO download_tokens (token, order_id, product_id, product_name, expires_at, max_downloads)
                   VALUES ($1, $2, $3, $4, $5, $6)
                   ON CONFLICT (order_id, product_id) DO NOTHING`
	tag, err := r.storage.pool.Exec(ctx, query, t.Token, t.OrderID, t.ProductID, t.ProductName, t.ExpiresAt, t.MaxDownloads)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *tokenRepository) ListByOrder(ctx context.Context, orderID string) ([]model.DownloadToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM download_tokens WHERE order_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.DownloadToken
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *tokenRepository) GetByToken(ctx context.Context, token string) (*model.DownloadToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM download_tokens WHERE token=$1`
	t, err := scanToken(r.storage.pool.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// Consume checks and increments the counter in one statement so that
// concurrent requests cannot both pass the limit.
func (r *tokenRepository) Consume(ctx context.Context, token string, now time.Time) (*model.DownloadToken, bool, error) {
	query := `UPDATE download_tokens
              SET download_count=download_count+1, last_downloaded_at=$2
              WHERE token=$1 AND expires_at > $2 AND download_count < max_downloads
              RETURNING ` + tokenColumns
	t, err := scanToken(r.storage.pool.QueryRow(ctx, query, token, now))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return t, true, nil
}

// --- ProductRepository implementation ---

func (r *productRepository) File(ctx context.Context, productID string) (*model.ProductFile, error) {
	const query = `SELECT id, name, file_key, file_name, content_type FROM products WHERE id=$1`
	var f model.ProductFile
	err := r.storage.pool.QueryRow(ctx, query, productID).Scan(&f.ProductID, &f.Name, &f.FileKey, &f.FileName, &f.ContentType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// --- SettingsRepository implementation ---

func (r *settingsRepository) All(ctx context.Context) (map[string]string, error) {
	const query = `SELECT key, value FROM settings`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		result[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
