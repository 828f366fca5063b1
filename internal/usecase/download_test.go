package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/storage/files"
)

func seedToken(f *fixture, mutate func(*model.DownloadToken)) string {
	f.store.Products["p1"] = &model.ProductFile{
		ProductID:   "p1",
		Name:        "Field Guide",
		FileKey:     "guides/field.pdf",
		FileName:    "field-guide.pdf",
		ContentType: "application/pdf",
	}
	f.files.Files["guides/field.pdf"] = "%PDF-1.7"

	tok := model.DownloadToken{
		Token:        uuid.NewString(),
		OrderID:      uuid.NewString(),
		ProductID:    "p1",
		ProductName:  "Field Guide",
		ExpiresAt:    time.Now().Add(time.Hour),
		MaxDownloads: 3,
	}
	if mutate != nil {
		mutate(&tok)
	}
	f.store.TokensByID[tok.Token] = &tok
	return tok.Token
}

func TestDownloadOpenStreamsFileAndCounts(t *testing.T) {
	f := newFixture(liveSettings())
	token := seedToken(f, nil)

	res, err := f.download.Open(context.Background(), token)
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.7", string(body))
	require.Equal(t, "field-guide.pdf", res.FileName)
	require.Equal(t, "application/pdf", res.ContentType)
	require.Equal(t, 2, res.Remaining)

	stored, err := f.store.GetByToken(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, 1, stored.DownloadCount)
	require.NotNil(t, stored.LastDownloadedAt)
}

func TestDownloadOpenDistinguishesRejections(t *testing.T) {
	f := newFixture(liveSettings())

	_, err := f.download.Open(context.Background(), "not-a-token")
	require.ErrorIs(t, err, domainErrors.ErrNotFound)

	_, err = f.download.Open(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, domainErrors.ErrNotFound)

	expired := seedToken(f, func(tok *model.DownloadToken) { tok.ExpiresAt = time.Now().Add(-time.Minute) })
	_, err = f.download.Open(context.Background(), expired)
	require.ErrorIs(t, err, domainErrors.ErrExpired)

	exhausted := seedToken(f, func(tok *model.DownloadToken) { tok.DownloadCount = 3 })
	_, err = f.download.Open(context.Background(), exhausted)
	require.ErrorIs(t, err, domainErrors.ErrQuotaExceeded)
}

func TestDownloadOpenDoesNotCountWhenFileMissing(t *testing.T) {
	f := newFixture(liveSettings())
	token := seedToken(f, nil)
	delete(f.files.Files, "guides/field.pdf")

	_, err := f.download.Open(context.Background(), token)
	require.ErrorIs(t, err, domainErrors.ErrNotFound)

	stored, _ := f.store.GetByToken(context.Background(), token)
	require.Zero(t, stored.DownloadCount)
}

func TestDownloadOpenContentTypeFallbacks(t *testing.T) {
	f := newFixture(liveSettings())
	token := seedToken(f, nil)
	f.store.Products["p1"].ContentType = ""
	f.store.Products["p1"].FileName = ""

	res, err := f.download.Open(context.Background(), token)
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, defaultContentType, res.ContentType)
	require.Equal(t, "Field Guide", res.FileName)

	f.files.OpenFn = func(context.Context, string) (*files.Object, error) {
		return &files.Object{Body: io.NopCloser(nil), Size: -1, ContentType: "application/zip"}, nil
	}
	res, err = f.download.Open(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "application/zip", res.ContentType)
	require.Equal(t, int64(-1), res.Size)
}

type closeCounter struct {
	io.Reader
	closed *atomic.Int32
}

func (c closeCounter) Close() error {
	c.closed.Add(1)
	return nil
}

func TestDownloadConcurrentRequestsNeverExceedLimit(t *testing.T) {
	f := newFixture(liveSettings())
	token := seedToken(f, nil)

	var opened, closed atomic.Int32
	f.files.OpenFn = func(context.Context, string) (*files.Object, error) {
		opened.Add(1)
		return &files.Object{Body: closeCounter{Reader: nil, closed: &closed}, Size: -1}, nil
	}

	const workers = 32
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		quota     atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.download.Open(context.Background(), token)
			switch {
			case err == nil:
				succeeded.Add(1)
				res.Body.Close()
			case errors.Is(err, domainErrors.ErrQuotaExceeded):
				quota.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(3), succeeded.Load())
	require.Equal(t, int32(workers-3), quota.Load())
	require.Equal(t, opened.Load(), closed.Load())

	stored, _ := f.store.GetByToken(context.Background(), token)
	require.Equal(t, 3, stored.DownloadCount)
}
