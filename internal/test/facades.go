package test

import (
	"context"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/polkiloo/digistore/internal/domain/model"
)

// OrderFacadeStub provides controllable behaviour for checkout endpoints.
type OrderFacadeStub struct {
	CreateFn func(context.Context, model.CheckoutRequest) (*model.CheckoutResult, error)
}

// CreateOrder delegates to provided function or returns a default order.
func (s OrderFacadeStub) CreateOrder(ctx context.Context, req model.CheckoutRequest) (*model.CheckoutResult, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, req)
	}
	return &model.CheckoutResult{
		OrderID:        "00000000-0000-4000-8000-000000000001",
		OrderNumber:    "DG-20260101-000001",
		GatewayOrderID: "order_stub_1",
		AmountMinor:    29800,
		Currency:       "INR",
	}, nil
}

// PaymentFacadeStub provides controllable payment verification.
type PaymentFacadeStub struct {
	VerifyFn func(context.Context, model.PaymentConfirmation) (*model.PaymentResult, error)
}

// VerifyPayment delegates to provided function or confirms with one download.
func (s PaymentFacadeStub) VerifyPayment(ctx context.Context, req model.PaymentConfirmation) (*model.PaymentResult, error) {
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, req)
	}
	return &model.PaymentResult{
		OrderNumber: "DG-20260101-000001",
		Status:      model.OrderStatusPaid,
		Message:     "Payment verified.",
		Downloads: []model.Download{{
			ProductID:   "p1",
			ProductName: "Field Guide",
			Token:       "tok",
			ExpiresAt:   time.Unix(0, 0).UTC(),
			URL:         "http://localhost/api/download?token=tok",
			Remaining:   3,
		}},
	}, nil
}

// DownloadFacadeStub serves fixed content.
type DownloadFacadeStub struct {
	OpenFn func(context.Context, string) (*model.FileDownload, error)
}

// OpenDownload delegates to provided function or returns a small text file.
func (s DownloadFacadeStub) OpenDownload(ctx context.Context, token string) (*model.FileDownload, error) {
	if s.OpenFn != nil {
		return s.OpenFn(ctx, token)
	}
	return &model.FileDownload{
		FileName:    "guide.txt",
		ContentType: "text/plain",
		Body:        io.NopCloser(strings.NewReader("content")),
		Size:        7,
		Remaining:   2,
	}, nil
}

// NotificationFacadeStub records admin notification requests.
type NotificationFacadeStub struct {
	SendFn func(context.Context, model.Notification) (*model.DispatchResult, error)
}

// SendNotification delegates to provided function or reports success.
func (s NotificationFacadeStub) SendNotification(ctx context.Context, n model.Notification) (*model.DispatchResult, error) {
	if s.SendFn != nil {
		return s.SendFn(ctx, n)
	}
	return &model.DispatchResult{Success: true, MessageID: "wamid.stub1"}, nil
}

// WebhookFacadeStub controls webhook handshake and delivery.
type WebhookFacadeStub struct {
	VerifyFn func(context.Context, string, string, string) (string, error)
	HandleFn func(context.Context, []byte, string) model.WebhookSummary
}

// VerifyWebhook delegates to provided function or echoes the challenge.
func (s WebhookFacadeStub) VerifyWebhook(ctx context.Context, mode, verifyToken, challenge string) (string, error) {
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, mode, verifyToken, challenge)
	}
	return challenge, nil
}

// HandleWebhook delegates to provided function or returns an empty summary.
func (s WebhookFacadeStub) HandleWebhook(ctx context.Context, body []byte, signature string) model.WebhookSummary {
	if s.HandleFn != nil {
		return s.HandleFn(ctx, body, signature)
	}
	return model.WebhookSummary{}
}

// HealthFacadeStub returns configured health error.
type HealthFacadeStub struct {
	Err error
}

// HealthCheck returns configured error.
func (s HealthFacadeStub) HealthCheck(context.Context) error {
	return s.Err
}

// StorefrontFacadeStub aggregates handler stubs.
type StorefrontFacadeStub struct {
	OrderFacadeStub
	PaymentFacadeStub
	DownloadFacadeStub
	NotificationFacadeStub
	WebhookFacadeStub
	HealthFacadeStub
}

// BackfillFacadeStub mimics worker interactions with the storefront facade.
type BackfillFacadeStub struct {
	Batches   [][]string
	PendingFn func(context.Context, int) ([]string, error)
	IssueFn   func(context.Context, string) ([]model.DownloadToken, error)
	DeliverFn func(context.Context, string, []model.DownloadToken) error
	Issued    []string
	Delivered map[string]int

	mu        sync.Mutex
	callCount int32
}

// Lock exposes internal mutex for external synchronization.
func (s *BackfillFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *BackfillFacadeStub) Unlock() { s.mu.Unlock() }

// OrdersMissingTokens returns batches from configured queue.
func (s *BackfillFacadeStub) OrdersMissingTokens(ctx context.Context, limit int) ([]string, error) {
	if s.PendingFn != nil {
		return s.PendingFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.callCount, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	return nil, nil
}

// IssueTokens records the order and returns a single token.
func (s *BackfillFacadeStub) IssueTokens(ctx context.Context, orderID string) ([]model.DownloadToken, error) {
	s.mu.Lock()
	s.Issued = append(s.Issued, orderID)
	s.mu.Unlock()
	if s.IssueFn != nil {
		return s.IssueFn(ctx, orderID)
	}
	return []model.DownloadToken{{OrderID: orderID, Token: "tok-" + orderID}}, nil
}

// DeliverTokens records how many tokens were handed over per order.
func (s *BackfillFacadeStub) DeliverTokens(ctx context.Context, orderID string, tokens []model.DownloadToken) error {
	s.mu.Lock()
	if s.Delivered == nil {
		s.Delivered = make(map[string]int)
	}
	s.Delivered[orderID] = len(tokens)
	s.mu.Unlock()
	if s.DeliverFn != nil {
		return s.DeliverFn(ctx, orderID, tokens)
	}
	return nil
}
