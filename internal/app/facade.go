package app

import (
	"context"

	"go.uber.org/fx"

	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/domain/repository"
	"github.com/polkiloo/digistore/internal/usecase"
)

// HealthChecker reports whether backing storage is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// StorefrontFacade exposes the fulfillment pipeline to transports and workers.
type StorefrontFacade struct {
	checkout  *usecase.CheckoutUseCase
	payments  *usecase.PaymentUseCase
	issuer    *usecase.TokenIssuer
	downloads *usecase.DownloadUseCase
	notifier  *usecase.NotificationUseCase
	reconcile *usecase.ReconcileUseCase
	orders    repository.OrderRepository
	health    HealthChecker
}

type facadeParams struct {
	fx.In

	Checkout  *usecase.CheckoutUseCase
	Payments  *usecase.PaymentUseCase
	Issuer    *usecase.TokenIssuer
	Downloads *usecase.DownloadUseCase
	Notifier  *usecase.NotificationUseCase
	Reconcile *usecase.ReconcileUseCase
	Orders    repository.OrderRepository
	Health    HealthChecker
}

func newStorefrontFacade(p facadeParams) *StorefrontFacade {
	return &StorefrontFacade{
		checkout:  p.Checkout,
		payments:  p.Payments,
		issuer:    p.Issuer,
		downloads: p.Downloads,
		notifier:  p.Notifier,
		reconcile: p.Reconcile,
		orders:    p.Orders,
		health:    p.Health,
	}
}

func (f *StorefrontFacade) CreateOrder(ctx context.Context, req model.CheckoutRequest) (*model.CheckoutResult, error) {
	return f.checkout.Create(ctx, req)
}

func (f *StorefrontFacade) VerifyPayment(ctx context.Context, req model.PaymentConfirmation) (*model.PaymentResult, error) {
	return f.payments.Verify(ctx, req)
}

func (f *StorefrontFacade) OpenDownload(ctx context.Context, token string) (*model.FileDownload, error) {
	return f.downloads.Open(ctx, token)
}

func (f *StorefrontFacade) SendNotification(ctx context.Context, n model.Notification) (*model.DispatchResult, error) {
	return f.notifier.Send(ctx, n)
}

func (f *StorefrontFacade) VerifyWebhook(ctx context.Context, mode, verifyToken, challenge string) (string, error) {
	return f.reconcile.Handshake(ctx, mode, verifyToken, challenge)
}

func (f *StorefrontFacade) HandleWebhook(ctx context.Context, body []byte, signature string) model.WebhookSummary {
	return f.reconcile.HandleWebhook(ctx, body, signature)
}

func (f *StorefrontFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}

func (f *StorefrontFacade) OrdersMissingTokens(ctx context.Context, limit int) ([]string, error) {
	return f.orders.PaidMissingTokens(ctx, limit)
}

// DeliverTokens sends the full link set to opted-in customers. Orders
// without WhatsApp opt-in are left alone.
func (f *StorefrontFacade) DeliverTokens(ctx context.Context, orderID string, tokens []model.DownloadToken) error {
	order, err := f.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !order.WhatsAppOptIn {
		return nil
	}
	_, err = f.notifier.NotifyOrder(ctx, order, tokens)
	return err
}

func (f *StorefrontFacade) IssueTokens(ctx context.Context, orderID string) ([]model.DownloadToken, error) {
	return f.issuer.Issue(ctx, orderID)
}
