package handlers

import (
	"context"

	"github.com/polkiloo/digistore/internal/domain/model"
)

// OrderFacade creates storefront orders.
type OrderFacade interface {
	CreateOrder(ctx context.Context, req model.CheckoutRequest) (*model.CheckoutResult, error)
}

// PaymentFacade confirms gateway payments.
type PaymentFacade interface {
	VerifyPayment(ctx context.Context, req model.PaymentConfirmation) (*model.PaymentResult, error)
}

// DownloadFacade redeems download tokens.
type DownloadFacade interface {
	OpenDownload(ctx context.Context, token string) (*model.FileDownload, error)
}

// NotificationFacade sends delivery messages on operator request.
type NotificationFacade interface {
	SendNotification(ctx context.Context, n model.Notification) (*model.DispatchResult, error)
}

// WebhookFacade handles messaging provider callbacks.
type WebhookFacade interface {
	VerifyWebhook(ctx context.Context, mode, verifyToken, challenge string) (string, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) model.WebhookSummary
}

// HealthFacade reports backing store health.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// StorefrontFacade aggregates the full set of operations used across handlers.
type StorefrontFacade interface {
	OrderFacade
	PaymentFacade
	DownloadFacade
	NotificationFacade
	WebhookFacade
	HealthFacade
}
