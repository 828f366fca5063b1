package repository

import (
	"context"

	"github.com/polkiloo/digistore/internal/domain/model"
)

// OrderRepository describes persistence operations with orders and their items.
type OrderRepository interface {
	Create(ctx context.Context, order model.NewOrder) (*model.Order, error)
	GetByID(ctx context.Context, id string) (*model.Order, error)
	Items(ctx context.Context, orderID string) ([]model.OrderItem, error)
	SetGatewayOrderID(ctx context.Context, orderID, gatewayOrderID string) error
	MarkFailed(ctx context.Context, orderID string) error
	// MarkPaid transitions a pending order to paid. It reports false when the
	// order was no longer pending.
	MarkPaid(ctx context.Context, confirmation model.PaymentConfirmation) (bool, error)
	RecordNotification(ctx context.Context, orderID, messageID string, sent bool) error
	FindByProviderMessageID(ctx context.Context, messageID string) ([]model.Order, error)
	FindPaidByPhoneSuffix(ctx context.Context, suffix string, limit int) ([]model.Order, error)
	// AdvanceDeliveryStatus applies status along the delivery lattice and
	// reports whether the stored value changed.
	AdvanceDeliveryStatus(ctx context.Context, orderID string, status model.DeliveryStatus) (bool, error)
	PaidMissingTokens(ctx context.Context, limit int) ([]string, error)
}
