package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/digistore/internal/adapter/gateway"
	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/domain/repository"
	"github.com/polkiloo/digistore/internal/pkg/phone"
)

// CheckoutUseCase creates orders and their payment-gateway handles.
type CheckoutUseCase struct {
	orders   repository.OrderRepository
	gateway  gateway.Client
	settings SettingsLoader
	opts     Options
	logger   *slog.Logger
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(orders repository.OrderRepository, gw gateway.Client, settings SettingsLoader, opts Options, logger *slog.Logger) *CheckoutUseCase {
	return &CheckoutUseCase{orders: orders, gateway: gw, settings: settings, opts: opts, logger: logger}
}

// Create validates the cart, persists the order with its items and opens a
// gateway order for it. Nothing is written when validation fails.
func (u *CheckoutUseCase) Create(ctx context.Context, req model.CheckoutRequest) (*model.CheckoutResult, error) {
	in, err := u.newOrder(req)
	if err != nil {
		return nil, err
	}

	order, err := u.orders.Create(ctx, *in)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	settings, err := u.settings.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	gatewayOrderID, err := u.openGatewayOrder(ctx, settings, order)
	if err != nil {
		if markErr := u.orders.MarkFailed(ctx, order.ID); markErr != nil {
			u.logger.Error("failed to mark order failed", slog.String("order_id", order.ID), slog.Any("error", markErr))
		}
		return nil, err
	}

	if err := u.orders.SetGatewayOrderID(ctx, order.ID, gatewayOrderID); err != nil {
		if markErr := u.orders.MarkFailed(ctx, order.ID); markErr != nil {
			u.logger.Error("failed to mark order failed", slog.String("order_id", order.ID), slog.Any("error", markErr))
		}
		return nil, fmt.Errorf("store gateway order id: %w", err)
	}

	u.logger.Info("order created",
		slog.String("order_id", order.ID),
		slog.String("order_number", order.Number),
		slog.Int64("amount_minor", order.TotalMinor),
	)

	return &model.CheckoutResult{
		OrderID:          order.ID,
		OrderNumber:      order.Number,
		GatewayOrderID:   gatewayOrderID,
		AmountMinor:      order.TotalMinor,
		Currency:         order.Currency,
		GatewayPublicKey: settings.GatewayKeyID,
	}, nil
}

func (u *CheckoutUseCase) newOrder(req model.CheckoutRequest) (*model.NewOrder, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", domainErrors.ErrValidation)
	}

	email := strings.TrimSpace(req.CustomerEmail)
	if email == "" || !ValidateEmail(email) {
		return nil, fmt.Errorf("%w: customer email is invalid", domainErrors.ErrValidation)
	}
	if strings.TrimSpace(req.CustomerPhone) == "" || !phone.Valid(req.CustomerPhone) {
		return nil, fmt.Errorf("%w: customer phone is invalid", domainErrors.ErrValidation)
	}

	items := make([]model.OrderItem, 0, len(req.Items))
	total := decimal.Zero
	for i, item := range req.Items {
		if strings.TrimSpace(item.ProductID) == "" || strings.TrimSpace(item.Name) == "" {
			return nil, fmt.Errorf("%w: item %d is missing product id or name", domainErrors.ErrValidation, i)
		}
		minor, err := ToMinorUnits(item.Price)
		if err != nil {
			return nil, err
		}
		items = append(items, model.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.Name,
			PriceMinor:  minor,
			Quantity:    1,
		})
		total = total.Add(item.Price)
	}
	if total.Shift(2).GreaterThan(maxMinor) {
		return nil, fmt.Errorf("%w: order total %s is too large", domainErrors.ErrValidation, total)
	}

	return &model.NewOrder{
		ID:            uuid.NewString(),
		CustomerEmail: email,
		CustomerPhone: phone.Normalize(req.CustomerPhone, u.opts.CountryCode),
		CustomerName:  strings.TrimSpace(req.CustomerName),
		Currency:      u.opts.Currency,
		WhatsAppOptIn: req.WhatsAppOptIn,
		Items:         items,
	}, nil
}

func (u *CheckoutUseCase) openGatewayOrder(ctx context.Context, settings *model.Settings, order *model.Order) (string, error) {
	if settings.GatewayTestMode {
		return "order_test_" + uuid.NewString(), nil
	}

	gwOrder, err := u.gateway.CreateOrder(ctx,
		gateway.Credentials{KeyID: settings.GatewayKeyID, KeySecret: settings.GatewayKeySecret},
		gateway.OrderRequest{
			AmountMinor: order.TotalMinor,
			Currency:    order.Currency,
			Receipt:     order.Number,
			Notes:       map[string]string{"order_id": order.ID},
		})
	if err != nil {
		u.logger.Error("gateway order creation failed", slog.String("order_id", order.ID), slog.Any("error", err))
		return "", err
	}
	return gwOrder.ID, nil
}
