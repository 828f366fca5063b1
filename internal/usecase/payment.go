package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/domain/repository"
	"github.com/polkiloo/digistore/internal/pkg/auth"
)

const (
	messagePaymentVerified  = "Payment verified. Your download links are ready."
	messageAlreadyConfirmed = "Payment already confirmed."
)

// PaymentUseCase verifies gateway callbacks and fulfils paid orders.
type PaymentUseCase struct {
	orders   repository.OrderRepository
	tokens   repository.TokenRepository
	issuer   *TokenIssuer
	notifier *NotificationUseCase
	settings SettingsLoader
	opts     Options
	logger   *slog.Logger
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(
	orders repository.OrderRepository,
	tokens repository.TokenRepository,
	issuer *TokenIssuer,
	notifier *NotificationUseCase,
	settings SettingsLoader,
	opts Options,
	logger *slog.Logger,
) *PaymentUseCase {
	return &PaymentUseCase{
		orders:   orders,
		tokens:   tokens,
		issuer:   issuer,
		notifier: notifier,
		settings: settings,
		opts:     opts,
		logger:   logger,
	}
}

// Verify authenticates the confirmation and moves the order to paid. Only the
// caller that wins the pending->paid transition issues tokens and notifies;
// repeated confirmations return the existing downloads.
func (u *PaymentUseCase) Verify(ctx context.Context, req model.PaymentConfirmation) (*model.PaymentResult, error) {
	if strings.TrimSpace(req.OrderID) == "" || strings.TrimSpace(req.PaymentID) == "" {
		return nil, fmt.Errorf("%w: order id and payment id are required", domainErrors.ErrValidation)
	}
	if _, err := uuid.Parse(req.OrderID); err != nil {
		return nil, fmt.Errorf("%w: order %s", domainErrors.ErrNotFound, req.OrderID)
	}

	order, err := u.orders.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	switch order.Status {
	case model.OrderStatusPaid:
		return u.confirmed(ctx, order, messageAlreadyConfirmed)
	case model.OrderStatusFailed, model.OrderStatusRefunded:
		return nil, fmt.Errorf("%w: order is %s", domainErrors.ErrConflict, order.Status)
	}

	settings, err := u.settings.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if err := u.authenticate(settings, order, req); err != nil {
		u.logger.Warn("payment verification rejected",
			slog.String("order_id", order.ID),
			slog.String("payment_id", req.PaymentID),
			slog.Any("error", err),
		)
		return nil, err
	}

	if req.GatewayOrderID == "" {
		req.GatewayOrderID = order.GatewayOrderID
	}
	won, err := u.orders.MarkPaid(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("mark order paid: %w", err)
	}
	if !won {
		current, err := u.orders.GetByID(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		if current.Status == model.OrderStatusPaid {
			return u.confirmed(ctx, current, messageAlreadyConfirmed)
		}
		return nil, fmt.Errorf("%w: order is %s", domainErrors.ErrConflict, current.Status)
	}

	order.Status = model.OrderStatusPaid
	u.logger.Info("order paid", slog.String("order_id", order.ID), slog.String("payment_id", req.PaymentID))

	tokens, err := u.issuer.Issue(ctx, order.ID)
	if err != nil {
		u.logger.Error("token issuance after payment failed; backfill will retry and notify",
			slog.String("order_id", order.ID), slog.Any("error", err))
	}

	// An incomplete set is delivered by the backfill once every token exists.
	if err == nil && order.WhatsAppOptIn && len(tokens) > 0 {
		if _, err := u.notifier.NotifyOrder(ctx, order, tokens); err != nil {
			u.logger.Error("delivery notification failed", slog.String("order_id", order.ID), slog.Any("error", err))
		}
	}

	return u.result(order, messagePaymentVerified, tokens), nil
}

func (u *PaymentUseCase) authenticate(settings *model.Settings, order *model.Order, req model.PaymentConfirmation) error {
	if req.GatewayOrderID != "" && order.GatewayOrderID != "" && req.GatewayOrderID != order.GatewayOrderID {
		return fmt.Errorf("%w: gateway order id does not match", domainErrors.ErrUnauthorized)
	}
	if settings.GatewayTestMode {
		return nil
	}
	if settings.GatewayKeySecret == "" {
		return fmt.Errorf("%w: gateway secret is not configured", domainErrors.ErrUnauthorized)
	}

	gatewayOrderID := req.GatewayOrderID
	if gatewayOrderID == "" {
		gatewayOrderID = order.GatewayOrderID
	}
	if err := auth.VerifyPayment(settings.GatewayKeySecret, gatewayOrderID, req.PaymentID, req.Signature); err != nil {
		if errors.Is(err, auth.ErrInvalidSignature) {
			return fmt.Errorf("%w: %v", domainErrors.ErrUnauthorized, err)
		}
		return err
	}
	return nil
}

func (u *PaymentUseCase) confirmed(ctx context.Context, order *model.Order, message string) (*model.PaymentResult, error) {
	tokens, err := u.tokens.ListByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	return u.result(order, message, tokens), nil
}

func (u *PaymentUseCase) result(order *model.Order, message string, tokens []model.DownloadToken) *model.PaymentResult {
	downloads := make([]model.Download, 0, len(tokens))
	for _, t := range tokens {
		downloads = append(downloads, model.Download{
			ProductID:   t.ProductID,
			ProductName: t.ProductName,
			Token:       t.Token,
			ExpiresAt:   t.ExpiresAt,
			URL:         u.opts.DownloadURL(t.Token),
			Remaining:   t.Remaining(),
		})
	}
	return &model.PaymentResult{
		OrderNumber: order.Number,
		Status:      model.OrderStatusPaid,
		Message:     message,
		Downloads:   downloads,
	}
}
