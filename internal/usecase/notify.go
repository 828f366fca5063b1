package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/polkiloo/digistore/internal/adapter/whatsapp"
	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/domain/repository"
	"github.com/polkiloo/digistore/internal/pkg/phone"
)

const defaultGreetingName = "there"

// NotificationUseCase formats delivery messages and sends them over WhatsApp.
type NotificationUseCase struct {
	orders    repository.OrderRepository
	messenger whatsapp.Messenger
	settings  SettingsLoader
	opts      Options
	logger    *slog.Logger
}

// NewNotificationUseCase constructs NotificationUseCase.
func NewNotificationUseCase(orders repository.OrderRepository, messenger whatsapp.Messenger, settings SettingsLoader, opts Options, logger *slog.Logger) *NotificationUseCase {
	return &NotificationUseCase{orders: orders, messenger: messenger, settings: settings, opts: opts, logger: logger}
}

// Send dispatches an explicitly composed notification for an existing order.
func (u *NotificationUseCase) Send(ctx context.Context, n model.Notification) (*model.DispatchResult, error) {
	if strings.TrimSpace(n.OrderID) == "" {
		return nil, fmt.Errorf("%w: order id is required", domainErrors.ErrValidation)
	}
	if !phone.Valid(n.CustomerPhone) {
		return nil, fmt.Errorf("%w: customer phone is invalid", domainErrors.ErrValidation)
	}
	if len(n.Links) == 0 {
		return nil, fmt.Errorf("%w: at least one product is required", domainErrors.ErrValidation)
	}
	for i, link := range n.Links {
		if strings.TrimSpace(link.ProductName) == "" || strings.TrimSpace(link.Token) == "" {
			return nil, fmt.Errorf("%w: product %d is missing name or token", domainErrors.ErrValidation, i)
		}
	}

	if _, err := uuid.Parse(n.OrderID); err != nil {
		return nil, fmt.Errorf("%w: order %s", domainErrors.ErrNotFound, n.OrderID)
	}

	order, err := u.orders.GetByID(ctx, n.OrderID)
	if err != nil {
		return nil, err
	}

	name := n.CustomerName
	if strings.TrimSpace(name) == "" {
		name = order.CustomerName
	}
	return u.dispatch(ctx, order, n.CustomerPhone, name, n.Links)
}

// NotifyOrder sends the download links of tokens to the order's customer.
func (u *NotificationUseCase) NotifyOrder(ctx context.Context, order *model.Order, tokens []model.DownloadToken) (*model.DispatchResult, error) {
	links := make([]model.DeliveryLink, 0, len(tokens))
	for _, t := range tokens {
		links = append(links, model.DeliveryLink{ProductName: t.ProductName, Token: t.Token})
	}
	return u.dispatch(ctx, order, order.CustomerPhone, order.CustomerName, links)
}

func (u *NotificationUseCase) dispatch(ctx context.Context, order *model.Order, rawPhone, name string, links []model.DeliveryLink) (*model.DispatchResult, error) {
	settings, err := u.settings.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	to := phone.Normalize(rawPhone, u.opts.CountryCode)
	body := u.composeMessage(settings.StoreName, order.Number, name, links)

	if settings.WhatsAppDryRun() {
		u.record(ctx, order.ID, "", false)
		u.logger.Info("whatsapp dry run", slog.String("order_id", order.ID), slog.String("to", to))
		return &model.DispatchResult{Success: true, Simulated: true, To: to, Body: body}, nil
	}

	creds := whatsapp.Credentials{
		AccessToken:   settings.WhatsAppAccessToken,
		PhoneNumberID: settings.WhatsAppPhoneNumberID,
	}
	messageID, err := u.messenger.SendText(ctx, creds, to, body)
	if err != nil {
		u.record(ctx, order.ID, "", false)
		u.logger.Error("whatsapp dispatch failed", slog.String("order_id", order.ID), slog.Any("error", err))
		return nil, err
	}

	u.record(ctx, order.ID, messageID, true)
	u.logger.Info("whatsapp message sent", slog.String("order_id", order.ID), slog.String("message_id", messageID))
	return &model.DispatchResult{Success: true, MessageID: messageID, To: to}, nil
}

func (u *NotificationUseCase) record(ctx context.Context, orderID, messageID string, sent bool) {
	if err := u.orders.RecordNotification(ctx, orderID, messageID, sent); err != nil {
		u.logger.Error("failed to record notification attempt", slog.String("order_id", orderID), slog.Any("error", err))
	}
}

func (u *NotificationUseCase) composeMessage(storeName, orderNumber, name string, links []model.DeliveryLink) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultGreetingName
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s! ", name)
	if storeName != "" {
		fmt.Fprintf(&b, "Thank you for shopping with %s.\n", storeName)
	} else {
		b.WriteString("Thank you for your purchase.\n")
	}
	fmt.Fprintf(&b, "Order %s\n\nYour downloads:\n", orderNumber)
	for _, link := range links {
		fmt.Fprintf(&b, "• %s: %s\n", link.ProductName, u.opts.DownloadURL(link.Token))
	}
	fmt.Fprintf(&b, "\nLinks expire in %s and allow %d downloads each.", formatTTL(u.opts.TokenTTL), u.opts.MaxDownloads)
	return b.String()
}

func formatTTL(ttl time.Duration) string {
	if ttl >= 24*time.Hour && ttl%(24*time.Hour) == 0 {
		days := int(ttl / (24 * time.Hour))
		if days == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", days)
	}
	return ttl.String()
}
