package usecase

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/domain/repository"
	"github.com/polkiloo/digistore/internal/pkg/auth"
	"github.com/polkiloo/digistore/internal/pkg/phone"
)

const handshakeMode = "subscribe"

type webhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		ID      string `json:"id"`
		Changes []struct {
			Field string `json:"field"`
			Value struct {
				Statuses []webhookStatus  `json:"statuses"`
				Messages []webhookMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type webhookStatus struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	RecipientID string `json:"recipient_id"`
	Errors      []struct {
		Code  int    `json:"code"`
		Title string `json:"title"`
	} `json:"errors"`
}

type webhookMessage struct {
	ID   string `json:"id"`
	From string `json:"from"`
	Type string `json:"type"`
}

// ReconcileUseCase applies provider delivery callbacks to orders.
type ReconcileUseCase struct {
	orders   repository.OrderRepository
	settings SettingsLoader
	opts     Options
	logger   *slog.Logger
}

// NewReconcileUseCase constructs ReconcileUseCase.
func NewReconcileUseCase(orders repository.OrderRepository, settings SettingsLoader, opts Options, logger *slog.Logger) *ReconcileUseCase {
	return &ReconcileUseCase{orders: orders, settings: settings, opts: opts, logger: logger}
}

// Handshake returns challenge when mode and verifyToken match the configured
// verify token.
func (u *ReconcileUseCase) Handshake(ctx context.Context, mode, verifyToken, challenge string) (string, error) {
	settings, err := u.settings.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load settings: %w", err)
	}
	if mode != handshakeMode || settings.WhatsAppVerifyToken == "" || verifyToken == "" {
		return "", fmt.Errorf("%w: webhook verification failed", domainErrors.ErrUnauthorized)
	}
	if subtle.ConstantTimeCompare([]byte(settings.WhatsAppVerifyToken), []byte(verifyToken)) != 1 {
		return "", fmt.Errorf("%w: webhook verification failed", domainErrors.ErrUnauthorized)
	}
	return challenge, nil
}

// HandleWebhook processes one provider delivery. It never fails: problems are
// logged and the delivery is acknowledged regardless.
func (u *ReconcileUseCase) HandleWebhook(ctx context.Context, body []byte, signatureHeader string) model.WebhookSummary {
	var summary model.WebhookSummary

	settings, err := u.settings.Load(ctx)
	if err != nil {
		u.logger.Error("webhook settings unavailable", slog.Any("error", err))
		summary.Dropped = true
		return summary
	}
	if settings.WhatsAppAppSecret != "" {
		if err := auth.VerifyWebhook(settings.WhatsAppAppSecret, body, signatureHeader); err != nil {
			u.logger.Warn("webhook signature mismatch, event dropped", slog.Any("error", err))
			summary.Dropped = true
			return summary
		}
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		u.logger.Warn("malformed webhook payload", slog.Any("error", err))
		summary.Dropped = true
		return summary
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, m := range change.Value.Messages {
				summary.Messages++
				u.logger.Info("inbound whatsapp message", slog.String("from", m.From), slog.String("type", m.Type))
			}
			for _, s := range change.Value.Statuses {
				summary.Statuses++
				status, ok := model.ParseDeliveryStatus(strings.ToLower(s.Status))
				if !ok {
					u.logger.Warn("unknown delivery status ignored", slog.String("status", s.Status))
					continue
				}
				if status == model.DeliveryStatusFailed && len(s.Errors) > 0 {
					u.logger.Warn("whatsapp delivery failed",
						slog.String("message_id", s.ID),
						slog.Int("code", s.Errors[0].Code),
						slog.String("title", s.Errors[0].Title),
					)
				}
				applied, err := u.Apply(ctx, model.StatusEvent{
					MessageID: s.ID,
					Recipient: s.RecipientID,
					Status:    status,
				})
				if err != nil {
					u.logger.Error("failed to apply delivery status",
						slog.String("message_id", s.ID),
						slog.String("status", string(status)),
						slog.Any("error", err),
					)
				}
				summary.Applied += applied
			}
		}
	}
	return summary
}

// Apply advances delivery status on every candidate order for event and
// returns how many orders changed.
func (u *ReconcileUseCase) Apply(ctx context.Context, event model.StatusEvent) (int, error) {
	if !event.Status.Valid() {
		return 0, fmt.Errorf("%w: delivery status %q", domainErrors.ErrValidation, event.Status)
	}

	candidates, err := u.candidates(ctx, event)
	if err != nil {
		return 0, err
	}
	if len(candidates) == 0 {
		u.logger.Info("no order matches delivery status",
			slog.String("message_id", event.MessageID),
			slog.String("status", string(event.Status)),
		)
		return 0, nil
	}

	applied := 0
	for _, order := range candidates {
		if order.DeliveryStatus.Advance(event.Status) == order.DeliveryStatus {
			continue
		}
		changed, err := u.orders.AdvanceDeliveryStatus(ctx, order.ID, event.Status)
		if err != nil {
			return applied, fmt.Errorf("advance order %s: %w", order.ID, err)
		}
		if changed {
			applied++
			u.logger.Info("delivery status advanced",
				slog.String("order_id", order.ID),
				slog.String("from", string(order.DeliveryStatus)),
				slog.String("to", string(event.Status)),
			)
		}
	}
	return applied, nil
}

// candidates prefers the stored provider message id and falls back to a
// bounded, newest-first phone match.
func (u *ReconcileUseCase) candidates(ctx context.Context, event model.StatusEvent) ([]model.Order, error) {
	if event.MessageID != "" {
		orders, err := u.orders.FindByProviderMessageID(ctx, event.MessageID)
		if err != nil {
			return nil, fmt.Errorf("find by message id: %w", err)
		}
		if len(orders) > 0 {
			return orders, nil
		}
	}

	suffix := phone.Suffix(phone.Normalize(event.Recipient, u.opts.CountryCode))
	if len(suffix) < phone.MatchDigits {
		return nil, nil
	}
	orders, err := u.orders.FindPaidByPhoneSuffix(ctx, suffix, u.opts.ReconcileCandidates)
	if err != nil {
		return nil, fmt.Errorf("find by phone: %w", err)
	}
	return orders, nil
}
