package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/domain/model"
	testhelpers "github.com/polkiloo/digistore/internal/test"
	"github.com/polkiloo/digistore/internal/usecase"
)

func newFacade(settings model.Settings) (*StorefrontFacade, *testhelpers.MemoryStore, *testhelpers.HealthFacadeStub, *testhelpers.MessengerStub) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	store := testhelpers.NewMemoryStore()
	loader := &testhelpers.SettingsStub{Settings: settings}
	messenger := &testhelpers.MessengerStub{}
	files := &testhelpers.FileStoreStub{Files: map[string]string{"keys/guide.pdf": "pdf-bytes"}}
	health := &testhelpers.HealthFacadeStub{}
	opts := usecase.Options{
		Currency:            "INR",
		CountryCode:         "91",
		PublicBaseURL:       "https://shop.test",
		TokenTTL:            7 * 24 * time.Hour,
		MaxDownloads:        3,
		ReconcileCandidates: 5,
	}

	issuer := usecase.NewTokenIssuer(store, store, opts, logger)
	notifier := usecase.NewNotificationUseCase(store, messenger, loader, opts, logger)
	facade := newStorefrontFacade(facadeParams{
		Checkout:  usecase.NewCheckoutUseCase(store, &testhelpers.GatewayStub{}, loader, opts, logger),
		Payments:  usecase.NewPaymentUseCase(store, store, issuer, notifier, loader, opts, logger),
		Issuer:    issuer,
		Downloads: usecase.NewDownloadUseCase(store, store, files, logger),
		Notifier:  notifier,
		Reconcile: usecase.NewReconcileUseCase(store, loader, opts, logger),
		Orders:    store,
		Health:    health,
	})
	return facade, store, health, messenger
}

func TestStorefrontFacadeCheckoutToDownload(t *testing.T) {
	facade, store, _, _ := newFacade(model.Settings{
		GatewayTestMode:     true,
		WhatsAppAccessToken: model.DryRunCredential,
		WhatsAppVerifyToken: "verify",
	})
	store.Products["guide"] = &model.ProductFile{ProductID: "guide", Name: "Guide", FileKey: "keys/guide.pdf", FileName: "guide.pdf"}
	ctx := context.Background()

	order, err := facade.CreateOrder(ctx, model.CheckoutRequest{
		Items:         []model.CartItem{{ProductID: "guide", Name: "Guide", Price: decimal.NewFromInt(199)}},
		CustomerEmail: "a@x.com",
		CustomerPhone: "9876543210",
		WhatsAppOptIn: true,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	paid, err := facade.VerifyPayment(ctx, model.PaymentConfirmation{OrderID: order.OrderID, PaymentID: "pay_1"})
	if err != nil {
		t.Fatalf("verify payment: %v", err)
	}
	if len(paid.Downloads) != 1 {
		t.Fatalf("expected one download, got %d", len(paid.Downloads))
	}

	file, err := facade.OpenDownload(ctx, paid.Downloads[0].Token)
	if err != nil {
		t.Fatalf("open download: %v", err)
	}
	body, _ := io.ReadAll(file.Body)
	_ = file.Body.Close()
	if string(body) != "pdf-bytes" || file.Remaining != 2 {
		t.Fatalf("unexpected download %q remaining %d", body, file.Remaining)
	}

	preview, err := facade.SendNotification(ctx, model.Notification{
		OrderID:       order.OrderID,
		CustomerPhone: "9876543210",
		Links:         []model.DeliveryLink{{ProductName: "Guide", Token: paid.Downloads[0].Token}},
	})
	if err != nil || !preview.Simulated {
		t.Fatalf("expected simulated dispatch, got %+v %v", preview, err)
	}

	challenge, err := facade.VerifyWebhook(ctx, "subscribe", "verify", "42")
	if err != nil || challenge != "42" {
		t.Fatalf("unexpected handshake result %q %v", challenge, err)
	}
	summary := facade.HandleWebhook(ctx, []byte(`{"entry":[]}`), "")
	if summary.Dropped {
		t.Fatalf("expected webhook to be accepted")
	}
}

func TestStorefrontFacadeBackfill(t *testing.T) {
	facade, store, _, _ := newFacade(model.Settings{})
	store.PutOrder(model.Order{ID: "order-1", Status: model.OrderStatusPaid},
		model.OrderItem{ProductID: "a", ProductName: "A"},
		model.OrderItem{ProductID: "b", ProductName: "B"},
	)

	ids, err := facade.OrdersMissingTokens(context.Background(), 10)
	if err != nil || len(ids) != 1 || ids[0] != "order-1" {
		t.Fatalf("unexpected pending orders %v %v", ids, err)
	}

	tokens, err := facade.IssueTokens(context.Background(), "order-1")
	if err != nil || len(tokens) != 2 {
		t.Fatalf("unexpected tokens %v %v", tokens, err)
	}

	ids, _ = facade.OrdersMissingTokens(context.Background(), 10)
	if len(ids) != 0 {
		t.Fatalf("expected no pending orders after backfill, got %v", ids)
	}
}

func TestStorefrontFacadeBackfillDeliversFullLinkSet(t *testing.T) {
	facade, store, _, messenger := newFacade(model.Settings{
		GatewayTestMode:       true,
		WhatsAppAccessToken:   "live-token",
		WhatsAppPhoneNumberID: "phone-id",
	})
	store.TokenErrs = map[string]error{"b": errors.New("insert failed")}
	ctx := context.Background()

	order, err := facade.CreateOrder(ctx, model.CheckoutRequest{
		Items: []model.CartItem{
			{ProductID: "a", Name: "Alpha", Price: decimal.NewFromInt(10)},
			{ProductID: "b", Name: "Beta", Price: decimal.NewFromInt(20)},
		},
		CustomerEmail: "a@x.com",
		CustomerPhone: "9876543210",
		WhatsAppOptIn: true,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	paid, err := facade.VerifyPayment(ctx, model.PaymentConfirmation{OrderID: order.OrderID, PaymentID: "pay_1"})
	if err != nil {
		t.Fatalf("verify payment: %v", err)
	}
	if len(paid.Downloads) != 1 {
		t.Fatalf("expected one download before backfill, got %d", len(paid.Downloads))
	}
	if messenger.Count() != 0 {
		t.Fatalf("partial link set must not be sent, got %d messages", messenger.Count())
	}

	store.TokenErrs = nil
	ids, err := facade.OrdersMissingTokens(ctx, 10)
	if err != nil || len(ids) != 1 || ids[0] != order.OrderID {
		t.Fatalf("unexpected pending orders %v %v", ids, err)
	}
	tokens, err := facade.IssueTokens(ctx, order.OrderID)
	if err != nil || len(tokens) != 2 {
		t.Fatalf("unexpected tokens %v %v", tokens, err)
	}
	if err := facade.DeliverTokens(ctx, order.OrderID, tokens); err != nil {
		t.Fatalf("deliver tokens: %v", err)
	}

	if messenger.Count() != 1 {
		t.Fatalf("expected one message after backfill, got %d", messenger.Count())
	}
	body := messenger.Sent[0].Body
	for _, tok := range tokens {
		if !strings.Contains(body, "https://shop.test/api/download?token="+tok.Token) {
			t.Fatalf("message is missing link for %s: %s", tok.ProductName, body)
		}
	}
	if stored, _ := store.Order(order.OrderID); stored.DeliveryStatus != model.DeliveryStatusSent {
		t.Fatalf("expected delivery status sent, got %s", stored.DeliveryStatus)
	}
}

func TestStorefrontFacadeDeliverTokensSkipsWithoutOptIn(t *testing.T) {
	facade, store, _, messenger := newFacade(model.Settings{WhatsAppAccessToken: "live-token"})
	store.PutOrder(model.Order{ID: "order-1", Status: model.OrderStatusPaid, CustomerPhone: "919876543210"})

	if err := facade.DeliverTokens(context.Background(), "order-1", []model.DownloadToken{{Token: "t", ProductName: "A"}}); err != nil {
		t.Fatalf("deliver tokens: %v", err)
	}
	if messenger.Count() != 0 {
		t.Fatalf("expected no message without opt-in")
	}
	if err := facade.DeliverTokens(context.Background(), "missing", nil); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStorefrontFacadeErrors(t *testing.T) {
	facade, _, health, _ := newFacade(model.Settings{})

	if _, err := facade.OpenDownload(context.Background(), "bogus"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := facade.VerifyWebhook(context.Background(), "subscribe", "x", "c"); !errors.Is(err, domainErrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized handshake, got %v", err)
	}

	if err := facade.HealthCheck(context.Background()); err != nil {
		t.Fatalf("unexpected health error: %v", err)
	}
	health.Err = errors.New("db down")
	if err := facade.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected health error")
	}
}
