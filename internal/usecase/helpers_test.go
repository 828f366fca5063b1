package usecase

import (
	"io"
	"log/slog"
	"time"

	"github.com/polkiloo/digistore/internal/domain/model"
	testhelpers "github.com/polkiloo/digistore/internal/test"
)

const testSecret = "gw_secret"

var testOptions = Options{
	Currency:            "INR",
	CountryCode:         "91",
	PublicBaseURL:       "https://shop.test",
	TokenTTL:            7 * 24 * time.Hour,
	MaxDownloads:        3,
	ReconcileCandidates: 5,
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	store     *testhelpers.MemoryStore
	gateway   *testhelpers.GatewayStub
	messenger *testhelpers.MessengerStub
	files     *testhelpers.FileStoreStub
	settings  *testhelpers.SettingsStub

	checkout  *CheckoutUseCase
	issuer    *TokenIssuer
	notifier  *NotificationUseCase
	payment   *PaymentUseCase
	download  *DownloadUseCase
	reconcile *ReconcileUseCase
}

func newFixture(settings model.Settings) *fixture {
	f := &fixture{
		store:     testhelpers.NewMemoryStore(),
		gateway:   &testhelpers.GatewayStub{},
		messenger: &testhelpers.MessengerStub{},
		files:     &testhelpers.FileStoreStub{Files: map[string]string{}},
		settings:  &testhelpers.SettingsStub{Settings: settings},
	}
	logger := discardLogger()

	f.checkout = NewCheckoutUseCase(f.store, f.gateway, f.settings, testOptions, logger)
	f.issuer = NewTokenIssuer(f.store, f.store, testOptions, logger)
	f.notifier = NewNotificationUseCase(f.store, f.messenger, f.settings, testOptions, logger)
	f.payment = NewPaymentUseCase(f.store, f.store, f.issuer, f.notifier, f.settings, testOptions, logger)
	f.download = NewDownloadUseCase(f.store, f.store, f.files, logger)
	f.reconcile = NewReconcileUseCase(f.store, f.settings, testOptions, logger)
	return f
}

func liveSettings() model.Settings {
	return model.Settings{
		GatewayKeyID:          "rzp_live_key",
		GatewayKeySecret:      testSecret,
		WhatsAppAccessToken:   "EAAB-token",
		WhatsAppPhoneNumberID: "1098",
		WhatsAppVerifyToken:   "verify-me",
		StoreName:             "Digistore",
	}
}
