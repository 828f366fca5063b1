package usecase

import (
	"go.uber.org/fx"

	"github.com/polkiloo/digistore/internal/settings"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	OptionsFromConfig,
	func(r *settings.Resolver) SettingsLoader { return r },
	NewCheckoutUseCase,
	NewTokenIssuer,
	NewPaymentUseCase,
	NewDownloadUseCase,
	NewNotificationUseCase,
	NewReconcileUseCase,
)
