package logger

import "go.uber.org/fx"

// Module provides the service-tagged *slog.Logger built from config.
var Module = fx.Provide(New)
