package config

import "go.uber.org/fx"

// Module loads *Config from process flags and environment once per fx app.
var Module = fx.Provide(Load)
