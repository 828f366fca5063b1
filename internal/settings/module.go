package settings

import "go.uber.org/fx"

// Module provides the settings resolver.
var Module = fx.Provide(NewResolver)
