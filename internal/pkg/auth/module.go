package auth

import (
	"go.uber.org/fx"

	"github.com/polkiloo/digistore/internal/config"
)

// Module provides authentication primitives via fx.
var Module = fx.Options(
	fx.Provide(newKeyHasher),
	fx.Provide(newAdminKey),
)

func newKeyHasher() KeyHasher {
	return NewBcryptHasher(0)
}

type adminKeyParams struct {
	fx.In

	Config *config.Config
	Hasher KeyHasher
}

func newAdminKey(p adminKeyParams) *AdminKey {
	return NewAdminKey(p.Config.AdminKeyHash, p.Hasher)
}
