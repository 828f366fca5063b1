package router

import (
	"go.uber.org/fx"

	pkgAuth "github.com/polkiloo/digistore/internal/pkg/auth"
	"github.com/polkiloo/digistore/internal/server/http/middleware"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Options(
	fx.Provide(func(k *pkgAuth.AdminKey) middleware.AdminAuthorizer { return k }),
	fx.Provide(Setup),
)
