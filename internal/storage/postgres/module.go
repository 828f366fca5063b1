package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/digistore/internal/config"
	"github.com/polkiloo/digistore/internal/domain/repository"
)

// Module opens the pool, runs migrations and exposes every repository
// backed by it.
var Module = fx.Options(
	fx.Provide(newStorage),
	fx.Provide(
		func(s *Storage) repository.OrderRepository { return s.Orders() },
		func(s *Storage) repository.TokenRepository { return s.Tokens() },
		func(s *Storage) repository.ProductRepository { return s.Products() },
		func(s *Storage) repository.SettingsRepository { return s.Settings() },
	),
	fx.Invoke(registerLifecycle),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStorage(p storageParams) (*Storage, error) {
	return New(p.Ctx, p.Config.DatabaseURI, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, storage *Storage) {
	logger := storage.Logger()
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := storage.HealthCheck(ctx); err != nil {
				return fmt.Errorf("postgres unreachable: %w", err)
			}
			logger.Info("postgres ready")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			storage.Close()
			logger.Info("postgres pool closed")
			return nil
		},
	})
}
