package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/digistore/internal/config"
	"github.com/polkiloo/digistore/internal/server/http/handlers"
	"github.com/polkiloo/digistore/internal/storage/postgres"
	"github.com/polkiloo/digistore/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		fx.Annotate(
			newStorefrontFacade,
			fx.As(fx.Self()),
			fx.As(new(handlers.StorefrontFacade)),
			fx.As(new(worker.BackfillFacade)),
		),
		func(s *postgres.Storage) HealthChecker { return s },
		newHTTPServer,
		newTokenBackfill,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:              p.Config.RunAddress,
		Handler:           p.Router,
		ReadHeaderTimeout: p.Config.UpstreamTimeout,
	}
}

type workerParams struct {
	fx.In

	Facade worker.BackfillFacade
	Config *config.Config
	Logger *slog.Logger
}

func newTokenBackfill(p workerParams) *worker.TokenBackfill {
	return worker.NewTokenBackfill(
		p.Facade,
		p.Config.BackfillInterval,
		p.Config.BackfillBatch,
		p.Config.WorkerPoolSize,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Worker     *worker.TokenBackfill
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting digistore", slog.String("addr", p.Server.Addr))
			p.Worker.Start(context.WithoutCancel(ctx))
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Worker.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("digistore stopped")
			return nil
		},
	})
}
