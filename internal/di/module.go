package di

import (
	"github.com/polkiloo/digistore/internal/adapter/gateway"
	"github.com/polkiloo/digistore/internal/adapter/whatsapp"
	"github.com/polkiloo/digistore/internal/app"
	"github.com/polkiloo/digistore/internal/config"
	"github.com/polkiloo/digistore/internal/logger"
	"github.com/polkiloo/digistore/internal/pkg/auth"
	"github.com/polkiloo/digistore/internal/server/http/router"
	"github.com/polkiloo/digistore/internal/settings"
	"github.com/polkiloo/digistore/internal/storage/files"
	"github.com/polkiloo/digistore/internal/storage/postgres"
	"github.com/polkiloo/digistore/internal/usecase"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		files.Module,
		settings.Module,
		gateway.Module,
		whatsapp.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
