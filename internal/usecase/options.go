package usecase

import (
	"context"
	"time"

	"github.com/polkiloo/digistore/internal/config"
	"github.com/polkiloo/digistore/internal/domain/model"
)

// SettingsLoader resolves operator settings for one operation.
type SettingsLoader interface {
	Load(ctx context.Context) (*model.Settings, error)
}

// Options carries process configuration consumed by use cases.
type Options struct {
	Currency            string
	CountryCode         string
	PublicBaseURL       string
	TokenTTL            time.Duration
	MaxDownloads        int
	ReconcileCandidates int
}

// OptionsFromConfig extracts use case options from application config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Currency:            cfg.Currency,
		CountryCode:         cfg.DefaultCountryCode,
		PublicBaseURL:       cfg.PublicBaseURL,
		TokenTTL:            cfg.TokenTTL,
		MaxDownloads:        cfg.MaxDownloads,
		ReconcileCandidates: cfg.ReconcileCandidates,
	}
}

// DownloadURL renders the public link for token.
func (o Options) DownloadURL(token string) string {
	return o.PublicBaseURL + "/api/download?token=" + token
}
