package settings

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/domain/repository"
)

var keys = []string{
	model.SettingGatewayKeyID,
	model.SettingGatewayKeySecret,
	model.SettingGatewayTestMode,
	model.SettingWhatsAppAccessToken,
	model.SettingWhatsAppPhoneNumberID,
	model.SettingWhatsAppVerifyToken,
	model.SettingWhatsAppAppSecret,
	model.SettingStoreName,
}

type envLookup func(string) (string, bool)

// Resolver reads operator settings from the store, falling back to
// environment variables named after the upper-cased key.
type Resolver struct {
	repo   repository.SettingsRepository
	lookup envLookup
	logger *slog.Logger
}

func NewResolver(repo repository.SettingsRepository, logger *slog.Logger) *Resolver {
	return &Resolver{repo: repo, lookup: os.LookupEnv, logger: logger}
}

// Load resolves settings for a single operation. Nothing is cached.
func (r *Resolver) Load(ctx context.Context) (*model.Settings, error) {
	stored, err := r.repo.All(ctx)
	if err != nil {
		r.logger.Warn("settings store unavailable, using environment", slog.Any("error", err))
		stored = nil
	}

	values := make(map[string]string, len(keys))
	for _, key := range keys {
		if v := strings.TrimSpace(stored[key]); v != "" {
			values[key] = v
			continue
		}
		if v, ok := r.lookup(strings.ToUpper(key)); ok {
			values[key] = strings.TrimSpace(v)
		}
	}

	return &model.Settings{
		GatewayKeyID:          values[model.SettingGatewayKeyID],
		GatewayKeySecret:      values[model.SettingGatewayKeySecret],
		GatewayTestMode:       parseBool(values[model.SettingGatewayTestMode]),
		WhatsAppAccessToken:   values[model.SettingWhatsAppAccessToken],
		WhatsAppPhoneNumberID: values[model.SettingWhatsAppPhoneNumberID],
		WhatsAppVerifyToken:   values[model.SettingWhatsAppVerifyToken],
		WhatsAppAppSecret:     values[model.SettingWhatsAppAppSecret],
		StoreName:             values[model.SettingStoreName],
	}, nil
}

// parseBool accepts only explicit affirmative spellings.
func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
