package repository

import "context"

// SettingsRepository reads operator key/value settings.
type SettingsRepository interface {
	All(ctx context.Context) (map[string]string, error)
}
