package repository

import "context"

// SettingsRepository filas clave/valor de store_settings.
type SettingsRepository interface {
	GetAll(ctx context.Context) (map[string]string, error)
	Upsert(ctx context.Context, values map[string]string) error
}
