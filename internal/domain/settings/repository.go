package settings

import "context"

type SettingsRepository interface {
	// Get returns ErrSettingsNotFound until the first Upsert.
	Get(ctx context.Context) (OfficeSettings, error)

	// Upsert writes the singleton row, incrementing its version.
	Upsert(ctx context.Context, s OfficeSettings) (OfficeSettings, error)
}
