package settings

import "context"

type SettingsService interface {
	Get(ctx context.Context) (OfficeSettingsResponse, error)
	Upsert(ctx context.Context, req UpsertOfficeSettingsRequest) (OfficeSettingsResponse, error)
}
