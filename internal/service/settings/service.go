package settings

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/settings"
)

type SettingsServiceImpl struct {
	settings.SettingsRepository
}

// NewSettingsService expects repo to handle cache invalidation on Upsert.
func NewSettingsService(repo settings.SettingsRepository) settings.SettingsService {
	return &SettingsServiceImpl{SettingsRepository: repo}
}

// Get implements settings.SettingsService.
func (s *SettingsServiceImpl) Get(ctx context.Context) (settings.OfficeSettingsResponse, error) {
	current, err := s.SettingsRepository.Get(ctx)
	if err != nil {
		return settings.OfficeSettingsResponse{}, err
	}
	return settings.NewOfficeSettingsResponse(current), nil
}

// Upsert implements settings.SettingsService.
func (s *SettingsServiceImpl) Upsert(ctx context.Context, req settings.UpsertOfficeSettingsRequest) (settings.OfficeSettingsResponse, error) {
	next, err := req.Validate()
	if err != nil {
		return settings.OfficeSettingsResponse{}, err
	}

	saved, err := s.SettingsRepository.Upsert(ctx, next)
	if err != nil {
		return settings.OfficeSettingsResponse{}, fmt.Errorf("failed to save office settings: %w", err)
	}

	slog.InfoContext(ctx, "office settings updated",
		"version", saved.Version,
		"timezone", saved.Timezone,
		"radius_meters", saved.RadiusMeters,
		"face_similarity_threshold", saved.FaceSimilarityThreshold,
	)
	return settings.NewOfficeSettingsResponse(saved), nil
}
