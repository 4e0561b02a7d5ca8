package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type settingsRepositoryImpl struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) settings.SettingsRepository {
	return &settingsRepositoryImpl{db: db}
}

const settingsColumns = `latitude, longitude, radius_meters, check_in_time, check_out_time,
	late_tolerance_minutes, face_similarity_threshold, timezone, version, updated_by, updated_at`

func scanSettings(row pgx.Row) (settings.OfficeSettings, error) {
	var (
		s                 settings.OfficeSettings
		checkIn, checkOut string
	)
	err := row.Scan(
		&s.Latitude, &s.Longitude, &s.RadiusMeters, &checkIn, &checkOut,
		&s.LateToleranceMinutes, &s.FaceSimilarityThreshold, &s.Timezone, &s.Version, &s.UpdatedBy, &s.UpdatedAt,
	)
	if err != nil {
		return settings.OfficeSettings{}, err
	}

	if s.CheckInTime, err = settings.ParseClockTime(checkIn); err != nil {
		return settings.OfficeSettings{}, fmt.Errorf("stored check_in_time: %w", err)
	}
	if s.CheckOutTime, err = settings.ParseClockTime(checkOut); err != nil {
		return settings.OfficeSettings{}, fmt.Errorf("stored check_out_time: %w", err)
	}
	return s, nil
}

// Get implements settings.SettingsRepository.
func (r *settingsRepositoryImpl) Get(ctx context.Context) (settings.OfficeSettings, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanSettings(q.QueryRow(ctx, `SELECT `+settingsColumns+` FROM office_settings WHERE singleton`))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settings.OfficeSettings{}, settings.ErrSettingsNotFound
		}
		return settings.OfficeSettings{}, fmt.Errorf("failed to get office settings: %w", err)
	}
	return s, nil
}

// Upsert implements settings.SettingsRepository.
func (r *settingsRepositoryImpl) Upsert(ctx context.Context, s settings.OfficeSettings) (settings.OfficeSettings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO office_settings (
			singleton, latitude, longitude, radius_meters, check_in_time, check_out_time,
			late_tolerance_minutes, face_similarity_threshold, timezone, version, updated_by, updated_at
		) VALUES (TRUE, $1, $2, $3, $4, $5, $6, $7, $8, 1, $9, NOW())
		ON CONFLICT (singleton) DO UPDATE SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			radius_meters = EXCLUDED.radius_meters,
			check_in_time = EXCLUDED.check_in_time,
			check_out_time = EXCLUDED.check_out_time,
			late_tolerance_minutes = EXCLUDED.late_tolerance_minutes,
			face_similarity_threshold = EXCLUDED.face_similarity_threshold,
			timezone = EXCLUDED.timezone,
			version = office_settings.version + 1,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()
		RETURNING ` + settingsColumns

	saved, err := scanSettings(q.QueryRow(ctx, query,
		s.Latitude, s.Longitude, s.RadiusMeters, s.CheckInTime.String(), s.CheckOutTime.String(),
		s.LateToleranceMinutes, s.FaceSimilarityThreshold, s.Timezone, s.UpdatedBy,
	))
	if err != nil {
		return settings.OfficeSettings{}, fmt.Errorf("failed to save office settings: %w", err)
	}
	return saved, nil
}
