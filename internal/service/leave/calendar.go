package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/settings"
)

// OfficeYear returns the calendar year of instant in the office timezone,
// the same calendar attendance and leave dates are bucketed by. UTC is used
// until office settings exist.
func OfficeYear(ctx context.Context, repo settings.SettingsRepository, instant time.Time) (int, error) {
	s, err := repo.Get(ctx)
	if errors.Is(err, settings.ErrSettingsNotFound) {
		return instant.UTC().Year(), nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load office settings: %w", err)
	}

	loc, err := s.Location()
	if err != nil {
		return 0, err
	}
	return instant.In(loc).Year(), nil
}
