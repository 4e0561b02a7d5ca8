package settings

import (
	"fmt"
	"time"
)

// OfficeSettings is the single organization-wide attendance policy. Version
// increases on every update so each attendance record can reference the
// policy it was evaluated against.
type OfficeSettings struct {
	Latitude                float64
	Longitude               float64
	RadiusMeters            float64
	CheckInTime             ClockTime
	CheckOutTime            ClockTime
	LateToleranceMinutes    int
	FaceSimilarityThreshold float64
	Timezone                string
	Version                 int
	UpdatedBy               *string
	UpdatedAt               time.Time
}

// Location loads the IANA zone used for day bucketing and expected times.
func (s OfficeSettings) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, s.Timezone)
	}
	return loc, nil
}
