package settings

import (
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type UpsertOfficeSettingsRequest struct {
	Latitude                float64 `json:"latitude" validate:"latitude"`
	Longitude               float64 `json:"longitude" validate:"longitude"`
	RadiusMeters            float64 `json:"radius_meters" validate:"gt=0"`
	CheckInTime             string  `json:"check_in_time" validate:"required"`
	CheckOutTime            string  `json:"check_out_time" validate:"required"`
	LateToleranceMinutes    int     `json:"late_tolerance_minutes" validate:"gte=0,lte=720"`
	FaceSimilarityThreshold float64 `json:"face_similarity_threshold" validate:"gte=0,lte=1"`
	Timezone                string  `json:"timezone" validate:"required"`
	UpdatedBy               string  `json:"-"`
}

// Validate checks the payload and returns the parsed settings value.
func (r *UpsertOfficeSettingsRequest) Validate() (OfficeSettings, error) {
	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		structErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return OfficeSettings{}, err
		}
		errs = append(errs, structErrs...)
	}

	checkIn, inErr := ParseClockTime(r.CheckInTime)
	if inErr != nil && r.CheckInTime != "" {
		errs = append(errs, validator.ValidationError{
			Field:   "check_in_time",
			Message: "check_in_time must be in HH:MM format",
		})
	}
	checkOut, outErr := ParseClockTime(r.CheckOutTime)
	if outErr != nil && r.CheckOutTime != "" {
		errs = append(errs, validator.ValidationError{
			Field:   "check_out_time",
			Message: "check_out_time must be in HH:MM format",
		})
	}
	if inErr == nil && outErr == nil && checkOut.Minutes() <= checkIn.Minutes() {
		errs = append(errs, validator.ValidationError{
			Field:   "check_out_time",
			Message: "check_out_time must be after check_in_time",
		})
	}

	if r.Timezone != "" && !validator.IsValidTimezone(r.Timezone) {
		errs = append(errs, validator.ValidationError{
			Field:   "timezone",
			Message: "timezone must be a valid IANA zone name, e.g. Asia/Jakarta",
		})
	}

	if len(errs) > 0 {
		return OfficeSettings{}, errs
	}

	s := OfficeSettings{
		Latitude:                r.Latitude,
		Longitude:               r.Longitude,
		RadiusMeters:            r.RadiusMeters,
		CheckInTime:             checkIn,
		CheckOutTime:            checkOut,
		LateToleranceMinutes:    r.LateToleranceMinutes,
		FaceSimilarityThreshold: r.FaceSimilarityThreshold,
		Timezone:                r.Timezone,
	}
	if r.UpdatedBy != "" {
		s.UpdatedBy = &r.UpdatedBy
	}
	return s, nil
}

type OfficeSettingsResponse struct {
	Latitude                float64   `json:"latitude"`
	Longitude               float64   `json:"longitude"`
	RadiusMeters            float64   `json:"radius_meters"`
	CheckInTime             ClockTime `json:"check_in_time"`
	CheckOutTime            ClockTime `json:"check_out_time"`
	LateToleranceMinutes    int       `json:"late_tolerance_minutes"`
	FaceSimilarityThreshold float64   `json:"face_similarity_threshold"`
	Timezone                string    `json:"timezone"`
	Version                 int       `json:"version"`
	UpdatedBy               *string   `json:"updated_by,omitempty"`
	UpdatedAt               string    `json:"updated_at"`
}

func NewOfficeSettingsResponse(s OfficeSettings) OfficeSettingsResponse {
	return OfficeSettingsResponse{
		Latitude:                s.Latitude,
		Longitude:               s.Longitude,
		RadiusMeters:            s.RadiusMeters,
		CheckInTime:             s.CheckInTime,
		CheckOutTime:            s.CheckOutTime,
		LateToleranceMinutes:    s.LateToleranceMinutes,
		FaceSimilarityThreshold: s.FaceSimilarityThreshold,
		Timezone:                s.Timezone,
		Version:                 s.Version,
		UpdatedBy:               s.UpdatedBy,
		UpdatedAt:               s.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
