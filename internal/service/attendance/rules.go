package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// FaceMatchGate accepts a similarity score at or above Threshold.
type FaceMatchGate struct {
	Threshold float64
}

func (g FaceMatchGate) Verify(score float64) bool {
	return score >= g.Threshold
}

// WorkTimeRules evaluates punches against the expected office hours. Every
// computation happens in Location: the date bucket, the anchoring of the
// expected times and the comparisons.
type WorkTimeRules struct {
	ExpectedCheckIn  settings.ClockTime
	ExpectedCheckOut settings.ClockTime
	GraceMinutes     int
	Location         *time.Location
}

func NewWorkTimeRules(s settings.OfficeSettings) (WorkTimeRules, error) {
	loc, err := s.Location()
	if err != nil {
		return WorkTimeRules{}, err
	}
	return WorkTimeRules{
		ExpectedCheckIn:  s.CheckInTime,
		ExpectedCheckOut: s.CheckOutTime,
		GraceMinutes:     s.LateToleranceMinutes,
		Location:         loc,
	}, nil
}

func (r WorkTimeRules) check(instant time.Time) error {
	var errs validator.ValidationErrors
	if instant.IsZero() {
		errs = append(errs, validator.ValidationError{Field: "time", Message: "time is required"})
	}
	if r.Location == nil {
		errs = append(errs, validator.ValidationError{Field: "timezone", Message: "office timezone is not set"})
	}
	if r.GraceMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "late_tolerance_minutes", Message: "late_tolerance_minutes must not be negative"})
	}
	return errs.OrNil()
}

// AttendanceDate returns the civil date of instant in the office zone, as
// midnight UTC so it round-trips through a DATE column unchanged.
func (r WorkTimeRules) AttendanceDate(instant time.Time) (time.Time, error) {
	if err := r.check(instant); err != nil {
		return time.Time{}, err
	}
	y, m, d := instant.In(r.Location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// LateMinutes counts whole minutes past expected check-in plus grace.
func (r WorkTimeRules) LateMinutes(instant time.Time) (int, error) {
	if err := r.check(instant); err != nil {
		return 0, err
	}
	deadline := r.ExpectedCheckIn.On(instant, r.Location).Add(time.Duration(r.GraceMinutes) * time.Minute)
	if !instant.After(deadline) {
		return 0, nil
	}
	return int(instant.Sub(deadline) / time.Minute), nil
}

// StatusFor maps lateness to the check-in status.
func (r WorkTimeRules) StatusFor(lateMinutes int) attendance.Status {
	if lateMinutes > 0 {
		return attendance.StatusLate
	}
	return attendance.StatusPresent
}

// EarlyLeaveMinutes counts whole minutes before expected check-out.
func (r WorkTimeRules) EarlyLeaveMinutes(instant time.Time) (int, error) {
	if err := r.check(instant); err != nil {
		return 0, err
	}
	expected := r.ExpectedCheckOut.On(instant, r.Location)
	if !instant.Before(expected) {
		return 0, nil
	}
	return int(expected.Sub(instant) / time.Minute), nil
}

// WorkDurationMinutes truncates to whole minutes.
func WorkDurationMinutes(checkIn, checkOut time.Time) (int, error) {
	if checkIn.IsZero() || checkOut.IsZero() {
		return 0, validator.Single("time", "check-in and check-out times are required")
	}
	if checkOut.Before(checkIn) {
		return 0, validator.Single("time", "check-out time must not be before check-in time")
	}
	return int(checkOut.Sub(checkIn) / time.Minute), nil
}
