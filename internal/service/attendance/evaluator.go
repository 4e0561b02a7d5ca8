package attendance

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/utils"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// PunchInput is everything needed to decide one check-in or check-out.
// Settings is an explicit snapshot; Today is the employee's record for the
// current office date, nil when none exists.
type PunchInput struct {
	Employee   employee.Employee
	Settings   *settings.OfficeSettings
	Today      *attendance.Attendance
	Instant    time.Time
	Latitude   float64
	Longitude  float64
	Similarity float64
}

// Decision is the record to persist. For check-out it is the updated copy
// of Today.
type Decision struct {
	Attendance attendance.Attendance
	Punch      attendance.Punch
	Rules      WorkTimeRules
}

func (in PunchInput) precheck() (WorkTimeRules, error) {
	if err := in.Employee.CanRecordAttendance(); err != nil {
		return WorkTimeRules{}, err
	}
	if in.Settings == nil {
		return WorkTimeRules{}, settings.ErrSettingsNotFound
	}
	if in.Similarity < 0 || in.Similarity > 1 {
		return WorkTimeRules{}, validator.Single("similarity", "similarity must be between 0 and 1")
	}
	return NewWorkTimeRules(*in.Settings)
}

// verify builds the punch: the geofence only flags, the face gate rejects.
func (in PunchInput) verify() (attendance.Punch, error) {
	s := in.Settings
	distance := utils.CalculateHaversineDistance(in.Latitude, in.Longitude, s.Latitude, s.Longitude)

	gate := FaceMatchGate{Threshold: s.FaceSimilarityThreshold}
	if !gate.Verify(in.Similarity) {
		return attendance.Punch{}, fmt.Errorf("%w: similarity %.2f is below threshold %.2f",
			attendance.ErrFaceVerificationFailed, in.Similarity, s.FaceSimilarityThreshold)
	}

	return attendance.Punch{
		Time:             in.Instant.UTC(),
		Latitude:         in.Latitude,
		Longitude:        in.Longitude,
		FaceVerified:     true,
		LocationVerified: utils.IsWithinRadius(distance, s.RadiusMeters),
		DistanceMeters:   distance,
		Similarity:       in.Similarity,
	}, nil
}

// EvaluateCheckIn handles NoRecord -> CheckedIn.
func EvaluateCheckIn(in PunchInput) (Decision, error) {
	rules, err := in.precheck()
	if err != nil {
		return Decision{}, err
	}

	date, err := rules.AttendanceDate(in.Instant)
	if err != nil {
		return Decision{}, err
	}

	if in.Today.HasCheckedIn() {
		return Decision{}, attendance.ErrDuplicateCheckIn
	}

	punch, err := in.verify()
	if err != nil {
		return Decision{}, err
	}

	lateMinutes, err := rules.LateMinutes(in.Instant)
	if err != nil {
		return Decision{}, err
	}

	record := attendance.Attendance{
		EmployeeID:      in.Employee.ID,
		Date:            date,
		CheckIn:         &punch,
		LateMinutes:     lateMinutes,
		Status:          rules.StatusFor(lateMinutes),
		SettingsVersion: in.Settings.Version,
	}
	if in.Today != nil {
		record.ID = in.Today.ID
	}

	return Decision{Attendance: record, Punch: punch, Rules: rules}, nil
}

// EvaluateCheckOut handles CheckedIn -> CheckedOut.
func EvaluateCheckOut(in PunchInput) (Decision, error) {
	rules, err := in.precheck()
	if err != nil {
		return Decision{}, err
	}

	if _, err := rules.AttendanceDate(in.Instant); err != nil {
		return Decision{}, err
	}

	if !in.Today.HasCheckedIn() {
		return Decision{}, attendance.ErrNoCheckInFound
	}
	if in.Today.HasCheckedOut() {
		return Decision{}, attendance.ErrDuplicateCheckOut
	}

	punch, err := in.verify()
	if err != nil {
		return Decision{}, err
	}

	earlyMinutes, err := rules.EarlyLeaveMinutes(in.Instant)
	if err != nil {
		return Decision{}, err
	}
	workMinutes, err := WorkDurationMinutes(in.Today.CheckIn.Time, in.Instant)
	if err != nil {
		return Decision{}, err
	}

	record := *in.Today
	record.CheckOut = &punch
	record.EarlyLeaveMinutes = earlyMinutes
	record.WorkMinutes = &workMinutes

	return Decision{Attendance: record, Punch: punch, Rules: rules}, nil
}
