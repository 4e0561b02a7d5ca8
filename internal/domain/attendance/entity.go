package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
	StatusLeave   Status = "leave"
	StatusHalfDay Status = "half_day"
)

var AllStatuses = []string{
	string(StatusPresent), string(StatusLate), string(StatusAbsent), string(StatusLeave), string(StatusHalfDay),
}

// Punch is one side (check-in or check-out) of an attendance day.
type Punch struct {
	Time             time.Time
	Latitude         float64
	Longitude        float64
	PhotoURL         *string
	FaceVerified     bool
	LocationVerified bool
	DistanceMeters   float64
	Similarity       float64
}

// Attendance is one row per employee per civil day in the office timezone.
type Attendance struct {
	ID                string
	EmployeeID        string
	Date              time.Time
	CheckIn           *Punch
	CheckOut          *Punch
	LateMinutes       int
	EarlyLeaveMinutes int
	WorkMinutes       *int
	Status            Status
	SettingsVersion   int
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// DTO / Join
	EmployeeCode *string
	EmployeeName *string
}

// HasCheckedIn is nil-safe: a nil record means no attendance yet today.
func (a *Attendance) HasCheckedIn() bool {
	return a != nil && a.CheckIn != nil
}

func (a *Attendance) HasCheckedOut() bool {
	return a != nil && a.CheckOut != nil
}
