package employee

import "time"

type Employee struct {
	ID             string
	UserID         *string
	EmployeeCode   string
	FullName       string
	Email          string
	Position       *string
	IsActive       bool
	FaceToken      *string
	FaceEnrolledAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsFaceEnrolled reports whether a reference face is registered.
func (e Employee) IsFaceEnrolled() bool {
	return e.FaceToken != nil && *e.FaceToken != ""
}

// CanRecordAttendance returns the first eligibility failure, if any.
func (e Employee) CanRecordAttendance() error {
	if !e.IsActive {
		return ErrEmployeeInactive
	}
	if !e.IsFaceEnrolled() {
		return ErrFaceNotEnrolled
	}
	return nil
}
