package attendance

import "errors"

// Attendance domain errors
var (
	// State conflicts
	ErrDuplicateCheckIn  = errors.New("you have already checked in today")
	ErrDuplicateCheckOut = errors.New("you have already checked out today")
	ErrNoCheckInFound    = errors.New("you have not checked in today")

	// Policy rejections
	ErrFaceVerificationFailed = errors.New("face verification failed")

	ErrAttendanceNotFound = errors.New("attendance record not found")
)
