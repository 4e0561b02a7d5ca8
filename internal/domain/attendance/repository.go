package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// GetByEmployeeAndDate returns nil, nil when the employee has no record for date.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// CreateCheckIn inserts the day's record. A concurrent insert for the same
	// (employee, date) yields ErrDuplicateCheckIn.
	CreateCheckIn(ctx context.Context, attendance Attendance) (Attendance, error)

	// RecordCheckOut sets the check-out side only if it is still empty;
	// otherwise it returns ErrDuplicateCheckOut.
	RecordCheckOut(ctx context.Context, attendance Attendance) (Attendance, error)

	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)
	ListByEmployee(ctx context.Context, employeeID string, filter MyAttendanceFilter) ([]Attendance, int64, error)

	// Summary aggregates per employee over an inclusive date range.
	Summary(ctx context.Context, filter SummaryFilter) ([]SummaryRow, error)
}
