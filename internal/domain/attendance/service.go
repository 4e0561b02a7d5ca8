package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn verifies location and face, then opens today's record
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes today's record
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)

	// GetTodayStatus reports today's record and which action is allowed next
	GetTodayStatus(ctx context.Context, employeeID string) (TodayStatusResponse, error)

	// GetMyAttendance retrieves attendance records for the authenticated employee
	GetMyAttendance(ctx context.Context, employeeID string, filter MyAttendanceFilter) (ListAttendanceResponse, error)

	// ListAttendance retrieves attendance records with filters (admin)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// GetSummary aggregates attendance per employee over a date range (admin)
	GetSummary(ctx context.Context, filter SummaryFilter) (SummaryResponse, error)
}
