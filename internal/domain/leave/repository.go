package leave

import (
	"context"
	"time"
)

// LeaveTypeRepository - interface for leave_types table
type LeaveTypeRepository interface {
	Create(ctx context.Context, leaveType LeaveType) (LeaveType, error)
	GetByID(ctx context.Context, id string) (LeaveType, error)
	List(ctx context.Context, activeOnly bool) ([]LeaveType, error)
	Update(ctx context.Context, leaveType LeaveType) (LeaveType, error)
}

// LeaveBalanceRepository - interface for leave_balances table
type LeaveBalanceRepository interface {
	// GetByEmployeeTypeYear returns nil, nil when no row exists yet.
	GetByEmployeeTypeYear(ctx context.Context, employeeID, leaveTypeID string, year int) (*LeaveBalance, error)

	// GetByEmployeeTypeYearForUpdate locks the row for the surrounding transaction.
	GetByEmployeeTypeYearForUpdate(ctx context.Context, employeeID, leaveTypeID string, year int) (*LeaveBalance, error)

	ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error)

	// Save updates a persisted row. A balance without ID is inserted; if the
	// (employee, type, year) row already exists the insert is a no-op.
	Save(ctx context.Context, balance LeaveBalance) (LeaveBalance, error)
}

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	// Create returns ErrOverlappingLeave when the store rejects the range.
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	GetByIDForUpdate(ctx context.Context, id string) (LeaveRequest, error)

	// ListBlockingInRange returns pending and approved requests of the
	// employee that touch [start, end].
	ListBlockingInRange(ctx context.Context, employeeID string, start, end time.Time) ([]LeaveRequest, error)

	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, int64, error)
	ListByEmployee(ctx context.Context, employeeID string, filter MyLeaveRequestFilter) ([]LeaveRequest, int64, error)

	// UpdateDecision persists status, decided_by/at and rejection_reason.
	UpdateDecision(ctx context.Context, request LeaveRequest) error
}
