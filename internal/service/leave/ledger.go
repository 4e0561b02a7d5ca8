package leave

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// Ledger holds the balance arithmetic for leave. It never touches storage;
// the caller loads rows, applies the ledger and persists the result.
type Ledger struct{}

// GetOrInit returns existing when present, otherwise a zero-used balance
// seeded from the leave type's default quota. The seeded balance has no ID
// until it is saved.
func (Ledger) GetOrInit(existing *leave.LeaveBalance, employeeID string, leaveType leave.LeaveType, year int) leave.LeaveBalance {
	if existing != nil {
		return *existing
	}
	return leave.LeaveBalance{
		EmployeeID:    employeeID,
		LeaveTypeID:   leaveType.ID,
		Year:          year,
		Quota:         leaveType.DefaultQuota,
		Used:          0,
		LeaveTypeName: &leaveType.Name,
	}
}

func (Ledger) CheckAvailability(balance leave.LeaveBalance, days int) bool {
	return balance.Remaining() >= days
}

// Debit returns balance with days added to Used. The input is not modified.
func (l Ledger) Debit(balance leave.LeaveBalance, days int) (leave.LeaveBalance, error) {
	if days <= 0 {
		return balance, validator.Single("total_days", "total_days must be positive")
	}
	if !l.CheckAvailability(balance, days) {
		return balance, &leave.InsufficientBalanceError{
			Remaining: balance.Remaining(),
			Requested: days,
		}
	}
	balance.Used += days
	return balance, nil
}

// HasOverlap reports whether [start, end] shares at least one day with a
// pending or approved request. Bounds are inclusive.
func (Ledger) HasOverlap(existing []leave.LeaveRequest, start, end time.Time) bool {
	for _, r := range existing {
		if !r.Status.BlocksDates() {
			continue
		}
		if !r.StartDate.After(end) && !r.EndDate.Before(start) {
			return true
		}
	}
	return false
}
