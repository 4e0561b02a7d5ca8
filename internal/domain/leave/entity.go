package leave

import (
	"time"
)

// LeaveType is catalog data: name and the quota new balances are seeded with.
type LeaveType struct {
	ID           string
	Name         string
	DefaultQuota int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LeaveBalance is the per (employee, leave type, year) ledger row. An empty
// ID marks a lazily initialised balance that has not been persisted yet.
type LeaveBalance struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string
	Year        int
	Quota       int
	Used        int
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// DTO / Join
	LeaveTypeName *string
}

func (b LeaveBalance) Remaining() int {
	return b.Quota - b.Used
}

func (b LeaveBalance) IsPersisted() bool {
	return b.ID != ""
}

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending   LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved  LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected  LeaveRequestStatus = "rejected"
	LeaveRequestStatusCancelled LeaveRequestStatus = "cancelled"
)

var AllRequestStatuses = []string{
	string(LeaveRequestStatusPending),
	string(LeaveRequestStatusApproved),
	string(LeaveRequestStatusRejected),
	string(LeaveRequestStatusCancelled),
}

// BlocksDates reports whether a request in this status reserves its dates.
func (s LeaveRequestStatus) BlocksDates() bool {
	return s == LeaveRequestStatusPending || s == LeaveRequestStatusApproved
}

type LeaveRequest struct {
	ID              string
	EmployeeID      string
	LeaveTypeID     string
	StartDate       time.Time
	EndDate         time.Time
	TotalDays       int
	Reason          string
	Status          LeaveRequestStatus
	DecidedBy       *string
	DecidedAt       *time.Time
	RejectionReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO / Join
	EmployeeName  *string
	LeaveTypeName *string
}

func (r LeaveRequest) IsPending() bool {
	return r.Status == LeaveRequestStatusPending
}

// InclusiveDays counts calendar days from start to end, both included.
func InclusiveDays(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours()/24) + 1
}
