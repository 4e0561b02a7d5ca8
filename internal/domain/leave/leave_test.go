package leave

import (
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	employeeID  = "8d2f6c1e-4b7a-4f0e-9c3d-5a1b2e7f9c40"
	leaveTypeID = "5e0b3f8a-9c2d-4a71-b6e4-3f8d1c2a7e95"
	requestID   = "c4a9e7b2-1f3d-4e6a-8b5c-0d2f7a9e1b36"
)

func TestInclusiveDays(t *testing.T) {
	d := func(s string) time.Time {
		v, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, 1, InclusiveDays(d("2025-01-10"), d("2025-01-10")))
	assert.Equal(t, 3, InclusiveDays(d("2025-01-10"), d("2025-01-12")))
	assert.Equal(t, 29, InclusiveDays(d("2024-02-01"), d("2024-02-29")))
}

func TestInsufficientBalanceError(t *testing.T) {
	var err error = &InsufficientBalanceError{Remaining: 2, Requested: 3}
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.EqualError(t, err, "insufficient leave balance: remaining=2, needed=3")

	wrapped := errors.Join(errors.New("submit"), err)
	var ibe *InsufficientBalanceError
	require.True(t, errors.As(wrapped, &ibe))
	assert.Equal(t, 2, ibe.Remaining)
}

func TestLeaveRequestStatus_BlocksDates(t *testing.T) {
	assert.True(t, LeaveRequestStatusPending.BlocksDates())
	assert.True(t, LeaveRequestStatusApproved.BlocksDates())
	assert.False(t, LeaveRequestStatusRejected.BlocksDates())
	assert.False(t, LeaveRequestStatusCancelled.BlocksDates())
}

func TestSubmitLeaveRequest_Validate(t *testing.T) {
	req := SubmitLeaveRequest{
		EmployeeID:  employeeID,
		LeaveTypeID: leaveTypeID,
		StartDate:   "2025-01-10",
		EndDate:     "2025-01-12",
		Reason:      "  family  ",
	}
	require.NoError(t, req.Validate())
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), req.Start)
	assert.Equal(t, time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC), req.End)
	assert.Equal(t, "family", req.Reason)
}

func TestSubmitLeaveRequest_Invalid(t *testing.T) {
	cases := map[string]struct {
		req   SubmitLeaveRequest
		field string
	}{
		"missing type":       {SubmitLeaveRequest{EmployeeID: employeeID, StartDate: "2025-01-01", EndDate: "2025-01-01"}, "leave_type_id"},
		"bad date":           {SubmitLeaveRequest{EmployeeID: employeeID, LeaveTypeID: leaveTypeID, StartDate: "2025-13-01", EndDate: "2025-01-01"}, "start_date"},
		"end before":         {SubmitLeaveRequest{EmployeeID: employeeID, LeaveTypeID: leaveTypeID, StartDate: "2025-01-05", EndDate: "2025-01-01"}, "end_date"},
		"malformed employee": {SubmitLeaveRequest{EmployeeID: "not-a-uuid", LeaveTypeID: leaveTypeID, StartDate: "2025-01-01", EndDate: "2025-01-01"}, "employee_id"},
		"malformed type":     {SubmitLeaveRequest{EmployeeID: employeeID, LeaveTypeID: "abc", StartDate: "2025-01-01", EndDate: "2025-01-01"}, "leave_type_id"},
		"crosses years":      {SubmitLeaveRequest{EmployeeID: employeeID, LeaveTypeID: leaveTypeID, StartDate: "2024-12-30", EndDate: "2025-01-02"}, "end_date"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			err := c.req.Validate()
			var errs validator.ValidationErrors
			require.True(t, errors.As(err, &errs))
			assert.Contains(t, errs.ToMap(), c.field)
		})
	}
}

func TestDecideLeaveRequest_RejectNeedsReason(t *testing.T) {
	req := DecideLeaveRequest{RequestID: requestID, DecidedBy: "admin"}
	assert.NoError(t, req.Validate(false))

	err := req.Validate(true)
	var errs validator.ValidationErrors
	require.True(t, errors.As(err, &errs))
	assert.Equal(t, "reason is required when rejecting", errs.ToMap()["reason"])

	blank := "   "
	req.Reason = &blank
	assert.Error(t, req.Validate(true))
}

func TestDecideLeaveRequest_MalformedID(t *testing.T) {
	for _, id := range []string{"123", "lr-1", "' OR 1=1 --"} {
		req := DecideLeaveRequest{RequestID: id, DecidedBy: "admin"}
		err := req.Validate(false)
		var errs validator.ValidationErrors
		require.True(t, errors.As(err, &errs), id)
		assert.Equal(t, "id must be a valid UUID", errs.ToMap()["id"])
	}
}

func TestLeaveRequestFilter_MalformedIDs(t *testing.T) {
	bad := "abc"
	filter := LeaveRequestFilter{EmployeeID: &bad, LeaveTypeID: &bad}
	err := filter.Validate()
	var errs validator.ValidationErrors
	require.True(t, errors.As(err, &errs))
	assert.Contains(t, errs.ToMap(), "employee_id")
	assert.Contains(t, errs.ToMap(), "leave_type_id")

	good := employeeID
	assert.NoError(t, (&LeaveRequestFilter{EmployeeID: &good}).Validate())
}

func TestUpdateLeaveTypeRequest_Validate(t *testing.T) {
	quota := -1
	req := UpdateLeaveTypeRequest{ID: leaveTypeID, DefaultQuota: &quota}
	err := req.Validate()
	var errs validator.ValidationErrors
	require.True(t, errors.As(err, &errs))
	assert.Contains(t, errs.ToMap(), "default_quota")

	assert.Error(t, (&UpdateLeaveTypeRequest{ID: leaveTypeID}).Validate())
}
