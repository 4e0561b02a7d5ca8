package leave

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
)

type LeaveService interface {
	// Type
	CreateLeaveType(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	UpdateLeaveType(ctx context.Context, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)
	GetLeaveType(ctx context.Context, id string) (LeaveTypeResponse, error)
	ListLeaveTypes(ctx context.Context, includeInactive bool) ([]LeaveTypeResponse, error)
	// Balance
	ListMyBalances(ctx context.Context, employeeID string, year int) ([]LeaveBalanceResponse, error)
	// Request
	SubmitRequest(ctx context.Context, req SubmitLeaveRequest) (LeaveRequestResponse, error)
	ApproveRequest(ctx context.Context, req DecideLeaveRequest) (LeaveRequestResponse, error)
	RejectRequest(ctx context.Context, req DecideLeaveRequest) (LeaveRequestResponse, error)
	CancelRequest(ctx context.Context, employeeID string, requestID string) (LeaveRequestResponse, error)
	GetRequest(ctx context.Context, actor user.Principal, requestID string) (LeaveRequestResponse, error)
	ListRequests(ctx context.Context, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
	ListMyRequests(ctx context.Context, employeeID string, filter MyLeaveRequestFilter) (ListLeaveRequestResponse, error)
}
