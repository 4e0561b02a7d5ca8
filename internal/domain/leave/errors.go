package leave

import (
	"errors"
	"fmt"
)

var (
	ErrLeaveTypeNotFound            = errors.New("leave type not found")
	ErrLeaveTypeNameExists          = errors.New("leave type name already exists")
	ErrLeaveTypeInactive            = errors.New("leave type is inactive")
	ErrLeaveRequestNotFound         = errors.New("leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("leave request already processed")
	ErrOverlappingLeave             = errors.New("leave dates overlap an existing pending or approved request")
	ErrInsufficientBalance          = errors.New("insufficient leave balance")
	ErrLeaveBalanceNotFound         = errors.New("leave balance not found")
)

// InsufficientBalanceError carries the numbers behind ErrInsufficientBalance.
type InsufficientBalanceError struct {
	Remaining int
	Requested int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient leave balance: remaining=%d, needed=%d", e.Remaining, e.Requested)
}

func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}
