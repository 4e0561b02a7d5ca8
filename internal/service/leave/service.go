package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/utils"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type LeaveServiceImpl struct {
	tx database.Transactor
	leave.LeaveTypeRepository
	leave.LeaveBalanceRepository
	leave.LeaveRequestRepository
	employee.EmployeeRepository
	settingsRepo settings.SettingsRepository
	ledger       Ledger
	metrics      *metrics.Metrics
	now          func() time.Time
}

func NewLeaveService(
	tx database.Transactor,
	leaveTypeRepo leave.LeaveTypeRepository,
	leaveBalanceRepo leave.LeaveBalanceRepository,
	leaveRequestRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
	settingsRepo settings.SettingsRepository,
	m *metrics.Metrics,
) leave.LeaveService {
	return &LeaveServiceImpl{
		tx:                     tx,
		LeaveTypeRepository:    leaveTypeRepo,
		LeaveBalanceRepository: leaveBalanceRepo,
		LeaveRequestRepository: leaveRequestRepo,
		EmployeeRepository:     employeeRepo,
		settingsRepo:           settingsRepo,
		metrics:                m,
		now:                    time.Now,
	}
}

// CreateLeaveType implements leave.LeaveService.
func (l *LeaveServiceImpl) CreateLeaveType(ctx context.Context, req leave.CreateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	created, err := l.LeaveTypeRepository.Create(ctx, leave.LeaveType{
		Name:         req.Name,
		DefaultQuota: req.DefaultQuota,
		IsActive:     isActive,
	})
	if err != nil {
		return leave.LeaveTypeResponse{}, fmt.Errorf("failed to create leave type: %w", err)
	}

	return leave.NewLeaveTypeResponse(created), nil
}

// UpdateLeaveType implements leave.LeaveService.
func (l *LeaveServiceImpl) UpdateLeaveType(ctx context.Context, req leave.UpdateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	current, err := l.LeaveTypeRepository.GetByID(ctx, req.ID)
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	if req.Name != nil {
		current.Name = *req.Name
	}
	if req.DefaultQuota != nil {
		current.DefaultQuota = *req.DefaultQuota
	}
	if req.IsActive != nil {
		current.IsActive = *req.IsActive
	}

	updated, err := l.LeaveTypeRepository.Update(ctx, current)
	if err != nil {
		return leave.LeaveTypeResponse{}, fmt.Errorf("failed to update leave type: %w", err)
	}

	return leave.NewLeaveTypeResponse(updated), nil
}

// GetLeaveType implements leave.LeaveService.
func (l *LeaveServiceImpl) GetLeaveType(ctx context.Context, id string) (leave.LeaveTypeResponse, error) {
	if errs := validator.ValidateID("id", id); len(errs) > 0 {
		return leave.LeaveTypeResponse{}, errs
	}

	leaveType, err := l.LeaveTypeRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	return leave.NewLeaveTypeResponse(leaveType), nil
}

// ListLeaveTypes implements leave.LeaveService.
func (l *LeaveServiceImpl) ListLeaveTypes(ctx context.Context, includeInactive bool) ([]leave.LeaveTypeResponse, error) {
	types, err := l.LeaveTypeRepository.List(ctx, !includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}

	responses := make([]leave.LeaveTypeResponse, 0, len(types))
	for _, t := range types {
		responses = append(responses, leave.NewLeaveTypeResponse(t))
	}
	return responses, nil
}

// ListMyBalances returns stored balances plus a lazily initialised balance
// for every active leave type the employee has not used yet this year. The
// current year is the office calendar year.
func (l *LeaveServiceImpl) ListMyBalances(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalanceResponse, error) {
	if year == 0 {
		current, err := OfficeYear(ctx, l.settingsRepo, l.now())
		if err != nil {
			return nil, err
		}
		year = current
	}

	balances, err := l.LeaveBalanceRepository.ListByEmployeeYear(ctx, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	types, err := l.LeaveTypeRepository.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}

	byType := make(map[string]leave.LeaveBalance, len(balances))
	for _, b := range balances {
		byType[b.LeaveTypeID] = b
	}

	responses := make([]leave.LeaveBalanceResponse, 0, len(types))
	for _, t := range types {
		existing, ok := byType[t.ID]
		if !ok && !t.IsActive {
			continue
		}
		var current *leave.LeaveBalance
		if ok {
			current = &existing
		}
		balance := l.ledger.GetOrInit(current, employeeID, t, year)
		responses = append(responses, leave.NewLeaveBalanceResponse(balance, t.Name))
	}
	return responses, nil
}

// SubmitRequest implements leave.LeaveService. The balance is only checked
// here; it is debited on approval.
func (l *LeaveServiceImpl) SubmitRequest(ctx context.Context, req leave.SubmitLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	emp, err := l.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !emp.IsActive {
		return leave.LeaveRequestResponse{}, employee.ErrEmployeeInactive
	}

	leaveType, err := l.LeaveTypeRepository.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !leaveType.IsActive {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveTypeInactive
	}

	blocking, err := l.LeaveRequestRepository.ListBlockingInRange(ctx, req.EmployeeID, req.Start, req.End)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to check overlapping requests: %w", err)
	}
	if l.ledger.HasOverlap(blocking, req.Start, req.End) {
		return leave.LeaveRequestResponse{}, leave.ErrOverlappingLeave
	}

	totalDays := leave.InclusiveDays(req.Start, req.End)
	existing, err := l.LeaveBalanceRepository.GetByEmployeeTypeYear(ctx, req.EmployeeID, leaveType.ID, req.Start.Year())
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	balance := l.ledger.GetOrInit(existing, req.EmployeeID, leaveType, req.Start.Year())
	if !l.ledger.CheckAvailability(balance, totalDays) {
		return leave.LeaveRequestResponse{}, &leave.InsufficientBalanceError{
			Remaining: balance.Remaining(),
			Requested: totalDays,
		}
	}

	created, err := l.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
		EmployeeID:  req.EmployeeID,
		LeaveTypeID: leaveType.ID,
		StartDate:   req.Start,
		EndDate:     req.End,
		TotalDays:   totalDays,
		Reason:      req.Reason,
		Status:      leave.LeaveRequestStatusPending,
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	created.EmployeeName = &emp.FullName
	created.LeaveTypeName = &leaveType.Name

	l.metrics.ObserveLeaveTransition(string(leave.LeaveRequestStatusPending))
	slog.InfoContext(ctx, "leave request submitted",
		"request_id", created.ID,
		"employee_id", created.EmployeeID,
		"leave_type_id", created.LeaveTypeID,
		"total_days", created.TotalDays,
	)

	return leave.NewLeaveRequestResponse(created), nil
}

// ApproveRequest locks the request and its balance row, debits the balance
// and marks the request approved in one transaction.
func (l *LeaveServiceImpl) ApproveRequest(ctx context.Context, req leave.DecideLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(false); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	var approved leave.LeaveRequest
	var balance leave.LeaveBalance
	err := l.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		request, err := l.LeaveRequestRepository.GetByIDForUpdate(txCtx, req.RequestID)
		if err != nil {
			return err
		}
		if !request.IsPending() {
			return leave.ErrLeaveRequestAlreadyProcessed
		}

		leaveType, err := l.LeaveTypeRepository.GetByID(txCtx, request.LeaveTypeID)
		if err != nil {
			return err
		}

		current, err := l.lockBalance(txCtx, request.EmployeeID, leaveType, request.StartDate.Year())
		if err != nil {
			return err
		}

		balance, err = l.ledger.Debit(current, request.TotalDays)
		if err != nil {
			return err
		}
		if balance, err = l.LeaveBalanceRepository.Save(txCtx, balance); err != nil {
			return fmt.Errorf("failed to save leave balance: %w", err)
		}

		decidedAt := l.now().UTC()
		request.Status = leave.LeaveRequestStatusApproved
		request.DecidedBy = &req.DecidedBy
		request.DecidedAt = &decidedAt
		if err := l.LeaveRequestRepository.UpdateDecision(txCtx, request); err != nil {
			return fmt.Errorf("failed to approve leave request: %w", err)
		}

		approved = request
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	l.metrics.ObserveLeaveTransition(string(leave.LeaveRequestStatusApproved))
	slog.InfoContext(ctx, "leave request approved",
		"request_id", approved.ID,
		"employee_id", approved.EmployeeID,
		"decided_by", req.DecidedBy,
		"remaining", balance.Remaining(),
	)

	return leave.NewLeaveRequestResponse(approved), nil
}

// lockBalance returns the locked balance row, seeding it first when the
// employee has none for the year so concurrent approvals queue on one row.
func (l *LeaveServiceImpl) lockBalance(txCtx context.Context, employeeID string, leaveType leave.LeaveType, year int) (leave.LeaveBalance, error) {
	existing, err := l.LeaveBalanceRepository.GetByEmployeeTypeYearForUpdate(txCtx, employeeID, leaveType.ID, year)
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to lock leave balance: %w", err)
	}
	if existing != nil {
		return *existing, nil
	}

	seed := l.ledger.GetOrInit(nil, employeeID, leaveType, year)
	if _, err := l.LeaveBalanceRepository.Save(txCtx, seed); err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to initialise leave balance: %w", err)
	}

	existing, err = l.LeaveBalanceRepository.GetByEmployeeTypeYearForUpdate(txCtx, employeeID, leaveType.ID, year)
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to lock leave balance: %w", err)
	}
	if existing == nil {
		return leave.LeaveBalance{}, leave.ErrLeaveBalanceNotFound
	}
	return *existing, nil
}

// RejectRequest implements leave.LeaveService. The balance is never touched.
func (l *LeaveServiceImpl) RejectRequest(ctx context.Context, req leave.DecideLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(true); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	var rejected leave.LeaveRequest
	err := l.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		request, err := l.LeaveRequestRepository.GetByIDForUpdate(txCtx, req.RequestID)
		if err != nil {
			return err
		}
		if !request.IsPending() {
			return leave.ErrLeaveRequestAlreadyProcessed
		}

		decidedAt := l.now().UTC()
		request.Status = leave.LeaveRequestStatusRejected
		request.DecidedBy = &req.DecidedBy
		request.DecidedAt = &decidedAt
		request.RejectionReason = req.Reason
		if err := l.LeaveRequestRepository.UpdateDecision(txCtx, request); err != nil {
			return fmt.Errorf("failed to reject leave request: %w", err)
		}

		rejected = request
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	l.metrics.ObserveLeaveTransition(string(leave.LeaveRequestStatusRejected))
	slog.InfoContext(ctx, "leave request rejected", "request_id", rejected.ID, "decided_by", req.DecidedBy)

	return leave.NewLeaveRequestResponse(rejected), nil
}

// CancelRequest lets the owner withdraw a request that is still pending.
func (l *LeaveServiceImpl) CancelRequest(ctx context.Context, employeeID string, requestID string) (leave.LeaveRequestResponse, error) {
	if errs := validator.ValidateID("id", requestID); len(errs) > 0 {
		return leave.LeaveRequestResponse{}, errs
	}

	var cancelled leave.LeaveRequest
	err := l.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		request, err := l.LeaveRequestRepository.GetByIDForUpdate(txCtx, requestID)
		if err != nil {
			return err
		}
		if request.EmployeeID != employeeID {
			return user.ErrForbidden
		}
		if !request.IsPending() {
			return leave.ErrLeaveRequestAlreadyProcessed
		}

		decidedAt := l.now().UTC()
		request.Status = leave.LeaveRequestStatusCancelled
		request.DecidedBy = &employeeID
		request.DecidedAt = &decidedAt
		if err := l.LeaveRequestRepository.UpdateDecision(txCtx, request); err != nil {
			return fmt.Errorf("failed to cancel leave request: %w", err)
		}

		cancelled = request
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	l.metrics.ObserveLeaveTransition(string(leave.LeaveRequestStatusCancelled))
	slog.InfoContext(ctx, "leave request cancelled", "request_id", cancelled.ID, "employee_id", employeeID)

	return leave.NewLeaveRequestResponse(cancelled), nil
}

// GetRequest implements leave.LeaveService. Employees only see their own.
func (l *LeaveServiceImpl) GetRequest(ctx context.Context, actor user.Principal, requestID string) (leave.LeaveRequestResponse, error) {
	if errs := validator.ValidateID("id", requestID); len(errs) > 0 {
		return leave.LeaveRequestResponse{}, errs
	}

	request, err := l.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !actor.IsAdmin() && request.EmployeeID != actor.EmployeeID {
		return leave.LeaveRequestResponse{}, user.ErrForbidden
	}
	return leave.NewLeaveRequestResponse(request), nil
}

// ListRequests implements leave.LeaveService.
func (l *LeaveServiceImpl) ListRequests(ctx context.Context, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	requests, totalCount, err := l.LeaveRequestRepository.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	return newListResponse(requests, totalCount, filter.Page, filter.Limit), nil
}

// ListMyRequests implements leave.LeaveService.
func (l *LeaveServiceImpl) ListMyRequests(ctx context.Context, employeeID string, filter leave.MyLeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	requests, totalCount, err := l.LeaveRequestRepository.ListByEmployee(ctx, employeeID, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	return newListResponse(requests, totalCount, filter.Page, filter.Limit), nil
}

func newListResponse(requests []leave.LeaveRequest, totalCount int64, page, limit int) leave.ListLeaveRequestResponse {
	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.NewLeaveRequestResponse(r))
	}

	totalPages, showing := utils.Paginate(page, limit, totalCount)
	return leave.ListLeaveRequestResponse{
		TotalCount: totalCount,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		Showing:    showing,
		Requests:   responses,
	}
}
