package leave

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeTx struct {
	calls int
}

func (f *fakeTx) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeTypes struct {
	items map[string]leave.LeaveType
	order []string
}

func (f *fakeTypes) add(t leave.LeaveType) {
	f.items[t.ID] = t
	f.order = append(f.order, t.ID)
}

func (f *fakeTypes) Create(ctx context.Context, t leave.LeaveType) (leave.LeaveType, error) {
	for _, existing := range f.items {
		if existing.Name == t.Name {
			return leave.LeaveType{}, leave.ErrLeaveTypeNameExists
		}
	}
	t.ID = fmt.Sprintf("00000000-0000-4000-8000-%012d", len(f.items)+1)
	f.add(t)
	return t, nil
}

func (f *fakeTypes) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	t, ok := f.items[id]
	if !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return t, nil
}

func (f *fakeTypes) List(ctx context.Context, activeOnly bool) ([]leave.LeaveType, error) {
	var out []leave.LeaveType
	for _, id := range f.order {
		t := f.items[id]
		if activeOnly && !t.IsActive {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTypes) Update(ctx context.Context, t leave.LeaveType) (leave.LeaveType, error) {
	if _, ok := f.items[t.ID]; !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	f.items[t.ID] = t
	return t, nil
}

type fakeBalances struct {
	rows  map[string]leave.LeaveBalance
	saves int
}

func balanceKey(employeeID, leaveTypeID string, year int) string {
	return fmt.Sprintf("%s/%s/%d", employeeID, leaveTypeID, year)
}

func (f *fakeBalances) GetByEmployeeTypeYear(ctx context.Context, employeeID, leaveTypeID string, year int) (*leave.LeaveBalance, error) {
	b, ok := f.rows[balanceKey(employeeID, leaveTypeID, year)]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (f *fakeBalances) GetByEmployeeTypeYearForUpdate(ctx context.Context, employeeID, leaveTypeID string, year int) (*leave.LeaveBalance, error) {
	return f.GetByEmployeeTypeYear(ctx, employeeID, leaveTypeID, year)
}

func (f *fakeBalances) ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	var out []leave.LeaveBalance
	for _, b := range f.rows {
		if b.EmployeeID == employeeID && b.Year == year {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBalances) Save(ctx context.Context, b leave.LeaveBalance) (leave.LeaveBalance, error) {
	f.saves++
	key := balanceKey(b.EmployeeID, b.LeaveTypeID, b.Year)
	if b.ID == "" {
		if existing, ok := f.rows[key]; ok {
			return existing, nil
		}
		b.ID = "bal-" + key
	}
	f.rows[key] = b
	return b, nil
}

type fakeRequests struct {
	items map[string]leave.LeaveRequest
}

func (f *fakeRequests) Create(ctx context.Context, r leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.ID = fmt.Sprintf("00000000-0000-4000-9000-%012d", len(f.items)+1)
	f.items[r.ID] = r
	return r, nil
}

func (f *fakeRequests) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	r, ok := f.items[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return r, nil
}

func (f *fakeRequests) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeRequests) ListBlockingInRange(ctx context.Context, employeeID string, start, end time.Time) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for _, r := range f.items {
		if r.EmployeeID == employeeID && r.Status.BlocksDates() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequests) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	var out []leave.LeaveRequest
	for _, r := range f.items {
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRequests) ListByEmployee(ctx context.Context, employeeID string, filter leave.MyLeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	var out []leave.LeaveRequest
	for _, r := range f.items {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRequests) UpdateDecision(ctx context.Context, r leave.LeaveRequest) error {
	if _, ok := f.items[r.ID]; !ok {
		return leave.ErrLeaveRequestNotFound
	}
	f.items[r.ID] = r
	return nil
}

type fakeEmployees struct {
	employee.EmployeeRepository
	items map[string]employee.Employee
}

func (f *fakeEmployees) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, ok := f.items[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

type fakeSettings struct {
	timezone string
}

func (f *fakeSettings) Get(ctx context.Context) (settings.OfficeSettings, error) {
	if f.timezone == "" {
		return settings.OfficeSettings{}, settings.ErrSettingsNotFound
	}
	return settings.OfficeSettings{Timezone: f.timezone}, nil
}

func (f *fakeSettings) Upsert(ctx context.Context, s settings.OfficeSettings) (settings.OfficeSettings, error) {
	f.timezone = s.Timezone
	return s, nil
}

// ---- fixture ----

const (
	typeAnnual     = "5e0b3f8a-9c2d-4a71-b6e4-3f8d1c2a7e95"
	typeSabbatical = "6f1c4a9b-0d3e-4b82-a7f5-4a9e2d3b8f06"
	typeSick       = "7a2d5b0c-1e4f-4c93-b8a6-5b0f3e4c9a17"

	employeeOne   = "8d2f6c1e-4b7a-4f0e-9c3d-5a1b2e7f9c40"
	employeeTwo   = "1a7c3e5f-2b4d-4c6e-8f0a-9b1d3f5a7c92"
	employeeOther = "2b8d4f6a-3c5e-4d7f-9a1b-0c2e4a6b8d13"

	requestA  = "c4a9e7b2-1f3d-4e6a-8b5c-0d2f7a9e1b36"
	requestB  = "d5b0f8c3-2a4e-4f7b-9c6d-1e3a8b0f2c47"
	unknownID = "0f6b2d4e-8a1c-4e3f-b5d7-9c2e4a6f8b10"
)

type fixture struct {
	svc       *LeaveServiceImpl
	tx        *fakeTx
	types     *fakeTypes
	balances  *fakeBalances
	requests  *fakeRequests
	employees *fakeEmployees
	settings  *fakeSettings
}

func newFixture() *fixture {
	f := &fixture{
		tx:       &fakeTx{},
		types:    &fakeTypes{items: map[string]leave.LeaveType{}},
		balances: &fakeBalances{rows: map[string]leave.LeaveBalance{}},
		requests: &fakeRequests{items: map[string]leave.LeaveRequest{}},
		employees: &fakeEmployees{items: map[string]employee.Employee{
			employeeOne: {ID: employeeOne, FullName: "Budi Santoso", IsActive: true},
			employeeTwo: {ID: employeeTwo, FullName: "Sari Dewi", IsActive: false},
		}},
		settings: &fakeSettings{},
	}
	f.types.add(leave.LeaveType{ID: typeAnnual, Name: "Annual", DefaultQuota: 12, IsActive: true})
	f.types.add(leave.LeaveType{ID: typeSabbatical, Name: "Sabbatical", DefaultQuota: 30, IsActive: false})
	f.svc = NewLeaveService(f.tx, f.types, f.balances, f.requests, f.employees, f.settings, nil).(*LeaveServiceImpl)
	f.svc.now = func() time.Time { return time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC) }
	return f
}

func (f *fixture) seedBalance(used int) {
	key := balanceKey(employeeOne, typeAnnual, 2025)
	f.balances.rows[key] = leave.LeaveBalance{
		ID: "bal-1", EmployeeID: employeeOne, LeaveTypeID: typeAnnual, Year: 2025, Quota: 12, Used: used,
	}
}

func (f *fixture) seedRequest(id, start, end string, status leave.LeaveRequestStatus) {
	s, _ := time.Parse("2006-01-02", start)
	e, _ := time.Parse("2006-01-02", end)
	f.requests.items[id] = leave.LeaveRequest{
		ID: id, EmployeeID: employeeOne, LeaveTypeID: typeAnnual,
		StartDate: s, EndDate: e, TotalDays: leave.InclusiveDays(s, e), Status: status,
	}
}

func submit(start, end string) leave.SubmitLeaveRequest {
	return leave.SubmitLeaveRequest{
		EmployeeID:  employeeOne,
		LeaveTypeID: typeAnnual,
		StartDate:   start,
		EndDate:     end,
		Reason:      "family",
	}
}

func ctx() context.Context { return context.Background() }

// ---- submit ----

func TestSubmitRequest_Success(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.SubmitRequest(ctx(), submit("2025-01-10", "2025-01-12"))
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, 3, resp.TotalDays)
	require.NotNil(t, resp.EmployeeName)
	assert.Equal(t, "Budi Santoso", *resp.EmployeeName)

	assert.Empty(t, f.balances.rows, "submission must not create or debit a balance")
	assert.Zero(t, f.balances.saves)
}

func TestSubmitRequest_InsufficientBalance(t *testing.T) {
	f := newFixture()
	f.seedBalance(10)

	_, err := f.svc.SubmitRequest(ctx(), submit("2025-02-03", "2025-02-05"))
	require.Error(t, err)
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)
	assert.Contains(t, err.Error(), "remaining=2, needed=3")
	assert.Empty(t, f.requests.items)
}

func TestSubmitRequest_Overlap(t *testing.T) {
	f := newFixture()
	f.seedRequest(requestA, "2025-01-10", "2025-01-12", leave.LeaveRequestStatusApproved)

	_, err := f.svc.SubmitRequest(ctx(), submit("2025-01-12", "2025-01-15"))
	assert.ErrorIs(t, err, leave.ErrOverlappingLeave)

	_, err = f.svc.SubmitRequest(ctx(), submit("2025-01-13", "2025-01-15"))
	assert.NoError(t, err)
}

func TestSubmitRequest_RejectedRequestDoesNotBlock(t *testing.T) {
	f := newFixture()
	f.seedRequest(requestA, "2025-01-10", "2025-01-12", leave.LeaveRequestStatusRejected)

	_, err := f.svc.SubmitRequest(ctx(), submit("2025-01-11", "2025-01-11"))
	assert.NoError(t, err)
}

func TestSubmitRequest_Preconditions(t *testing.T) {
	f := newFixture()

	req := submit("2025-01-10", "2025-01-12")
	req.LeaveTypeID = typeSabbatical
	_, err := f.svc.SubmitRequest(ctx(), req)
	assert.ErrorIs(t, err, leave.ErrLeaveTypeInactive)

	req = submit("2025-01-10", "2025-01-12")
	req.LeaveTypeID = unknownID
	_, err = f.svc.SubmitRequest(ctx(), req)
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNotFound)

	req = submit("2025-01-10", "2025-01-12")
	req.EmployeeID = employeeTwo
	_, err = f.svc.SubmitRequest(ctx(), req)
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)

	_, err = f.svc.SubmitRequest(ctx(), submit("2025-01-12", "2025-01-10"))
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
}

// ---- approve ----

func TestApproveRequest_DebitsLazilyCreatedBalance(t *testing.T) {
	f := newFixture()
	f.seedRequest(requestA, "2025-01-10", "2025-01-12", leave.LeaveRequestStatusPending)

	resp, err := f.svc.ApproveRequest(ctx(), leave.DecideLeaveRequest{RequestID: requestA, DecidedBy: "admin-1"})
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
	require.NotNil(t, resp.DecidedBy)
	assert.Equal(t, "admin-1", *resp.DecidedBy)
	assert.Equal(t, 1, f.tx.calls)

	b := f.balances.rows[balanceKey(employeeOne, typeAnnual, 2025)]
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, 12, b.Quota)
	assert.Equal(t, 3, b.Used)
}

func TestApproveRequest_ToZeroThenInsufficient(t *testing.T) {
	f := newFixture()
	f.seedBalance(9)
	f.seedRequest(requestA, "2025-01-10", "2025-01-12", leave.LeaveRequestStatusPending)
	f.seedRequest(requestB, "2025-03-03", "2025-03-03", leave.LeaveRequestStatusPending)

	_, err := f.svc.ApproveRequest(ctx(), leave.DecideLeaveRequest{RequestID: requestA, DecidedBy: "admin-1"})
	require.NoError(t, err)
	assert.Equal(t, 0, f.balances.rows[balanceKey(employeeOne, typeAnnual, 2025)].Remaining())

	_, err = f.svc.ApproveRequest(ctx(), leave.DecideLeaveRequest{RequestID: requestB, DecidedBy: "admin-1"})
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)
	assert.Equal(t, leave.LeaveRequestStatusPending, f.requests.items[requestB].Status)
	assert.Equal(t, 12, f.balances.rows[balanceKey(employeeOne, typeAnnual, 2025)].Used)
}

func TestApproveRequest_AlreadyProcessed(t *testing.T) {
	f := newFixture()
	f.seedBalance(0)
	f.seedRequest(requestA, "2025-01-10", "2025-01-12", leave.LeaveRequestStatusApproved)

	_, err := f.svc.ApproveRequest(ctx(), leave.DecideLeaveRequest{RequestID: requestA, DecidedBy: "admin-1"})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)
	assert.Equal(t, 0, f.balances.rows[balanceKey(employeeOne, typeAnnual, 2025)].Used)
}

func TestApproveRequest_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ApproveRequest(ctx(), leave.DecideLeaveRequest{RequestID: unknownID, DecidedBy: "admin-1"})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

// ---- reject / cancel ----

func TestRejectRequest_RequiresReasonAndLeavesBalance(t *testing.T) {
	f := newFixture()
	f.seedBalance(4)
	f.seedRequest(requestA, "2025-01-10", "2025-01-12", leave.LeaveRequestStatusPending)

	_, err := f.svc.RejectRequest(ctx(), leave.DecideLeaveRequest{RequestID: requestA, DecidedBy: "admin-1"})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "reason", verrs[0].Field)

	reason := "peak season"
	resp, err := f.svc.RejectRequest(ctx(), leave.DecideLeaveRequest{RequestID: requestA, DecidedBy: "admin-1", Reason: &reason})
	require.NoError(t, err)
	assert.Equal(t, "rejected", resp.Status)
	require.NotNil(t, resp.RejectionReason)
	assert.Equal(t, "peak season", *resp.RejectionReason)

	assert.Equal(t, 4, f.balances.rows[balanceKey(employeeOne, typeAnnual, 2025)].Used)
	assert.Zero(t, f.balances.saves)

	_, err = f.svc.RejectRequest(ctx(), leave.DecideLeaveRequest{RequestID: requestA, DecidedBy: "admin-1", Reason: &reason})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)
}

func TestCancelRequest(t *testing.T) {
	f := newFixture()
	f.seedRequest(requestA, "2025-01-10", "2025-01-12", leave.LeaveRequestStatusPending)
	f.seedRequest(requestB, "2025-02-10", "2025-02-12", leave.LeaveRequestStatusApproved)

	_, err := f.svc.CancelRequest(ctx(), employeeOther, requestA)
	assert.ErrorIs(t, err, user.ErrForbidden)

	resp, err := f.svc.CancelRequest(ctx(), employeeOne, requestA)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)

	_, err = f.svc.CancelRequest(ctx(), employeeOne, requestB)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)
	assert.Zero(t, f.balances.saves)
}

// ---- reads ----

func TestGetRequest_OwnershipCheck(t *testing.T) {
	f := newFixture()
	f.seedRequest(requestA, "2025-01-10", "2025-01-12", leave.LeaveRequestStatusPending)

	_, err := f.svc.GetRequest(ctx(), user.Principal{UserID: "u-2", EmployeeID: employeeTwo, Role: user.RoleEmployee}, requestA)
	assert.ErrorIs(t, err, user.ErrForbidden)

	resp, err := f.svc.GetRequest(ctx(), user.Principal{UserID: "u-1", EmployeeID: employeeOne, Role: user.RoleEmployee}, requestA)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-10", resp.StartDate)

	_, err = f.svc.GetRequest(ctx(), user.Principal{UserID: "admin", Role: user.RoleAdmin}, requestA)
	assert.NoError(t, err)
}

func TestListMyBalances_IncludesLazyBalances(t *testing.T) {
	f := newFixture()
	f.seedBalance(5)
	f.types.add(leave.LeaveType{ID: typeSick, Name: "Sick", DefaultQuota: 6, IsActive: true})

	balances, err := f.svc.ListMyBalances(ctx(), employeeOne, 0)
	require.NoError(t, err)
	require.Len(t, balances, 2)

	assert.Equal(t, "Annual", balances[0].LeaveTypeName)
	assert.Equal(t, 7, balances[0].Remaining)
	assert.Equal(t, "Sick", balances[1].LeaveTypeName)
	assert.Equal(t, 6, balances[1].Remaining)
	assert.Equal(t, 2025, balances[1].Year)
	assert.Len(t, f.balances.rows, 1, "listing must not persist lazy balances")
}

func TestListMyBalances_CurrentYearFollowsOfficeTimezone(t *testing.T) {
	f := newFixture()
	// 18:00 UTC on Dec 31 is 01:00 on Jan 1 in Jakarta.
	f.svc.now = func() time.Time { return time.Date(2024, 12, 31, 18, 0, 0, 0, time.UTC) }

	balances, err := f.svc.ListMyBalances(ctx(), employeeOne, 0)
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, 2024, balances[0].Year, "UTC until the office is configured")

	f.settings.timezone = "Asia/Jakarta"
	balances, err = f.svc.ListMyBalances(ctx(), employeeOne, 0)
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, 2025, balances[0].Year)

	balances, err = f.svc.ListMyBalances(ctx(), employeeOne, 2024)
	require.NoError(t, err)
	assert.Equal(t, 2024, balances[0].Year, "an explicit year is used as given")
}

func TestOfficeYear(t *testing.T) {
	newYearsEveUTC := time.Date(2024, 12, 31, 20, 0, 0, 0, time.UTC)

	year, err := OfficeYear(ctx(), &fakeSettings{}, newYearsEveUTC)
	require.NoError(t, err)
	assert.Equal(t, 2024, year)

	year, err = OfficeYear(ctx(), &fakeSettings{timezone: "Asia/Jakarta"}, newYearsEveUTC)
	require.NoError(t, err)
	assert.Equal(t, 2025, year)

	// 02:00 UTC on Jan 1 is still Dec 31 in New York.
	year, err = OfficeYear(ctx(), &fakeSettings{timezone: "America/New_York"}, time.Date(2025, 1, 1, 2, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2024, year)

	_, err = OfficeYear(ctx(), &fakeSettings{timezone: "Mars/Olympus"}, newYearsEveUTC)
	assert.ErrorIs(t, err, settings.ErrInvalidTimezone)
}

func TestMalformedIdentifiersAreRejected(t *testing.T) {
	f := newFixture()
	f.seedRequest(requestA, "2025-01-10", "2025-01-12", leave.LeaveRequestStatusPending)
	var verrs validator.ValidationErrors

	_, err := f.svc.ApproveRequest(ctx(), leave.DecideLeaveRequest{RequestID: "123", DecidedBy: "admin-1"})
	require.True(t, errors.As(err, &verrs))
	assert.Zero(t, f.tx.calls)

	_, err = f.svc.CancelRequest(ctx(), employeeOne, "req-a")
	require.True(t, errors.As(err, &verrs))

	_, err = f.svc.GetRequest(ctx(), user.Principal{UserID: "admin", Role: user.RoleAdmin}, "abc")
	require.True(t, errors.As(err, &verrs))

	_, err = f.svc.GetLeaveType(ctx(), "lt-1")
	require.True(t, errors.As(err, &verrs))

	submitted := submit("2025-01-20", "2025-01-20")
	submitted.LeaveTypeID = "abc"
	_, err = f.svc.SubmitRequest(ctx(), submitted)
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "leave_type_id must be a valid UUID", verrs.ToMap()["leave_type_id"])
	assert.Len(t, f.requests.items, 1)
}

func TestListMyRequests_Pagination(t *testing.T) {
	f := newFixture()
	f.seedRequest(requestA, "2025-01-10", "2025-01-12", leave.LeaveRequestStatusPending)
	f.seedRequest(requestB, "2025-02-10", "2025-02-12", leave.LeaveRequestStatusApproved)

	resp, err := f.svc.ListMyRequests(ctx(), employeeOne, leave.MyLeaveRequestFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.TotalCount)
	assert.Equal(t, 1, resp.TotalPages)
	assert.Equal(t, "1-2 of 2", resp.Showing)
	assert.Len(t, resp.Requests, 2)
}

// ---- leave types ----

func TestLeaveTypeLifecycle(t *testing.T) {
	f := newFixture()

	created, err := f.svc.CreateLeaveType(ctx(), leave.CreateLeaveTypeRequest{Name: "  Sick  ", DefaultQuota: 6})
	require.NoError(t, err)
	assert.Equal(t, "Sick", created.Name)
	assert.True(t, created.IsActive)

	_, err = f.svc.CreateLeaveType(ctx(), leave.CreateLeaveTypeRequest{Name: "Sick", DefaultQuota: 6})
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNameExists)

	inactive := false
	updated, err := f.svc.UpdateLeaveType(ctx(), leave.UpdateLeaveTypeRequest{ID: created.ID, IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, 6, updated.DefaultQuota)

	active, err := f.svc.ListLeaveTypes(ctx(), false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Annual", active[0].Name)

	all, err := f.svc.ListLeaveTypes(ctx(), true)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
