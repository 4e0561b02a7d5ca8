package cron

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLeaveTypes struct {
	leave.LeaveTypeRepository
	types []leave.LeaveType
	err   error
}

func (s *stubLeaveTypes) List(ctx context.Context, activeOnly bool) ([]leave.LeaveType, error) {
	return s.types, s.err
}

type stubBalances struct {
	leave.LeaveBalanceRepository
	rows  map[string]leave.LeaveBalance
	saves int
}

func (s *stubBalances) Save(ctx context.Context, b leave.LeaveBalance) (leave.LeaveBalance, error) {
	s.saves++
	key := fmt.Sprintf("%s/%s/%d", b.EmployeeID, b.LeaveTypeID, b.Year)
	if _, ok := s.rows[key]; ok {
		b.ID = ""
		return b, nil
	}
	b.ID = "lb-" + key
	s.rows[key] = b
	return b, nil
}

type stubEmployees struct {
	employee.EmployeeRepository
	all     []employee.Employee
	filters []employee.EmployeeFilter
}

func (s *stubEmployees) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	s.filters = append(s.filters, filter)
	from := (filter.Page - 1) * filter.Limit
	if from >= len(s.all) {
		return nil, int64(len(s.all)), nil
	}
	to := min(from+filter.Limit, len(s.all))
	return s.all[from:to], int64(len(s.all)), nil
}

type stubSettings struct {
	settings.SettingsRepository
	timezone string
	err      error
}

func (s *stubSettings) Get(ctx context.Context) (settings.OfficeSettings, error) {
	if s.err != nil {
		return settings.OfficeSettings{}, s.err
	}
	if s.timezone == "" {
		return settings.OfficeSettings{}, settings.ErrSettingsNotFound
	}
	return settings.OfficeSettings{Timezone: s.timezone}, nil
}

func newLeaveJobsFixture(employeeCount int) (*LeaveJobs, *stubBalances, *stubEmployees) {
	types := &stubLeaveTypes{types: []leave.LeaveType{
		{ID: "lt-annual", Name: "Annual", DefaultQuota: 12, IsActive: true},
		{ID: "lt-sick", Name: "Sick", DefaultQuota: 6, IsActive: true},
	}}
	balances := &stubBalances{rows: map[string]leave.LeaveBalance{}}
	employees := &stubEmployees{}
	for i := range employeeCount {
		employees.all = append(employees.all, employee.Employee{ID: fmt.Sprintf("emp-%03d", i), IsActive: true})
	}

	jobs := NewLeaveJobs(types, balances, employees, &stubSettings{})
	jobs.now = func() time.Time { return time.Date(2025, 1, 1, 0, 5, 0, 0, time.UTC) }
	return jobs, balances, employees
}

func TestSeedLeaveBalances_SeedsEveryActiveEmployeeAndType(t *testing.T) {
	jobs, balances, employees := newLeaveJobsFixture(3)

	require.NoError(t, jobs.SeedLeaveBalances(context.Background()))

	assert.Len(t, balances.rows, 6)
	annual := balances.rows["emp-000/lt-annual/2025"]
	assert.Equal(t, 12, annual.Quota)
	assert.Equal(t, 0, annual.Used)
	require.NotEmpty(t, employees.filters)
	require.NotNil(t, employees.filters[0].IsActive)
	assert.True(t, *employees.filters[0].IsActive)
}

func TestSeedLeaveBalances_WalksEveryPage(t *testing.T) {
	jobs, balances, employees := newLeaveJobsFixture(150)

	require.NoError(t, jobs.SeedLeaveBalances(context.Background()))

	assert.Len(t, balances.rows, 300)
	assert.Len(t, employees.filters, 2)
}

func TestSeedLeaveBalances_OncePerYear(t *testing.T) {
	jobs, balances, _ := newLeaveJobsFixture(2)
	ctx := context.Background()

	require.NoError(t, jobs.SeedLeaveBalances(ctx))
	require.NoError(t, jobs.SeedLeaveBalances(ctx))
	assert.Equal(t, 4, balances.saves, "second run in the same year is skipped")

	jobs.now = func() time.Time { return time.Date(2026, 1, 1, 0, 5, 0, 0, time.UTC) }
	require.NoError(t, jobs.SeedLeaveBalances(ctx))
	assert.Len(t, balances.rows, 8)
}

func TestSeedLeaveBalances_KeepsExistingRows(t *testing.T) {
	jobs, balances, _ := newLeaveJobsFixture(1)
	balances.rows["emp-000/lt-annual/2025"] = leave.LeaveBalance{ID: "existing", Quota: 12, Used: 4}

	require.NoError(t, jobs.SeedLeaveBalances(context.Background()))

	assert.Equal(t, 4, balances.rows["emp-000/lt-annual/2025"].Used)
	assert.Len(t, balances.rows, 2)
}

func TestSeedLeaveBalances_RetriesAfterFailure(t *testing.T) {
	jobs, balances, _ := newLeaveJobsFixture(1)
	types := jobs.leaveTypeRepo.(*stubLeaveTypes)
	types.err = errors.New("connection reset")

	err := jobs.SeedLeaveBalances(context.Background())
	assert.Error(t, err)
	assert.Empty(t, balances.rows)

	types.err = nil
	require.NoError(t, jobs.SeedLeaveBalances(context.Background()))
	assert.Len(t, balances.rows, 2)
}

func TestSeedLeaveBalances_UsesOfficeCalendarYear(t *testing.T) {
	jobs, balances, _ := newLeaveJobsFixture(1)
	jobs.settingsRepo = &stubSettings{timezone: "Asia/Jakarta"}
	// 17:30 UTC on Dec 31 is already 00:30 on Jan 1 in Jakarta.
	jobs.now = func() time.Time { return time.Date(2024, 12, 31, 17, 30, 0, 0, time.UTC) }

	require.NoError(t, jobs.SeedLeaveBalances(context.Background()))

	assert.Contains(t, balances.rows, "emp-000/lt-annual/2025")
	assert.NotContains(t, balances.rows, "emp-000/lt-annual/2024")
}

func TestSeedLeaveBalances_SettingsFailure(t *testing.T) {
	jobs, balances, _ := newLeaveJobsFixture(1)
	jobs.settingsRepo = &stubSettings{err: errors.New("connection reset")}

	assert.Error(t, jobs.SeedLeaveBalances(context.Background()))
	assert.Empty(t, balances.rows)
}

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler(context.Background())
	runs := 0
	s.AddJob("count", time.Hour, func(ctx context.Context) error {
		runs++
		return nil
	})
	s.AddJob("fail", time.Hour, func(ctx context.Context) error {
		return errors.New("boom")
	})

	s.RunOnce(context.Background())
	s.RunOnce(context.Background())
	assert.Equal(t, 2, runs)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(context.Background())
	done := make(chan struct{}, 1)
	s.AddJob("signal", time.Hour, func(ctx context.Context) error {
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}
