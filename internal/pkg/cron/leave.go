package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	leaveService "github.com/cmlabs-hris/attendance-backend-go/internal/service/leave"
)

const seedLeaveBalancesInterval = time.Hour

// LeaveJobs opens the yearly leave balances ahead of the first request so
// employees see their quota from January 1st.
type LeaveJobs struct {
	leaveTypeRepo    leave.LeaveTypeRepository
	leaveBalanceRepo leave.LeaveBalanceRepository
	employeeRepo     employee.EmployeeRepository
	settingsRepo     settings.SettingsRepository
	ledger           leaveService.Ledger
	now              func() time.Time

	mu         sync.Mutex
	seededYear int
}

func NewLeaveJobs(
	leaveTypeRepo leave.LeaveTypeRepository,
	leaveBalanceRepo leave.LeaveBalanceRepository,
	employeeRepo employee.EmployeeRepository,
	settingsRepo settings.SettingsRepository,
) *LeaveJobs {
	return &LeaveJobs{
		leaveTypeRepo:    leaveTypeRepo,
		leaveBalanceRepo: leaveBalanceRepo,
		employeeRepo:     employeeRepo,
		settingsRepo:     settingsRepo,
		now:              time.Now,
	}
}

func (j *LeaveJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("seed_leave_balances", seedLeaveBalancesInterval, j.SeedLeaveBalances)
}

// SeedLeaveBalances creates the current office year's balance for every
// active employee and active leave type. Existing rows are left untouched, so
// the job is safe to repeat; it does the work once per calendar year per
// process.
func (j *LeaveJobs) SeedLeaveBalances(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	year, err := leaveService.OfficeYear(ctx, j.settingsRepo, j.now())
	if err != nil {
		return err
	}
	if j.seededYear == year {
		return nil
	}

	types, err := j.leaveTypeRepo.List(ctx, true)
	if err != nil {
		return fmt.Errorf("failed to list leave types: %w", err)
	}

	active := true
	created, page := 0, 1
	for {
		employees, total, err := j.employeeRepo.List(ctx, employee.EmployeeFilter{
			IsActive: &active,
			Page:     page,
			Limit:    validator.MaxPageLimit,
		})
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}

		for _, emp := range employees {
			for _, lt := range types {
				seed := j.ledger.GetOrInit(nil, emp.ID, lt, year)
				saved, err := j.leaveBalanceRepo.Save(ctx, seed)
				if err != nil {
					return fmt.Errorf("failed to seed leave balance for employee %s: %w", emp.ID, err)
				}
				if saved.IsPersisted() {
					created++
				}
			}
		}

		if len(employees) == 0 || int64(page*validator.MaxPageLimit) >= total {
			break
		}
		page++
	}

	j.seededYear = year
	slog.InfoContext(ctx, "leave balances seeded", "year", year, "created", created, "leave_types", len(types))
	return nil
}
