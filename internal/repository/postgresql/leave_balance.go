package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

const leaveBalanceColumns = `lb.id, lb.employee_id, lb.leave_type_id, lb.year, lb.quota, lb.used,
	lb.created_at, lb.updated_at, lt.name`

func scanLeaveBalance(row pgx.Row) (leave.LeaveBalance, error) {
	var b leave.LeaveBalance
	err := row.Scan(
		&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.Year, &b.Quota, &b.Used,
		&b.CreatedAt, &b.UpdatedAt, &b.LeaveTypeName,
	)
	return b, err
}

func (l *leaveBalanceRepositoryImpl) getByEmployeeTypeYear(ctx context.Context, employeeID, leaveTypeID string, year int, lock string) (*leave.LeaveBalance, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT ` + leaveBalanceColumns + `
		FROM leave_balances lb
		JOIN leave_types lt ON lt.id = lb.leave_type_id
		WHERE lb.employee_id = $1 AND lb.leave_type_id = $2 AND lb.year = $3
	` + lock

	b, err := scanLeaveBalance(q.QueryRow(ctx, query, employeeID, leaveTypeID, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return &b, nil
}

// GetByEmployeeTypeYear implements leave.LeaveBalanceRepository.
func (l *leaveBalanceRepositoryImpl) GetByEmployeeTypeYear(ctx context.Context, employeeID, leaveTypeID string, year int) (*leave.LeaveBalance, error) {
	return l.getByEmployeeTypeYear(ctx, employeeID, leaveTypeID, year, "")
}

// GetByEmployeeTypeYearForUpdate implements leave.LeaveBalanceRepository.
func (l *leaveBalanceRepositoryImpl) GetByEmployeeTypeYearForUpdate(ctx context.Context, employeeID, leaveTypeID string, year int) (*leave.LeaveBalance, error) {
	return l.getByEmployeeTypeYear(ctx, employeeID, leaveTypeID, year, "FOR UPDATE OF lb")
}

// ListByEmployeeYear implements leave.LeaveBalanceRepository.
func (l *leaveBalanceRepositoryImpl) ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT ` + leaveBalanceColumns + `
		FROM leave_balances lb
		JOIN leave_types lt ON lt.id = lb.leave_type_id
		WHERE lb.employee_id = $1 AND lb.year = $2
		ORDER BY lt.name ASC
	`

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	defer rows.Close()

	balances := make([]leave.LeaveBalance, 0)
	for rows.Next() {
		b, err := scanLeaveBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

// Save implements leave.LeaveBalanceRepository.
func (l *leaveBalanceRepositoryImpl) Save(ctx context.Context, balance leave.LeaveBalance) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, l.db)

	if !balance.IsPersisted() {
		query := `
			INSERT INTO leave_balances (employee_id, leave_type_id, year, quota, used)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT ON CONSTRAINT leave_balances_employee_type_year_key DO NOTHING
			RETURNING id, created_at, updated_at
		`
		err := q.QueryRow(ctx, query,
			balance.EmployeeID, balance.LeaveTypeID, balance.Year, balance.Quota, balance.Used,
		).Scan(&balance.ID, &balance.CreatedAt, &balance.UpdatedAt)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			if isForeignKeyViolation(err) {
				return leave.LeaveBalance{}, leave.ErrLeaveTypeNotFound
			}
			return leave.LeaveBalance{}, fmt.Errorf("failed to insert leave balance: %w", err)
		}
		return balance, nil
	}

	tag, err := q.Exec(ctx, `
		UPDATE leave_balances
		SET quota = $1, used = $2, updated_at = NOW()
		WHERE id = $3
	`, balance.Quota, balance.Used, balance.ID)
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to update leave balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.LeaveBalance{}, leave.ErrLeaveBalanceNotFound
	}
	return balance, nil
}
