package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestColumns = `lr.id, lr.employee_id, lr.leave_type_id, lr.start_date, lr.end_date, lr.total_days,
	lr.reason, lr.status, lr.decided_by, lr.decided_at, lr.rejection_reason, lr.created_at, lr.updated_at`

const leaveRequestFrom = `
	FROM leave_requests lr
	JOIN employees e ON e.id = lr.employee_id
	JOIN leave_types lt ON lt.id = lr.leave_type_id`

// scanLeaveRequest reads leaveRequestColumns followed by any extra targets.
func scanLeaveRequest(row pgx.Row, extra ...interface{}) (leave.LeaveRequest, error) {
	var (
		r      leave.LeaveRequest
		status string
	)
	dest := []interface{}{
		&r.ID, &r.EmployeeID, &r.LeaveTypeID, &r.StartDate, &r.EndDate, &r.TotalDays,
		&r.Reason, &status, &r.DecidedBy, &r.DecidedAt, &r.RejectionReason, &r.CreatedAt, &r.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return leave.LeaveRequest{}, err
	}
	r.Status = leave.LeaveRequestStatus(status)
	return r, nil
}

func scanJoinedLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var employeeName, leaveTypeName string
	r, err := scanLeaveRequest(row, &employeeName, &leaveTypeName)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	r.EmployeeName = &employeeName
	r.LeaveTypeName = &leaveTypeName
	return r, nil
}

// Create implements leave.LeaveRequestRepository.
func (l *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		INSERT INTO leave_requests AS lr (employee_id, leave_type_id, start_date, end_date, total_days, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + leaveRequestColumns

	created, err := scanLeaveRequest(q.QueryRow(ctx, query,
		request.EmployeeID, request.LeaveTypeID, request.StartDate, request.EndDate,
		request.TotalDays, request.Reason, string(request.Status),
	))
	if err != nil {
		switch {
		case isPgError(err, exclusionViolation, "leave_requests_no_overlap"):
			return leave.LeaveRequest{}, leave.ErrOverlappingLeave
		case isForeignKeyViolation(err):
			return leave.LeaveRequest{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	created.EmployeeName = request.EmployeeName
	created.LeaveTypeName = request.LeaveTypeName
	return created, nil
}

func (l *leaveRequestRepositoryImpl) getByID(ctx context.Context, id string, lock string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, l.db)

	query := `SELECT ` + leaveRequestColumns + `, e.full_name, lt.name` + leaveRequestFrom + `
		WHERE lr.id = $1 ` + lock

	r, err := scanJoinedLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request %s: %w", id, err)
	}
	return r, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (l *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return l.getByID(ctx, id, "")
}

// GetByIDForUpdate implements leave.LeaveRequestRepository.
func (l *leaveRequestRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return l.getByID(ctx, id, "FOR UPDATE OF lr")
}

// ListBlockingInRange implements leave.LeaveRequestRepository.
func (l *leaveRequestRepositoryImpl) ListBlockingInRange(ctx context.Context, employeeID string, start, end time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		WHERE lr.employee_id = $1
		  AND lr.status IN ('pending', 'approved')
		  AND lr.start_date <= $3
		  AND lr.end_date >= $2
		ORDER BY lr.start_date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocking leave requests: %w", err)
	}
	defer rows.Close()

	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		r, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func (l *leaveRequestRepositoryImpl) list(ctx context.Context, w *whereBuilder, page, limit int) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, l.db)

	from := leaveRequestFrom + " " + w.String()

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) "+from, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s, e.full_name, lt.name %s
		ORDER BY lr.created_at DESC, lr.id ASC
		LIMIT $%d OFFSET $%d`, leaveRequestColumns, from, w.next(), w.next()+1)
	args := append(w.args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		r, err := scanJoinedLeaveRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// List implements leave.LeaveRequestRepository.
func (l *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	w := &whereBuilder{}
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		w.add("lr.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.LeaveTypeID != nil && *filter.LeaveTypeID != "" {
		w.add("lr.leave_type_id = $%d", *filter.LeaveTypeID)
	}
	if filter.Status != nil && *filter.Status != "" {
		w.add("lr.status = $%d", *filter.Status)
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		w.add("lr.end_date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		w.add("lr.start_date <= $%d", *filter.EndDate)
	}
	return l.list(ctx, w, filter.Page, filter.Limit)
}

// ListByEmployee implements leave.LeaveRequestRepository.
func (l *leaveRequestRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, filter leave.MyLeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	w := &whereBuilder{}
	w.add("lr.employee_id = $%d", employeeID)
	if filter.Status != nil && *filter.Status != "" {
		w.add("lr.status = $%d", *filter.Status)
	}
	if filter.Year != nil {
		w.add("EXTRACT(YEAR FROM lr.start_date) = $%d", *filter.Year)
	}
	return l.list(ctx, w, filter.Page, filter.Limit)
}

// UpdateDecision implements leave.LeaveRequestRepository.
func (l *leaveRequestRepositoryImpl) UpdateDecision(ctx context.Context, request leave.LeaveRequest) error {
	q := GetQuerier(ctx, l.db)

	tag, err := q.Exec(ctx, `
		UPDATE leave_requests
		SET status = $1, decided_by = $2, decided_at = $3, rejection_reason = $4, updated_at = NOW()
		WHERE id = $5
	`, string(request.Status), request.DecidedBy, request.DecidedAt, request.RejectionReason, request.ID)
	if err != nil {
		return fmt.Errorf("failed to update leave request %s: %w", request.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}
