package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `a.id, a.employee_id, a.attendance_date,
	a.check_in_time, a.check_in_latitude, a.check_in_longitude, a.check_in_photo_url,
	a.check_in_face_verified, a.check_in_location_verified, a.check_in_distance_meters, a.check_in_similarity,
	a.check_out_time, a.check_out_latitude, a.check_out_longitude, a.check_out_photo_url,
	a.check_out_face_verified, a.check_out_location_verified, a.check_out_distance_meters, a.check_out_similarity,
	a.late_minutes, a.early_leave_minutes, a.work_minutes, a.status, a.settings_version,
	a.created_at, a.updated_at`

// punchColumns mirrors one nullable check-in or check-out column group.
type punchColumns struct {
	Time             *time.Time
	Latitude         *float64
	Longitude        *float64
	PhotoURL         *string
	FaceVerified     *bool
	LocationVerified *bool
	DistanceMeters   *float64
	Similarity       *float64
}

func (p *punchColumns) targets() []interface{} {
	return []interface{}{
		&p.Time, &p.Latitude, &p.Longitude, &p.PhotoURL,
		&p.FaceVerified, &p.LocationVerified, &p.DistanceMeters, &p.Similarity,
	}
}

func (p punchColumns) toPunch() *attendance.Punch {
	if p.Time == nil {
		return nil
	}
	punch := &attendance.Punch{Time: *p.Time, PhotoURL: p.PhotoURL}
	if p.Latitude != nil {
		punch.Latitude = *p.Latitude
	}
	if p.Longitude != nil {
		punch.Longitude = *p.Longitude
	}
	if p.FaceVerified != nil {
		punch.FaceVerified = *p.FaceVerified
	}
	if p.LocationVerified != nil {
		punch.LocationVerified = *p.LocationVerified
	}
	if p.DistanceMeters != nil {
		punch.DistanceMeters = *p.DistanceMeters
	}
	if p.Similarity != nil {
		punch.Similarity = *p.Similarity
	}
	return punch
}

// scanAttendance reads attendanceColumns followed by any extra targets.
func scanAttendance(row pgx.Row, extra ...interface{}) (attendance.Attendance, error) {
	var (
		att               attendance.Attendance
		status            string
		checkIn, checkOut punchColumns
	)

	dest := []interface{}{&att.ID, &att.EmployeeID, &att.Date}
	dest = append(dest, checkIn.targets()...)
	dest = append(dest, checkOut.targets()...)
	dest = append(dest,
		&att.LateMinutes, &att.EarlyLeaveMinutes, &att.WorkMinutes, &status, &att.SettingsVersion,
		&att.CreatedAt, &att.UpdatedAt,
	)
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return attendance.Attendance{}, err
	}

	att.Status = attendance.Status(status)
	att.CheckIn = checkIn.toPunch()
	att.CheckOut = checkOut.toPunch()
	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1
		  AND a.attendance_date = $2
		LIMIT 1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No existing attendance found
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &att, nil
}

// CreateCheckIn implements attendance.AttendanceRepository. A row already
// holding a check-in is left untouched and reported as a duplicate.
func (a *attendanceRepository) CreateCheckIn(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)
	if newAttendance.CheckIn == nil {
		return attendance.Attendance{}, attendance.ErrNoCheckInFound
	}
	in := newAttendance.CheckIn

	query := `
		INSERT INTO attendances AS a (
			employee_id, attendance_date,
			check_in_time, check_in_latitude, check_in_longitude, check_in_photo_url,
			check_in_face_verified, check_in_location_verified, check_in_distance_meters, check_in_similarity,
			late_minutes, status, settings_version
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
		ON CONFLICT ON CONSTRAINT attendances_employee_date_key DO UPDATE SET
			check_in_time = EXCLUDED.check_in_time,
			check_in_latitude = EXCLUDED.check_in_latitude,
			check_in_longitude = EXCLUDED.check_in_longitude,
			check_in_photo_url = EXCLUDED.check_in_photo_url,
			check_in_face_verified = EXCLUDED.check_in_face_verified,
			check_in_location_verified = EXCLUDED.check_in_location_verified,
			check_in_distance_meters = EXCLUDED.check_in_distance_meters,
			check_in_similarity = EXCLUDED.check_in_similarity,
			late_minutes = EXCLUDED.late_minutes,
			status = EXCLUDED.status,
			settings_version = EXCLUDED.settings_version,
			updated_at = NOW()
		WHERE a.check_in_time IS NULL
		RETURNING ` + attendanceColumns

	saved, err := scanAttendance(q.QueryRow(ctx, query,
		newAttendance.EmployeeID,
		newAttendance.Date,
		in.Time, in.Latitude, in.Longitude, in.PhotoURL,
		in.FaceVerified, in.LocationVerified, in.DistanceMeters, in.Similarity,
		newAttendance.LateMinutes,
		string(newAttendance.Status),
		newAttendance.SettingsVersion,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isUniqueViolation(err, "attendances_employee_date_key") {
			return attendance.Attendance{}, attendance.ErrDuplicateCheckIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return saved, nil
}

// RecordCheckOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) RecordCheckOut(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)
	if att.CheckOut == nil {
		return attendance.Attendance{}, attendance.ErrNoCheckInFound
	}
	out := att.CheckOut

	query := `
		UPDATE attendances AS a SET
			check_out_time = $1,
			check_out_latitude = $2,
			check_out_longitude = $3,
			check_out_photo_url = $4,
			check_out_face_verified = $5,
			check_out_location_verified = $6,
			check_out_distance_meters = $7,
			check_out_similarity = $8,
			early_leave_minutes = $9,
			work_minutes = $10,
			status = $11,
			updated_at = NOW()
		WHERE a.id = $12
		  AND a.check_in_time IS NOT NULL
		  AND a.check_out_time IS NULL
		RETURNING ` + attendanceColumns

	saved, err := scanAttendance(q.QueryRow(ctx, query,
		out.Time, out.Latitude, out.Longitude, out.PhotoURL,
		out.FaceVerified, out.LocationVerified, out.DistanceMeters, out.Similarity,
		att.EarlyLeaveMinutes,
		att.WorkMinutes,
		string(att.Status),
		att.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrDuplicateCheckOut
		}
		return attendance.Attendance{}, fmt.Errorf("failed to record check-out: %w", err)
	}

	return saved, nil
}

var attendanceSortColumns = map[string]string{
	"date":           "a.attendance_date",
	"employee_name":  "e.full_name",
	"check_in_time":  "a.check_in_time",
	"check_out_time": "a.check_out_time",
	"status":         "a.status",
}

func attendanceOrderBy(sortBy, sortOrder string) string {
	col, ok := attendanceSortColumns[sortBy]
	if !ok {
		col = attendanceSortColumns["date"]
	}
	dir := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		dir = "ASC"
	}
	return fmt.Sprintf("ORDER BY %s %s NULLS LAST, a.id ASC", col, dir)
}

// whereBuilder collects AND-ed conditions with positional arguments.
type whereBuilder struct {
	conditions []string
	args       []interface{}
}

func (w *whereBuilder) add(format string, arg interface{}) {
	w.args = append(w.args, arg)
	w.conditions = append(w.conditions, fmt.Sprintf(format, len(w.args)))
}

func (w *whereBuilder) next() int {
	return len(w.args) + 1
}

func (w *whereBuilder) String() string {
	if len(w.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.conditions, " AND ")
}

func addDateFilters(w *whereBuilder, date, startDate, endDate, status *string) {
	if date != nil && *date != "" {
		w.add("a.attendance_date = $%d", *date)
	}
	if startDate != nil && *startDate != "" {
		w.add("a.attendance_date >= $%d", *startDate)
	}
	if endDate != nil && *endDate != "" {
		w.add("a.attendance_date <= $%d", *endDate)
	}
	if status != nil && *status != "" {
		w.add("a.status = $%d", *status)
	}
}

func (a *attendanceRepository) list(ctx context.Context, w *whereBuilder, orderBy string, page, limit int) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	from := `FROM attendances a JOIN employees e ON e.id = a.employee_id ` + w.String()

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) "+from, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s, e.employee_code, e.full_name %s %s LIMIT $%d OFFSET $%d`,
		attendanceColumns, from, orderBy, w.next(), w.next()+1)
	args := append(w.args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	attendances := make([]attendance.Attendance, 0)
	for rows.Next() {
		var code, name string
		att, err := scanAttendance(rows, &code, &name)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		att.EmployeeCode = &code
		att.EmployeeName = &name
		attendances = append(attendances, att)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return attendances, total, nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	w := &whereBuilder{}
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		w.add("a.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.EmployeeName != nil && *filter.EmployeeName != "" {
		w.add("e.full_name ILIKE $%d", "%"+*filter.EmployeeName+"%")
	}
	addDateFilters(w, filter.Date, filter.StartDate, filter.EndDate, filter.Status)

	return a.list(ctx, w, attendanceOrderBy(filter.SortBy, filter.SortOrder), filter.Page, filter.Limit)
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter) ([]attendance.Attendance, int64, error) {
	w := &whereBuilder{}
	w.add("a.employee_id = $%d", employeeID)
	addDateFilters(w, filter.Date, filter.StartDate, filter.EndDate, filter.Status)

	return a.list(ctx, w, attendanceOrderBy(filter.SortBy, filter.SortOrder), filter.Page, filter.Limit)
}

// Summary implements attendance.AttendanceRepository.
func (a *attendanceRepository) Summary(ctx context.Context, filter attendance.SummaryFilter) ([]attendance.SummaryRow, error) {
	q := GetQuerier(ctx, a.db)

	w := &whereBuilder{}
	w.add("a.attendance_date >= $%d", filter.StartDate)
	w.add("a.attendance_date <= $%d", filter.EndDate)
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		w.add("a.employee_id = $%d", *filter.EmployeeID)
	}

	query := `
		SELECT
			e.id, e.employee_code, e.full_name,
			COUNT(*) FILTER (WHERE a.status = 'present'),
			COUNT(*) FILTER (WHERE a.status = 'late'),
			COUNT(*) FILTER (WHERE a.status = 'absent'),
			COUNT(*) FILTER (WHERE a.status = 'leave'),
			COUNT(*) FILTER (WHERE a.status = 'half_day'),
			COUNT(*) FILTER (WHERE a.check_in_location_verified = FALSE OR a.check_out_location_verified = FALSE),
			COALESCE(SUM(a.late_minutes), 0),
			COALESCE(SUM(a.early_leave_minutes), 0),
			COALESCE(SUM(a.work_minutes), 0)
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		` + w.String() + `
		GROUP BY e.id, e.employee_code, e.full_name
		ORDER BY e.full_name ASC, e.id ASC
	`

	rows, err := q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize attendances: %w", err)
	}
	defer rows.Close()

	summary := make([]attendance.SummaryRow, 0)
	for rows.Next() {
		var r attendance.SummaryRow
		if err := rows.Scan(
			&r.EmployeeID, &r.EmployeeCode, &r.EmployeeName,
			&r.PresentDays, &r.LateDays, &r.AbsentDays, &r.LeaveDays, &r.HalfDays,
			&r.OutsideGeofence,
			&r.TotalLateMinutes, &r.TotalEarlyLeaveMinutes, &r.TotalWorkMinutes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		summary = append(summary, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summary, nil
}
