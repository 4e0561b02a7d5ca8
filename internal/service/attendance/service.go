package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/face"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/photo"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/utils"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/file"
)

const (
	actionCheckIn  = "check_in"
	actionCheckOut = "check_out"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	settings.SettingsRepository
	recognizer  face.Recognizer
	fileService file.FileService
	metrics     *metrics.Metrics
	now         func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	settingsRepo settings.SettingsRepository,
	recognizer face.Recognizer,
	fileService file.FileService,
	m *metrics.Metrics,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		SettingsRepository:   settingsRepo,
		recognizer:           recognizer,
		fileService:          fileService,
		metrics:              m,
		now:                  time.Now,
	}
}

// punchContext is what both flows load before calling the face service.
type punchContext struct {
	employee employee.Employee
	settings settings.OfficeSettings
	rules    WorkTimeRules
	instant  time.Time
	date     time.Time
	today    *attendance.Attendance
}

func (a *AttendanceServiceImpl) load(ctx context.Context, req *attendance.PunchRequest) (punchContext, error) {
	if err := req.Validate(); err != nil {
		return punchContext{}, err
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return punchContext{}, err
	}
	if err := emp.CanRecordAttendance(); err != nil {
		return punchContext{}, err
	}

	officeSettings, err := a.SettingsRepository.Get(ctx)
	if err != nil {
		return punchContext{}, err
	}
	rules, err := NewWorkTimeRules(officeSettings)
	if err != nil {
		return punchContext{}, err
	}

	instant := a.now()
	date, err := rules.AttendanceDate(instant)
	if err != nil {
		return punchContext{}, err
	}

	today, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, date)
	if err != nil {
		return punchContext{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	return punchContext{
		employee: emp,
		settings: officeSettings,
		rules:    rules,
		instant:  instant,
		date:     date,
		today:    today,
	}, nil
}

// similarity calls the face service. Detection failures are returned as is
// so they are reported separately from a low score.
func (a *AttendanceServiceImpl) similarity(ctx context.Context, emp employee.Employee, p *photo.Photo) (float64, error) {
	score, err := a.recognizer.Verify(ctx, *emp.FaceToken, *p)
	if err != nil {
		return 0, fmt.Errorf("face verification: %w", err)
	}
	return score, nil
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	pc, err := a.load(ctx, &req.PunchRequest)
	if err != nil {
		return attendance.AttendanceResponse{}, a.reject(ctx, actionCheckIn, req.EmployeeID, err)
	}

	// Refuse before spending a face service call.
	if pc.today.HasCheckedIn() {
		return attendance.AttendanceResponse{}, a.reject(ctx, actionCheckIn, req.EmployeeID, attendance.ErrDuplicateCheckIn)
	}

	score, err := a.similarity(ctx, pc.employee, req.Photo)
	if err != nil {
		return attendance.AttendanceResponse{}, a.reject(ctx, actionCheckIn, req.EmployeeID, err)
	}

	decision, err := EvaluateCheckIn(PunchInput{
		Employee:   pc.employee,
		Settings:   &pc.settings,
		Today:      pc.today,
		Instant:    pc.instant,
		Latitude:   *req.Latitude,
		Longitude:  *req.Longitude,
		Similarity: score,
	})
	if err != nil {
		return attendance.AttendanceResponse{}, a.reject(ctx, actionCheckIn, req.EmployeeID, err)
	}

	stored, err := a.fileService.UploadAttendancePhoto(ctx, pc.employee.ID, pc.date, file.PhotoKindCheckIn, *req.Photo)
	if err != nil {
		return attendance.AttendanceResponse{}, a.reject(ctx, actionCheckIn, req.EmployeeID, err)
	}
	decision.Attendance.CheckIn.PhotoURL = &stored.URL

	saved, err := a.AttendanceRepository.CreateCheckIn(ctx, decision.Attendance)
	if err != nil {
		a.discardPhoto(ctx, stored)
		return attendance.AttendanceResponse{}, a.reject(ctx, actionCheckIn, req.EmployeeID, err)
	}

	a.accept(ctx, actionCheckIn, saved, decision.Punch)
	return attendance.NewAttendanceResponse(saved, decision.Rules.Location), nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	pc, err := a.load(ctx, &req.PunchRequest)
	if err != nil {
		return attendance.AttendanceResponse{}, a.reject(ctx, actionCheckOut, req.EmployeeID, err)
	}

	if !pc.today.HasCheckedIn() {
		return attendance.AttendanceResponse{}, a.reject(ctx, actionCheckOut, req.EmployeeID, attendance.ErrNoCheckInFound)
	}
	if pc.today.HasCheckedOut() {
		return attendance.AttendanceResponse{}, a.reject(ctx, actionCheckOut, req.EmployeeID, attendance.ErrDuplicateCheckOut)
	}

	score, err := a.similarity(ctx, pc.employee, req.Photo)
	if err != nil {
		return attendance.AttendanceResponse{}, a.reject(ctx, actionCheckOut, req.EmployeeID, err)
	}

	decision, err := EvaluateCheckOut(PunchInput{
		Employee:   pc.employee,
		Settings:   &pc.settings,
		Today:      pc.today,
		Instant:    pc.instant,
		Latitude:   *req.Latitude,
		Longitude:  *req.Longitude,
		Similarity: score,
	})
	if err != nil {
		return attendance.AttendanceResponse{}, a.reject(ctx, actionCheckOut, req.EmployeeID, err)
	}

	stored, err := a.fileService.UploadAttendancePhoto(ctx, pc.employee.ID, pc.date, file.PhotoKindCheckOut, *req.Photo)
	if err != nil {
		return attendance.AttendanceResponse{}, a.reject(ctx, actionCheckOut, req.EmployeeID, err)
	}
	decision.Attendance.CheckOut.PhotoURL = &stored.URL

	saved, err := a.AttendanceRepository.RecordCheckOut(ctx, decision.Attendance)
	if err != nil {
		a.discardPhoto(ctx, stored)
		return attendance.AttendanceResponse{}, a.reject(ctx, actionCheckOut, req.EmployeeID, err)
	}

	a.accept(ctx, actionCheckOut, saved, decision.Punch)
	return attendance.NewAttendanceResponse(saved, decision.Rules.Location), nil
}

// discardPhoto removes a proof photo whose attendance row was never written.
// The request context may already be cancelled at this point.
func (a *AttendanceServiceImpl) discardPhoto(ctx context.Context, stored file.StoredPhoto) {
	if err := a.fileService.DeletePhoto(context.WithoutCancel(ctx), stored.Key); err != nil {
		slog.WarnContext(ctx, "failed to remove orphaned attendance photo", "key", stored.Key, "error", err)
	}
}

func (a *AttendanceServiceImpl) accept(ctx context.Context, action string, saved attendance.Attendance, punch attendance.Punch) {
	a.metrics.ObserveAttendance(action, metrics.OutcomeAccepted, "")
	if !punch.LocationVerified {
		a.metrics.ObserveOutsideGeofence(action)
		slog.WarnContext(ctx, "attendance recorded outside geofence",
			"action", action,
			"employee_id", saved.EmployeeID,
			"attendance_id", saved.ID,
			"distance_meters", punch.DistanceMeters,
		)
	}
	slog.InfoContext(ctx, "attendance recorded",
		"action", action,
		"employee_id", saved.EmployeeID,
		"date", saved.Date.Format("2006-01-02"),
		"status", saved.Status,
		"late_minutes", saved.LateMinutes,
		"early_leave_minutes", saved.EarlyLeaveMinutes,
	)
}

// reject records the outcome of a refused punch and returns err unchanged.
func (a *AttendanceServiceImpl) reject(ctx context.Context, action, employeeID string, err error) error {
	reason := rejectionReason(err)
	if reason == "" {
		a.metrics.ObserveAttendance(action, metrics.OutcomeError, "")
		slog.ErrorContext(ctx, "attendance failed", "action", action, "employee_id", employeeID, "error", err)
		return err
	}
	a.metrics.ObserveAttendance(action, metrics.OutcomeRejected, reason)
	slog.InfoContext(ctx, "attendance rejected", "action", action, "employee_id", employeeID, "reason", reason, "error", err)
	return err
}

// rejectionReason labels expected refusals; unexpected failures map to "".
func rejectionReason(err error) string {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return "validation"
	case errors.Is(err, attendance.ErrDuplicateCheckIn):
		return "duplicate_check_in"
	case errors.Is(err, attendance.ErrDuplicateCheckOut):
		return "duplicate_check_out"
	case errors.Is(err, attendance.ErrNoCheckInFound):
		return "no_check_in"
	case errors.Is(err, attendance.ErrFaceVerificationFailed):
		return "face_mismatch"
	case errors.Is(err, face.ErrNoFaceDetected):
		return "no_face"
	case errors.Is(err, face.ErrMultipleFaces):
		return "multiple_faces"
	case errors.Is(err, face.ErrLowQualityPhoto):
		return "low_quality"
	case errors.Is(err, employee.ErrEmployeeNotFound):
		return "employee_not_found"
	case errors.Is(err, employee.ErrEmployeeInactive):
		return "employee_inactive"
	case errors.Is(err, employee.ErrFaceNotEnrolled):
		return "face_not_enrolled"
	case errors.Is(err, settings.ErrSettingsNotFound):
		return "settings_missing"
	default:
		return ""
	}
}

// GetTodayStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetTodayStatus(ctx context.Context, employeeID string) (attendance.TodayStatusResponse, error) {
	officeSettings, err := a.SettingsRepository.Get(ctx)
	if err != nil {
		return attendance.TodayStatusResponse{}, err
	}
	rules, err := NewWorkTimeRules(officeSettings)
	if err != nil {
		return attendance.TodayStatusResponse{}, err
	}
	date, err := rules.AttendanceDate(a.now())
	if err != nil {
		return attendance.TodayStatusResponse{}, err
	}

	today, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	resp := attendance.TodayStatusResponse{
		Date:        date.Format("2006-01-02"),
		Timezone:    officeSettings.Timezone,
		CanCheckIn:  !today.HasCheckedIn(),
		CanCheckOut: today.HasCheckedIn() && !today.HasCheckedOut(),
	}
	if today != nil {
		r := attendance.NewAttendanceResponse(*today, rules.Location)
		resp.Attendance = &r
	}
	return resp, nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, totalCount, err := a.AttendanceRepository.ListByEmployee(ctx, employeeID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	return a.listResponse(ctx, records, totalCount, filter.Page, filter.Limit), nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, totalCount, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	return a.listResponse(ctx, records, totalCount, filter.Page, filter.Limit), nil
}

func (a *AttendanceServiceImpl) listResponse(ctx context.Context, records []attendance.Attendance, totalCount int64, page, limit int) attendance.ListAttendanceResponse {
	loc := a.officeLocation(ctx)

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, attendance.NewAttendanceResponse(r, loc))
	}

	totalPages, showing := utils.Paginate(page, limit, totalCount)
	return attendance.ListAttendanceResponse{
		TotalCount:  totalCount,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}
}

// officeLocation falls back to UTC for listings when settings are missing.
func (a *AttendanceServiceImpl) officeLocation(ctx context.Context) *time.Location {
	officeSettings, err := a.SettingsRepository.Get(ctx)
	if err != nil {
		return time.UTC
	}
	loc, err := officeSettings.Location()
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetSummary implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetSummary(ctx context.Context, filter attendance.SummaryFilter) (attendance.SummaryResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.SummaryResponse{}, err
	}

	rows, err := a.AttendanceRepository.Summary(ctx, filter)
	if err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("failed to summarize attendance: %w", err)
	}
	if rows == nil {
		rows = []attendance.SummaryRow{}
	}

	return attendance.SummaryResponse{
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
		Employees: rows,
	}, nil
}
