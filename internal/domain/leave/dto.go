package leave

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// LEAVE TYPE DTOs
// ========================================

type CreateLeaveTypeRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	DefaultQuota int    `json:"default_quota" validate:"gte=0,lte=366"`
	IsActive     *bool  `json:"is_active,omitempty"`
}

func (r *CreateLeaveTypeRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return validator.Struct(r)
}

type UpdateLeaveTypeRequest struct {
	ID           string  `json:"-"`
	Name         *string `json:"name,omitempty"`
	DefaultQuota *int    `json:"default_quota,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

func (r *UpdateLeaveTypeRequest) Validate() error {
	errs := validator.ValidateID("id", r.ID)
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
		if name == "" {
			errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not be empty"})
		} else if len(name) > 100 {
			errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not exceed 100 characters"})
		}
	}
	if r.DefaultQuota != nil && (*r.DefaultQuota < 0 || *r.DefaultQuota > 366) {
		errs = append(errs, validator.ValidationError{Field: "default_quota", Message: "default_quota must be between 0 and 366"})
	}
	if r.Name == nil && r.DefaultQuota == nil && r.IsActive == nil {
		errs = append(errs, validator.ValidationError{Field: "body", Message: "at least one field must be provided"})
	}

	return errs.OrNil()
}

type LeaveTypeResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DefaultQuota int    `json:"default_quota"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

func NewLeaveTypeResponse(t LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:           t.ID,
		Name:         t.Name,
		DefaultQuota: t.DefaultQuota,
		IsActive:     t.IsActive,
		CreatedAt:    t.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:    t.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// ========================================
// LEAVE BALANCE DTOs
// ========================================

type LeaveBalanceResponse struct {
	LeaveTypeID   string `json:"leave_type_id"`
	LeaveTypeName string `json:"leave_type_name"`
	Year          int    `json:"year"`
	Quota         int    `json:"quota"`
	Used          int    `json:"used"`
	Remaining     int    `json:"remaining"`
}

func NewLeaveBalanceResponse(b LeaveBalance, typeName string) LeaveBalanceResponse {
	return LeaveBalanceResponse{
		LeaveTypeID:   b.LeaveTypeID,
		LeaveTypeName: typeName,
		Year:          b.Year,
		Quota:         b.Quota,
		Used:          b.Used,
		Remaining:     b.Remaining(),
	}
}

// ========================================
// LEAVE REQUEST DTOs
// ========================================

type SubmitLeaveRequest struct {
	EmployeeID  string `json:"-"`
	LeaveTypeID string `json:"leave_type_id"`
	StartDate   string `json:"start_date"` // YYYY-MM-DD
	EndDate     string `json:"end_date"`   // YYYY-MM-DD
	Reason      string `json:"reason"`

	// Set by Validate
	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

// Validate parses the dates. A request may not span two calendar years
// because balances are kept per year.
func (r *SubmitLeaveRequest) Validate() error {
	errs := validator.ValidateID("employee_id", r.EmployeeID)
	errs = append(errs, validator.ValidateID("leave_type_id", r.LeaveTypeID)...)
	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date is required"})
	}
	if validator.IsEmpty(r.EndDate) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date is required"})
	}
	if len(r.Reason) > 1000 {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason must not exceed 1000 characters"})
	}
	if len(errs) > 0 {
		return errs
	}

	if rangeErrs := validator.ValidateDateRange("start_date", &r.StartDate, "end_date", &r.EndDate); len(rangeErrs) > 0 {
		return rangeErrs
	}

	r.Start, _ = validator.IsValidDate(r.StartDate)
	r.End, _ = validator.IsValidDate(r.EndDate)
	if r.Start.Year() != r.End.Year() {
		return validator.Single("end_date", "leave cannot span two calendar years; submit one request per year")
	}

	r.Reason = strings.TrimSpace(r.Reason)
	return nil
}

// DecideLeaveRequest is used for approve and reject.
type DecideLeaveRequest struct {
	RequestID string  `json:"-"`
	DecidedBy string  `json:"-"`
	Reason    *string `json:"reason,omitempty"`
}

func (r *DecideLeaveRequest) Validate(requireReason bool) error {
	errs := validator.ValidateID("id", r.RequestID)
	if validator.IsEmpty(r.DecidedBy) {
		errs = append(errs, validator.ValidationError{Field: "decided_by", Message: "decided_by is required"})
	}
	if requireReason && (r.Reason == nil || validator.IsEmpty(*r.Reason)) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason is required when rejecting"})
	}

	return errs.OrNil()
}

type LeaveRequestFilter struct {
	EmployeeID  *string `json:"employee_id,omitempty"`
	LeaveTypeID *string `json:"leave_type_id,omitempty"`
	Status      *string `json:"status,omitempty"`
	StartDate   *string `json:"start_date,omitempty"` // requests ending on or after
	EndDate     *string `json:"end_date,omitempty"`   // requests starting on or before

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *LeaveRequestFilter) Validate() error {
	errs := validator.NormalizePage(&f.Page, &f.Limit)
	errs = append(errs, validator.ValidateOptionalID("employee_id", f.EmployeeID)...)
	errs = append(errs, validator.ValidateOptionalID("leave_type_id", f.LeaveTypeID)...)
	errs = append(errs, validateStatus(f.Status)...)
	errs = append(errs, validator.ValidateDateRange("start_date", f.StartDate, "end_date", f.EndDate)...)
	return errs.OrNil()
}

type MyLeaveRequestFilter struct {
	Status *string `json:"status,omitempty"`
	Year   *int    `json:"year,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *MyLeaveRequestFilter) Validate() error {
	errs := validator.NormalizePage(&f.Page, &f.Limit)
	errs = append(errs, validateStatus(f.Status)...)
	if f.Year != nil && (*f.Year < 2000 || *f.Year > 9999) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be a four-digit year"})
	}
	return errs.OrNil()
}

func validateStatus(status *string) validator.ValidationErrors {
	if status == nil || validator.IsInSlice(*status, AllRequestStatuses) {
		return nil
	}
	return validator.Single("status", "status must be one of: "+strings.Join(AllRequestStatuses, ", "))
}

type LeaveRequestResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    *string `json:"employee_name,omitempty"`
	LeaveTypeID     string  `json:"leave_type_id"`
	LeaveTypeName   *string `json:"leave_type_name,omitempty"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	TotalDays       int     `json:"total_days"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	DecidedBy       *string `json:"decided_by,omitempty"`
	DecidedAt       *string `json:"decided_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func NewLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    r.EmployeeName,
		LeaveTypeID:     r.LeaveTypeID,
		LeaveTypeName:   r.LeaveTypeName,
		StartDate:       r.StartDate.Format("2006-01-02"),
		EndDate:         r.EndDate.Format("2006-01-02"),
		TotalDays:       r.TotalDays,
		Reason:          r.Reason,
		Status:          string(r.Status),
		DecidedBy:       r.DecidedBy,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:       r.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if r.DecidedAt != nil {
		s := r.DecidedAt.Format("2006-01-02 15:04:05")
		resp.DecidedAt = &s
	}
	return resp
}

type ListLeaveRequestResponse struct {
	TotalCount int64                  `json:"total_count"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
	Showing    string                 `json:"showing"`
	Requests   []LeaveRequestResponse `json:"requests"`
}
