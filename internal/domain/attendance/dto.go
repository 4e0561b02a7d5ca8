package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/photo"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// CHECK-IN / CHECK-OUT
// ========================================

// PunchRequest is the payload shared by check-in and check-out. The photo
// arrives either as a multipart file (Photo) or inline as PhotoBase64.
type PunchRequest struct {
	EmployeeID  string       `json:"-"`
	Latitude    *float64     `json:"latitude"`
	Longitude   *float64     `json:"longitude"`
	PhotoBase64 string       `json:"photo_base64,omitempty"`
	Photo       *photo.Photo `json:"-"`
}

// Validate decodes an inline photo into Photo on success.
func (r *PunchRequest) Validate() error {
	errs := validator.ValidateID("employee_id", r.EmployeeID)

	if r.Latitude == nil {
		errs = append(errs, validator.ValidationError{Field: "latitude", Message: "latitude is required"})
	}
	if r.Longitude == nil {
		errs = append(errs, validator.ValidationError{Field: "longitude", Message: "longitude is required"})
	}
	if r.Latitude != nil && r.Longitude != nil {
		errs = append(errs, validator.ValidateCoordinates("latitude", *r.Latitude, "longitude", *r.Longitude)...)
	}

	if r.Photo == nil {
		if r.PhotoBase64 == "" {
			errs = append(errs, validator.ValidationError{Field: "photo", Message: photo.ErrMissingPhoto.Error()})
		} else if p, err := photo.FromBase64(r.PhotoBase64); err != nil {
			errs = append(errs, validator.ValidationError{Field: "photo", Message: err.Error()})
		} else {
			r.Photo = &p
			r.PhotoBase64 = ""
		}
	}

	return errs.OrNil()
}

type CheckInRequest struct {
	PunchRequest
}

type CheckOutRequest struct {
	PunchRequest
}

type PunchResponse struct {
	Time             string  `json:"time"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	PhotoURL         *string `json:"photo_url,omitempty"`
	FaceVerified     bool    `json:"face_verified"`
	LocationVerified bool    `json:"location_verified"`
	DistanceMeters   float64 `json:"distance_meters"`
	Similarity       float64 `json:"similarity"`
}

type AttendanceResponse struct {
	ID                string         `json:"id"`
	EmployeeID        string         `json:"employee_id"`
	EmployeeCode      *string        `json:"employee_code,omitempty"`
	EmployeeName      *string        `json:"employee_name,omitempty"`
	Date              string         `json:"date"`
	Status            string         `json:"status"`
	CheckIn           *PunchResponse `json:"check_in,omitempty"`
	CheckOut          *PunchResponse `json:"check_out,omitempty"`
	LateMinutes       int            `json:"late_minutes"`
	EarlyLeaveMinutes int            `json:"early_leave_minutes"`
	WorkMinutes       *int           `json:"work_minutes,omitempty"`
	SettingsVersion   int            `json:"settings_version"`
	CreatedAt         string         `json:"created_at"`
	UpdatedAt         string         `json:"updated_at"`
}

// NewAttendanceResponse renders punch times in loc, the office timezone.
func NewAttendanceResponse(a Attendance, loc *time.Location) AttendanceResponse {
	if loc == nil {
		loc = time.UTC
	}
	return AttendanceResponse{
		ID:                a.ID,
		EmployeeID:        a.EmployeeID,
		EmployeeCode:      a.EmployeeCode,
		EmployeeName:      a.EmployeeName,
		Date:              a.Date.Format("2006-01-02"),
		Status:            string(a.Status),
		CheckIn:           newPunchResponse(a.CheckIn, loc),
		CheckOut:          newPunchResponse(a.CheckOut, loc),
		LateMinutes:       a.LateMinutes,
		EarlyLeaveMinutes: a.EarlyLeaveMinutes,
		WorkMinutes:       a.WorkMinutes,
		SettingsVersion:   a.SettingsVersion,
		CreatedAt:         a.CreatedAt.In(loc).Format(time.RFC3339),
		UpdatedAt:         a.UpdatedAt.In(loc).Format(time.RFC3339),
	}
}

func newPunchResponse(p *Punch, loc *time.Location) *PunchResponse {
	if p == nil {
		return nil
	}
	return &PunchResponse{
		Time:             p.Time.In(loc).Format(time.RFC3339),
		Latitude:         p.Latitude,
		Longitude:        p.Longitude,
		PhotoURL:         p.PhotoURL,
		FaceVerified:     p.FaceVerified,
		LocationVerified: p.LocationVerified,
		DistanceMeters:   p.DistanceMeters,
		Similarity:       p.Similarity,
	}
}

type TodayStatusResponse struct {
	Date        string              `json:"date"`
	Timezone    string              `json:"timezone"`
	CanCheckIn  bool                `json:"can_check_in"`
	CanCheckOut bool                `json:"can_check_out"`
	Attendance  *AttendanceResponse `json:"attendance,omitempty"`
}

// ========================================
// LISTING
// ========================================

type AttendanceFilter struct {
	// Search & Filter
	EmployeeID   *string `json:"employee_id,omitempty"`
	EmployeeName *string `json:"employee_name,omitempty"`
	Date         *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate    *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate      *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status       *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, employee_name, check_in_time, check_out_time, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AttendanceFilter) Validate() error {
	errs := validator.NormalizePage(&f.Page, &f.Limit)
	errs = append(errs, validator.ValidateOptionalID("employee_id", f.EmployeeID)...)
	errs = append(errs, validateCommonFilter(f.Date, f.StartDate, f.EndDate, f.Status)...)
	errs = append(errs, validateSort(&f.SortBy, &f.SortOrder,
		[]string{"date", "employee_name", "check_in_time", "check_out_time", "status"})...)
	return errs.OrNil()
}

type MyAttendanceFilter struct {
	Date      *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status    *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"`    // date, check_in_time, check_out_time, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *MyAttendanceFilter) Validate() error {
	errs := validator.NormalizePage(&f.Page, &f.Limit)
	errs = append(errs, validateCommonFilter(f.Date, f.StartDate, f.EndDate, f.Status)...)
	errs = append(errs, validateSort(&f.SortBy, &f.SortOrder,
		[]string{"date", "check_in_time", "check_out_time", "status"})...)
	return errs.OrNil()
}

func validateCommonFilter(date, startDate, endDate, status *string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if status != nil && !validator.IsInSlice(*status, AllStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(AllStatuses, ", "),
		})
	}

	if date != nil && *date != "" {
		if _, valid := validator.IsValidDate(*date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	return append(errs, validator.ValidateDateRange("start_date", startDate, "end_date", endDate)...)
}

func validateSort(sortBy, sortOrder *string, allowed []string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if *sortBy == "" {
		*sortBy = "date"
	} else if !validator.IsInSlice(*sortBy, allowed) {
		errs = append(errs, validator.ValidationError{
			Field:   "sort_by",
			Message: "sort_by must be one of: " + strings.Join(allowed, ", "),
		})
	}

	*sortOrder = strings.ToLower(*sortOrder)
	if *sortOrder == "" {
		*sortOrder = "desc" // newest first
	} else if !validator.IsInSlice(*sortOrder, []string{"asc", "desc"}) {
		errs = append(errs, validator.ValidationError{
			Field:   "sort_order",
			Message: "sort_order must be one of: asc, desc",
		})
	}

	return errs
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// ========================================
// SUMMARY
// ========================================

const maxSummaryDays = 366

type SummaryFilter struct {
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	EmployeeID *string `json:"employee_id,omitempty"`
}

func (f *SummaryFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.StartDate) {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date is required"})
	}
	if validator.IsEmpty(f.EndDate) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date is required"})
	}
	errs = append(errs, validator.ValidateOptionalID("employee_id", f.EmployeeID)...)
	if len(errs) > 0 {
		return errs
	}

	if rangeErrs := validator.ValidateDateRange("start_date", &f.StartDate, "end_date", &f.EndDate); len(rangeErrs) > 0 {
		return rangeErrs
	}

	start, _ := validator.IsValidDate(f.StartDate)
	end, _ := validator.IsValidDate(f.EndDate)
	if int(end.Sub(start).Hours()/24)+1 > maxSummaryDays {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "date range must not exceed 366 days",
		})
	}

	return errs.OrNil()
}

type SummaryRow struct {
	EmployeeID             string `json:"employee_id"`
	EmployeeCode           string `json:"employee_code"`
	EmployeeName           string `json:"employee_name"`
	PresentDays            int    `json:"present_days"`
	LateDays               int    `json:"late_days"`
	AbsentDays             int    `json:"absent_days"`
	LeaveDays              int    `json:"leave_days"`
	HalfDays               int    `json:"half_days"`
	OutsideGeofence        int    `json:"outside_geofence"`
	TotalLateMinutes       int    `json:"total_late_minutes"`
	TotalEarlyLeaveMinutes int    `json:"total_early_leave_minutes"`
	TotalWorkMinutes       int    `json:"total_work_minutes"`
}

type SummaryResponse struct {
	StartDate string       `json:"start_date"`
	EndDate   string       `json:"end_date"`
	Employees []SummaryRow `json:"employees"`
}
