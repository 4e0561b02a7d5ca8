package employee

import (
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/photo"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	UserID       *string `json:"user_id,omitempty"`
	EmployeeCode string  `json:"employee_code" validate:"required"`
	FullName     string  `json:"full_name" validate:"required,max=150"`
	Email        string  `json:"email" validate:"required,email"`
	Position     *string `json:"position,omitempty" validate:"omitempty,max=100"`
}

func (r *CreateEmployeeRequest) Validate() error {
	r.EmployeeCode = strings.TrimSpace(r.EmployeeCode)
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		structErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, structErrs...)
	}

	if r.EmployeeCode != "" && !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_code",
			Message: "employee_code must be 3-20 letters, digits or dashes",
		})
	}

	if r.UserID != nil && validator.IsEmpty(*r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id must not be blank",
		})
	}

	return errs.OrNil()
}

type UpdateEmployeeRequest struct {
	ID       string  `json:"-"`
	UserID   *string `json:"user_id,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Position *string `json:"position,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	errs := validator.ValidateID("id", r.ID)
	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "full_name must not be blank"})
	}
	if r.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &email
		if !validator.IsValidEmail(email) {
			errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be a valid email address"})
		}
	}
	if r.UserID != nil && validator.IsEmpty(*r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id must not be blank"})
	}
	if r.FullName == nil && r.Email == nil && r.Position == nil && r.UserID == nil {
		errs = append(errs, validator.ValidationError{Field: "body", Message: "at least one field must be provided"})
	}

	return errs.OrNil()
}

type EmployeeFilter struct {
	Search   *string `json:"search,omitempty"` // name or employee code
	IsActive *bool   `json:"is_active,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *EmployeeFilter) Validate() error {
	return validator.NormalizePage(&f.Page, &f.Limit).OrNil()
}

// EnrollFaceRequest carries an already validated photo.
type EnrollFaceRequest struct {
	EmployeeID string
	Photo      photo.Photo
}

func (r *EnrollFaceRequest) Validate() error {
	errs := validator.ValidateID("employee_id", r.EmployeeID)
	if len(r.Photo.Data) == 0 {
		errs = append(errs, validator.ValidationError{Field: "photo", Message: photo.ErrMissingPhoto.Error()})
	}
	return errs.OrNil()
}

type EmployeeResponse struct {
	ID             string  `json:"id"`
	UserID         *string `json:"user_id,omitempty"`
	EmployeeCode   string  `json:"employee_code"`
	FullName       string  `json:"full_name"`
	Email          string  `json:"email"`
	Position       *string `json:"position,omitempty"`
	IsActive       bool    `json:"is_active"`
	FaceEnrolled   bool    `json:"face_enrolled"`
	FaceEnrolledAt *string `json:"face_enrolled_at,omitempty"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

// NewEmployeeResponse never exposes the face token itself.
func NewEmployeeResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:           e.ID,
		UserID:       e.UserID,
		EmployeeCode: e.EmployeeCode,
		FullName:     e.FullName,
		Email:        e.Email,
		Position:     e.Position,
		IsActive:     e.IsActive,
		FaceEnrolled: e.IsFaceEnrolled(),
		CreatedAt:    e.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:    e.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if e.FaceEnrolledAt != nil {
		s := e.FaceEnrolledAt.Format("2006-01-02 15:04:05")
		resp.FaceEnrolledAt = &s
	}
	return resp
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Showing    string             `json:"showing"`
	Employees  []EmployeeResponse `json:"employees"`
}
