package employee

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/face"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/utils"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/file"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	recognizer   face.Recognizer
	fileService  file.FileService
	now          func() time.Time
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	recognizer face.Recognizer,
	fileService file.FileService,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		recognizer:   recognizer,
		fileService:  fileService,
		now:          time.Now,
	}
}

// CreateEmployee implements employee.EmployeeService.
func (e *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	created, err := e.employeeRepo.Create(ctx, employee.Employee{
		UserID:       req.UserID,
		EmployeeCode: req.EmployeeCode,
		FullName:     req.FullName,
		Email:        req.Email,
		Position:     req.Position,
		IsActive:     true,
	})
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	slog.InfoContext(ctx, "employee created", "employee_id", created.ID, "employee_code", created.EmployeeCode)
	return employee.NewEmployeeResponse(created), nil
}

// GetEmployee implements employee.EmployeeService.
func (e *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	if errs := validator.ValidateID("id", id); len(errs) > 0 {
		return employee.EmployeeResponse{}, errs
	}

	emp, err := e.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(emp), nil
}

// GetByUserID implements employee.EmployeeService.
func (e *EmployeeServiceImpl) GetByUserID(ctx context.Context, userID string) (employee.EmployeeResponse, error) {
	emp, err := e.employeeRepo.GetByUserID(ctx, userID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(emp), nil
}

// ListEmployees implements employee.EmployeeService.
func (e *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, totalCount, err := e.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, employee.NewEmployeeResponse(emp))
	}

	totalPages, showing := utils.Paginate(filter.Page, filter.Limit, totalCount)
	return employee.ListEmployeeResponse{
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Employees:  responses,
	}, nil
}

// UpdateEmployee implements employee.EmployeeService.
func (e *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	updated, err := e.employeeRepo.Update(ctx, req.ID, req)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}
	return employee.NewEmployeeResponse(updated), nil
}

// DeactivateEmployee implements employee.EmployeeService.
func (e *EmployeeServiceImpl) DeactivateEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	if errs := validator.ValidateID("id", id); len(errs) > 0 {
		return employee.EmployeeResponse{}, errs
	}

	emp, err := e.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !emp.IsActive {
		return employee.EmployeeResponse{}, employee.ErrEmployeeAlreadyInactive
	}

	if err := e.employeeRepo.Deactivate(ctx, id); err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to deactivate employee: %w", err)
	}

	emp.IsActive = false
	slog.InfoContext(ctx, "employee deactivated", "employee_id", id)
	return employee.NewEmployeeResponse(emp), nil
}

// EnrollFace stores the reference photo, registers it with the face service
// and replaces any previous token.
func (e *EmployeeServiceImpl) EnrollFace(ctx context.Context, req employee.EnrollFaceRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := e.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !emp.IsActive {
		return employee.EmployeeResponse{}, employee.ErrEmployeeInactive
	}

	photoURL, err := e.fileService.UploadEnrollmentPhoto(ctx, emp.ID, req.Photo)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	token, err := e.recognizer.Enroll(ctx, emp.ID, req.Photo)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("face enrollment: %w", err)
	}

	enrolledAt := e.now().UTC()
	if err := e.employeeRepo.SetFaceToken(ctx, emp.ID, token, enrolledAt); err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to save face token: %w", err)
	}

	slog.InfoContext(ctx, "face enrolled",
		"employee_id", emp.ID,
		"re_enrollment", emp.IsFaceEnrolled(),
		"photo_url", photoURL,
	)

	emp.FaceToken = &token
	emp.FaceEnrolledAt = &enrolledAt
	return employee.NewEmployeeResponse(emp), nil
}
