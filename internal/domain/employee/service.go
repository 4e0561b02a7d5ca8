package employee

import (
	"context"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)
	GetByUserID(ctx context.Context, userID string) (EmployeeResponse, error)
	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeactivateEmployee blocks future check-ins; history is kept.
	DeactivateEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	// EnrollFace registers (or replaces) the reference face for an employee.
	EnrollFace(ctx context.Context, req EnrollFaceRequest) (EmployeeResponse, error)
}
