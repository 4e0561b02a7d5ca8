package employee

import (
	"context"
	"time"
)

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByUserID(ctx context.Context, userID string) (Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)

	// Deactivate flips is_active; employees are never hard-deleted.
	Deactivate(ctx context.Context, id string) error

	// SetFaceToken replaces the enrolled face reference.
	SetFaceToken(ctx context.Context, id string, token string, enrolledAt time.Time) error
}
