package employee

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/face"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/photo"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	employeeOne = "8d2f6c1e-4b7a-4f0e-9c3d-5a1b2e7f9c40"
	employeeTwo = "1a7c3e5f-2b4d-4c6e-8f0a-9b1d3f5a7c92"
)

type memoryEmployees struct {
	items map[string]employee.Employee
}

func (m *memoryEmployees) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, ok := m.items[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (m *memoryEmployees) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	for _, e := range m.items {
		if e.UserID != nil && *e.UserID == userID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (m *memoryEmployees) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	for _, existing := range m.items {
		if existing.EmployeeCode == e.EmployeeCode {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
	}
	e.ID = fmt.Sprintf("00000000-0000-4000-8000-%012d", len(m.items)+1)
	m.items[e.ID] = e
	return e, nil
}

func (m *memoryEmployees) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.Employee, error) {
	e, ok := m.items[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	if req.FullName != nil {
		e.FullName = *req.FullName
	}
	if req.Email != nil {
		e.Email = *req.Email
	}
	if req.Position != nil {
		e.Position = req.Position
	}
	m.items[id] = e
	return e, nil
}

func (m *memoryEmployees) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	var out []employee.Employee
	for _, e := range m.items {
		if filter.IsActive != nil && e.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (m *memoryEmployees) Deactivate(ctx context.Context, id string) error {
	e, ok := m.items[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	e.IsActive = false
	m.items[id] = e
	return nil
}

func (m *memoryEmployees) SetFaceToken(ctx context.Context, id string, token string, enrolledAt time.Time) error {
	e, ok := m.items[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	e.FaceToken = &token
	e.FaceEnrolledAt = &enrolledAt
	m.items[id] = e
	return nil
}

type stubRecognizer struct {
	token string
	err   error
}

func (s *stubRecognizer) Enroll(ctx context.Context, employeeID string, p photo.Photo) (string, error) {
	return s.token, s.err
}

func (s *stubRecognizer) Verify(ctx context.Context, faceToken string, p photo.Photo) (float64, error) {
	return 0, errors.New("not used")
}

type stubFiles struct {
	enrolled int
}

func (s *stubFiles) UploadAttendancePhoto(ctx context.Context, employeeID string, date time.Time, kind file.PhotoKind, p photo.Photo) (file.StoredPhoto, error) {
	return file.StoredPhoto{}, errors.New("not used")
}

func (s *stubFiles) DeletePhoto(ctx context.Context, key string) error {
	return errors.New("not used")
}

func (s *stubFiles) UploadEnrollmentPhoto(ctx context.Context, employeeID string, p photo.Photo) (string, error) {
	s.enrolled++
	return "http://files.local/faces/" + employeeID + ".jpg", nil
}

func newTestService(repo *memoryEmployees, rec *stubRecognizer) (*EmployeeServiceImpl, *stubFiles) {
	files := &stubFiles{}
	svc := NewEmployeeService(repo, rec, files).(*EmployeeServiceImpl)
	svc.now = func() time.Time { return time.Date(2025, 1, 10, 1, 0, 0, 0, time.UTC) }
	return svc, files
}

func samplePhoto() photo.Photo {
	return photo.Photo{Data: []byte{0xff, 0xd8, 0xff}, MIME: "image/jpeg", Extension: ".jpg"}
}

func TestCreateEmployee(t *testing.T) {
	repo := &memoryEmployees{items: map[string]employee.Employee{}}
	svc, _ := newTestService(repo, &stubRecognizer{})

	resp, err := svc.CreateEmployee(context.Background(), employee.CreateEmployeeRequest{
		EmployeeCode: "EMP-001",
		FullName:     " Budi Santoso ",
		Email:        "Budi@Example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", resp.FullName)
	assert.Equal(t, "budi@example.com", resp.Email)
	assert.True(t, resp.IsActive)
	assert.False(t, resp.FaceEnrolled)

	_, err = svc.CreateEmployee(context.Background(), employee.CreateEmployeeRequest{
		EmployeeCode: "EMP-001",
		FullName:     "Other",
		Email:        "other@example.com",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)

	_, err = svc.CreateEmployee(context.Background(), employee.CreateEmployeeRequest{EmployeeCode: "x"})
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
}

func TestGetByUserID(t *testing.T) {
	userID := "user-7"
	repo := &memoryEmployees{items: map[string]employee.Employee{
		employeeOne: {ID: employeeOne, UserID: &userID, EmployeeCode: "EMP-001", IsActive: true},
	}}
	svc, _ := newTestService(repo, &stubRecognizer{})

	resp, err := svc.GetByUserID(context.Background(), "user-7")
	require.NoError(t, err)
	assert.Equal(t, employeeOne, resp.ID)

	_, err = svc.GetByUserID(context.Background(), "user-8")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestDeactivateEmployee(t *testing.T) {
	repo := &memoryEmployees{items: map[string]employee.Employee{
		employeeOne: {ID: employeeOne, IsActive: true},
	}}
	svc, _ := newTestService(repo, &stubRecognizer{})

	resp, err := svc.DeactivateEmployee(context.Background(), employeeOne)
	require.NoError(t, err)
	assert.False(t, resp.IsActive)
	assert.False(t, repo.items[employeeOne].IsActive)

	_, err = svc.DeactivateEmployee(context.Background(), employeeOne)
	assert.ErrorIs(t, err, employee.ErrEmployeeAlreadyInactive)

	_, err = svc.DeactivateEmployee(context.Background(), "0f6b2d4e-8a1c-4e3f-b5d7-9c2e4a6f8b10")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestEnrollFace_ReplacesToken(t *testing.T) {
	old := "tok-old"
	repo := &memoryEmployees{items: map[string]employee.Employee{
		employeeOne: {ID: employeeOne, IsActive: true, FaceToken: &old},
	}}
	svc, files := newTestService(repo, &stubRecognizer{token: "tok-new"})

	resp, err := svc.EnrollFace(context.Background(), employee.EnrollFaceRequest{EmployeeID: employeeOne, Photo: samplePhoto()})
	require.NoError(t, err)
	assert.True(t, resp.FaceEnrolled)
	require.NotNil(t, resp.FaceEnrolledAt)
	assert.Equal(t, "2025-01-10 01:00:00", *resp.FaceEnrolledAt)
	assert.Equal(t, "tok-new", *repo.items[employeeOne].FaceToken)
	assert.Equal(t, 1, files.enrolled)
}

func TestEnrollFace_Failures(t *testing.T) {
	repo := &memoryEmployees{items: map[string]employee.Employee{
		employeeOne: {ID: employeeOne, IsActive: true},
		employeeTwo: {ID: employeeTwo, IsActive: false},
	}}

	svc, _ := newTestService(repo, &stubRecognizer{err: face.ErrNoFaceDetected})
	_, err := svc.EnrollFace(context.Background(), employee.EnrollFaceRequest{EmployeeID: employeeOne, Photo: samplePhoto()})
	assert.ErrorIs(t, err, face.ErrNoFaceDetected)
	assert.Nil(t, repo.items[employeeOne].FaceToken)

	_, err = svc.EnrollFace(context.Background(), employee.EnrollFaceRequest{EmployeeID: employeeTwo, Photo: samplePhoto()})
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)

	_, err = svc.EnrollFace(context.Background(), employee.EnrollFaceRequest{EmployeeID: employeeOne})
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))

	_, err = svc.EnrollFace(context.Background(), employee.EnrollFaceRequest{EmployeeID: "emp-1", Photo: samplePhoto()})
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "employee_id must be a valid UUID", verrs.ToMap()["employee_id"])
}

func TestListEmployees(t *testing.T) {
	repo := &memoryEmployees{items: map[string]employee.Employee{
		employeeOne: {ID: employeeOne, IsActive: true},
		employeeTwo: {ID: employeeTwo, IsActive: false},
	}}
	svc, _ := newTestService(repo, &stubRecognizer{})

	active := true
	resp, err := svc.ListEmployees(context.Background(), employee.EmployeeFilter{IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.TotalCount)
	assert.Equal(t, validator.DefaultPageLimit, resp.Limit)
	assert.Equal(t, "1-1 of 1", resp.Showing)

	_, err = svc.ListEmployees(context.Background(), employee.EmployeeFilter{Limit: 1000})
	assert.Error(t, err)
}
