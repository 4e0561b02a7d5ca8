package employee

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEmployeeID = "8d2f6c1e-4b7a-4f0e-9c3d-5a1b2e7f9c40"

func TestCreateEmployeeRequest_Validate(t *testing.T) {
	req := CreateEmployeeRequest{
		EmployeeCode: " EMP-001 ",
		FullName:     "Sari Wulandari",
		Email:        " Sari@Example.COM ",
	}
	require.NoError(t, req.Validate())
	assert.Equal(t, "EMP-001", req.EmployeeCode)
	assert.Equal(t, "sari@example.com", req.Email)
}

func TestCreateEmployeeRequest_Invalid(t *testing.T) {
	blank := " "
	req := CreateEmployeeRequest{EmployeeCode: "E!", Email: "nope", UserID: &blank}

	err := req.Validate()
	var errs validator.ValidationErrors
	require.True(t, errors.As(err, &errs))

	m := errs.ToMap()
	assert.Equal(t, "full_name is required", m["full_name"])
	assert.Equal(t, "email must be a valid email address", m["email"])
	assert.Contains(t, m, "employee_code")
	assert.Contains(t, m, "user_id")
}

func TestUpdateEmployeeRequest_RequiresAField(t *testing.T) {
	req := UpdateEmployeeRequest{ID: testEmployeeID}
	err := req.Validate()
	var errs validator.ValidationErrors
	require.True(t, errors.As(err, &errs))
	assert.Contains(t, errs.ToMap(), "body")
}

func TestUpdateEmployeeRequest_MalformedID(t *testing.T) {
	name := "Sari"
	req := UpdateEmployeeRequest{ID: "emp-1", FullName: &name}
	err := req.Validate()
	var errs validator.ValidationErrors
	require.True(t, errors.As(err, &errs))
	assert.Equal(t, "id must be a valid UUID", errs.ToMap()["id"])
}

func TestEnrollFaceRequest_Validate(t *testing.T) {
	req := EnrollFaceRequest{EmployeeID: "abc"}
	err := req.Validate()
	var errs validator.ValidationErrors
	require.True(t, errors.As(err, &errs))
	assert.Equal(t, "employee_id must be a valid UUID", errs.ToMap()["employee_id"])
	assert.Contains(t, errs.ToMap(), "photo")
}

func TestEmployee_CanRecordAttendance(t *testing.T) {
	token := "tok"
	assert.ErrorIs(t, Employee{IsActive: false, FaceToken: &token}.CanRecordAttendance(), ErrEmployeeInactive)
	assert.ErrorIs(t, Employee{IsActive: true}.CanRecordAttendance(), ErrFaceNotEnrolled)
	assert.NoError(t, Employee{IsActive: true, FaceToken: &token}.CanRecordAttendance())
}

func TestNewEmployeeResponse_HidesToken(t *testing.T) {
	token := "secret-token"
	resp := NewEmployeeResponse(Employee{ID: "emp-1", IsActive: true, FaceToken: &token})
	assert.True(t, resp.FaceEnrolled)

	b, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(b), token)
}
