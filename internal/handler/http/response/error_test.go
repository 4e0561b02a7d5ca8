package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/face"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/photo"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", validator.ValidationErrors{{Field: "latitude", Message: "latitude must be between -90 and 90"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"admin only", user.ErrAdminAccessRequired, http.StatusForbidden, "FORBIDDEN"},
		{"bad photo", photo.ErrUnsupportedImage, http.StatusBadRequest, "BAD_REQUEST"},
		{"employee missing", employee.ErrEmployeeNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"wrapped not found", fmt.Errorf("approve: %w", leave.ErrLeaveRequestNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"duplicate check-in", attendance.ErrDuplicateCheckIn, http.StatusConflict, "CONFLICT"},
		{"overlap", leave.ErrOverlappingLeave, http.StatusConflict, "CONFLICT"},
		{"face mismatch", attendance.ErrFaceVerificationFailed, http.StatusUnprocessableEntity, "FACE_VERIFICATION_FAILED"},
		{"no face", face.ErrNoFaceDetected, http.StatusUnprocessableEntity, "NO_FACE_DETECTED"},
		{"face service down", face.ErrFaceServiceUnavailable, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"unknown", errors.New("pq: connection refused"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			body := decode(t, rec)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

func TestHandleError_InsufficientBalanceDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, fmt.Errorf("approve: %w", &leave.InsufficientBalanceError{Remaining: 2, Requested: 3}))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode(t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INSUFFICIENT_BALANCE", body.Error.Code)
	assert.Equal(t, map[string]string{"remaining": "2", "needed": "3"}, body.Error.Details)
}

func TestHandleError_InternalMessageIsGeneric(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, errors.New("password=secret"))

	body := decode(t, rec)
	require.NotNil(t, body.Error)
	assert.NotContains(t, body.Error.Message, "secret")
}

func TestWriteJSON_EncodingFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, map[string]interface{}{"bad": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, "ENCODING_ERROR", body.Error.Code)
}
