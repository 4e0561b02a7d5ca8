package response

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/face"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/photo"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var balanceErr *leave.InsufficientBalanceError
	if errors.As(err, &balanceErr) {
		Rejected(w, "INSUFFICIENT_BALANCE", balanceErr.Error(), map[string]string{
			"remaining": strconv.Itoa(balanceErr.Remaining),
			"needed":    strconv.Itoa(balanceErr.Requested),
		})
		return
	}

	switch {
	// Auth and authorization
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrMissingClaim):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrAdminAccessRequired),
		errors.Is(err, user.ErrEmployeeProfileRequired),
		errors.Is(err, user.ErrForbidden):
		Forbidden(w, err.Error())

	// Malformed input
	case errors.Is(err, photo.ErrMissingPhoto),
		errors.Is(err, photo.ErrPhotoTooLarge),
		errors.Is(err, photo.ErrInvalidEncoding),
		errors.Is(err, photo.ErrUnsupportedImage):
		BadRequest(w, err.Error(), map[string]string{"photo": err.Error()})
	case errors.Is(err, settings.ErrInvalidClockTime),
		errors.Is(err, settings.ErrInvalidTimezone):
		BadRequest(w, err.Error(), nil)

	// Not found
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, settings.ErrSettingsNotFound),
		errors.Is(err, leave.ErrLeaveTypeNotFound),
		errors.Is(err, leave.ErrLeaveRequestNotFound),
		errors.Is(err, leave.ErrLeaveBalanceNotFound),
		errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, err.Error())

	// State conflicts
	case errors.Is(err, attendance.ErrDuplicateCheckIn),
		errors.Is(err, attendance.ErrDuplicateCheckOut),
		errors.Is(err, attendance.ErrNoCheckInFound),
		errors.Is(err, leave.ErrOverlappingLeave),
		errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed),
		errors.Is(err, leave.ErrLeaveTypeInactive),
		errors.Is(err, leave.ErrLeaveTypeNameExists),
		errors.Is(err, employee.ErrEmployeeInactive),
		errors.Is(err, employee.ErrEmployeeAlreadyInactive),
		errors.Is(err, employee.ErrFaceNotEnrolled),
		errors.Is(err, employee.ErrEmployeeCodeExists),
		errors.Is(err, employee.ErrEmailExists),
		errors.Is(err, employee.ErrUserAlreadyLinked):
		Conflict(w, err.Error())

	// Policy rejections
	case errors.Is(err, attendance.ErrFaceVerificationFailed):
		Rejected(w, "FACE_VERIFICATION_FAILED", err.Error(), nil)
	case errors.Is(err, face.ErrNoFaceDetected):
		Rejected(w, "NO_FACE_DETECTED", err.Error(), nil)
	case errors.Is(err, face.ErrMultipleFaces):
		Rejected(w, "MULTIPLE_FACES", err.Error(), nil)
	case errors.Is(err, face.ErrLowQualityPhoto):
		Rejected(w, "LOW_QUALITY_PHOTO", err.Error(), nil)

	// Dependencies
	case errors.Is(err, face.ErrFaceServiceUnavailable):
		ServiceUnavailable(w, err.Error())

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
