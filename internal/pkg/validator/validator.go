package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	playground "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// OrNil returns nil for an empty list so callers can `return errs.OrNil()`.
func (v ValidationErrors) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// Single builds a one-field ValidationErrors.
func Single(field, message string) ValidationErrors {
	return ValidationErrors{{Field: field, Message: message}}
}

var (
	structValidator     *playground.Validate
	structValidatorOnce sync.Once
)

func engine() *playground.Validate {
	structValidatorOnce.Do(func() {
		structValidator = playground.New(playground.WithRequiredStructEnabled())
		structValidator.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return structValidator
}

// Struct runs the `validate` struct tags and converts failures into
// ValidationErrors keyed by the json field name.
func Struct(s interface{}) error {
	err := engine().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{
			Field:   fe.Field(),
			Message: describe(fe),
		})
	}
	return errs
}

func describe(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "latitude":
		return fe.Field() + " must be between -90 and 90"
	case "longitude":
		return fe.Field() + " must be between -180 and 180"
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return fe.Field() + " must be a valid email address"
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", fe.Field(), fe.Param())
	default:
		return fe.Field() + " is invalid"
	}
}

// ValidateCoordinates is the single coordinate check shared by check-in,
// check-out and office settings.
func ValidateCoordinates(latField string, lat float64, lonField string, lon float64) ValidationErrors {
	var errs ValidationErrors
	if lat < -90 || lat > 90 {
		errs = append(errs, ValidationError{
			Field:   latField,
			Message: latField + " must be between -90 and 90",
		})
	}
	if lon < -180 || lon > 180 {
		errs = append(errs, ValidationError{
			Field:   lonField,
			Message: lonField + " must be between -180 and 180",
		})
	}
	return errs
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsValidUUID accepts only the canonical 36-character hyphenated form that
// Postgres stores for UUID columns.
func IsValidUUID(s string) bool {
	return len(s) == 36 && uuid.Validate(s) == nil
}

// ValidateID checks a required identifier column.
func ValidateID(field, id string) ValidationErrors {
	if IsEmpty(id) {
		return Single(field, field+" is required")
	}
	if !IsValidUUID(id) {
		return Single(field, field+" must be a valid UUID")
	}
	return nil
}

// ValidateOptionalID checks an identifier filter that may be omitted.
func ValidateOptionalID(field string, id *string) ValidationErrors {
	if id == nil || *id == "" {
		return nil
	}
	return ValidateID(field, *id)
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validation
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

var employeeCodeRegex = regexp.MustCompile(`^[A-Za-z0-9-]{3,20}$`)

func IsValidEmployeeCode(code string) bool {
	return employeeCodeRegex.MatchString(code)
}

// IsValidTimezone reports whether name is a loadable IANA zone.
func IsValidTimezone(name string) bool {
	if IsEmpty(name) {
		return false
	}
	_, err := time.LoadLocation(name)
	return err == nil
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// NormalizePage applies the default page and limit and rejects out-of-range
// values.
func NormalizePage(page, limit *int) ValidationErrors {
	var errs ValidationErrors
	if *page < 0 {
		errs = append(errs, ValidationError{Field: "page", Message: "page must be a positive number"})
	}
	if *page == 0 {
		*page = 1
	}
	if *limit < 0 {
		errs = append(errs, ValidationError{Field: "limit", Message: "limit must be a positive number"})
	}
	if *limit == 0 {
		*limit = DefaultPageLimit
	}
	if *limit > MaxPageLimit {
		errs = append(errs, ValidationError{Field: "limit", Message: "limit must not exceed 100"})
	}
	return errs
}

// ValidateDateRange parses optional YYYY-MM-DD bounds and checks their order.
func ValidateDateRange(startField string, start *string, endField string, end *string) ValidationErrors {
	var errs ValidationErrors
	var startOK, endOK bool
	var startDate, endDate time.Time

	if start != nil && *start != "" {
		if startDate, startOK = IsValidDate(*start); !startOK {
			errs = append(errs, ValidationError{Field: startField, Message: startField + " must be in YYYY-MM-DD format"})
		}
	}
	if end != nil && *end != "" {
		if endDate, endOK = IsValidDate(*end); !endOK {
			errs = append(errs, ValidationError{Field: endField, Message: endField + " must be in YYYY-MM-DD format"})
		}
	}
	if startOK && endOK && endDate.Before(startDate) {
		errs = append(errs, ValidationError{Field: endField, Message: endField + " must not be before " + startField})
	}
	return errs
}
