package settings

import "errors"

var (
	ErrSettingsNotFound = errors.New("office settings have not been configured")
	ErrInvalidClockTime = errors.New("time must be in HH:MM format")
	ErrInvalidTimezone  = errors.New("unknown timezone")
)
