package user

import "errors"

var (
	ErrAdminAccessRequired     = errors.New("admin access required")
	ErrEmployeeProfileRequired = errors.New("account is not linked to an employee")
	ErrForbidden               = errors.New("not allowed to access this resource")
)
