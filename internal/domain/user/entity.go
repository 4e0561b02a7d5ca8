package user

type Role string

const (
	RoleAdmin    Role = "admin"    // HR administrator - manages employees, settings and approvals
	RoleEmployee Role = "employee" // Regular employee - checks in/out and requests leave
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// Principal is the authenticated caller as carried by the access token.
type Principal struct {
	UserID     string
	EmployeeID string
	Role       Role
}

// IsAdmin checks if the caller can manage the organization
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// HasEmployeeProfile checks if the caller is linked to an employee record
func (p Principal) HasEmployeeProfile() bool {
	return p.EmployeeID != ""
}
