package auth

// Role is carried in the "role" claim of access tokens.
type Role string

const (
	RoleOwner    Role = "owner"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// CanRunPayroll reports whether the role may calculate salaries.
func (r Role) CanRunPayroll() bool {
	return r == RoleOwner || r == RoleManager
}
