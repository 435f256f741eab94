package domain

// Role enumerates the acting principal's role. It is resolved by the caller
// (token claims) and passed explicitly into every mutating operation.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleSupport  Role = "SUPPORT"
	RoleManager  Role = "MANAGER"
	RoleAdmin    Role = "ADMIN"
)

// IsStaff reports whether the role belongs to back-office personnel.
func (r Role) IsStaff() bool {
	return r == RoleSupport || r == RoleManager || r == RoleAdmin
}

// ValidRole reports whether the value is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleCustomer, RoleSupport, RoleManager, RoleAdmin:
		return true
	}
	return false
}
