package auth

// UserRole is the user's role
type UserRole string

const (
	// RoleGuest is an unauthenticated or provisional account
	RoleGuest UserRole = "guest"
	// RoleCustomer is a regular customer account
	RoleCustomer UserRole = "customer"
	// RoleAgent is a support agent
	RoleAgent UserRole = "agent"
	// RoleAdmin is an administrator
	RoleAdmin UserRole = "admin"
)

// IsValid checks if the role is one of the predefined valid roles
func (r UserRole) IsValid() bool {
	switch r {
	case RoleGuest, RoleCustomer, RoleAgent, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsAtLeast checks if this role meets the minimum required level
func (r UserRole) IsAtLeast(minRole UserRole) bool {
	roleHierarchy := map[UserRole]int{
		RoleGuest:    0,
		RoleCustomer: 1,
		RoleAgent:    2,
		RoleAdmin:    3,
	}

	currentLevel, exists := roleHierarchy[r]
	if !exists {
		return false
	}

	minLevel, exists := roleHierarchy[minRole]
	if !exists {
		return false
	}

	return currentLevel >= minLevel
}

// GetAllRoles returns all predefined roles in hierarchical order
func GetAllRoles() []UserRole {
	return []UserRole{
		RoleGuest,
		RoleCustomer,
		RoleAgent,
		RoleAdmin,
	}
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, role.IsValid()
}
