package auth

// Role represents an operations role.
type Role string

const (
	RoleCleaner Role = "cleaner"
	RoleButler  Role = "butler"
	RoleHost    Role = "host"
	RoleAdmin   Role = "admin"
)

// NormalizeRole validates and normalizes a role string.
func NormalizeRole(value string) (Role, bool) {
	switch Role(value) {
	case RoleCleaner, RoleButler, RoleHost, RoleAdmin:
		return Role(value), true
	default:
		return "", false
	}
}

// NormalizeRoles drops unknown roles and normalizes the rest.
func NormalizeRoles(values []string) []Role {
	roles := make([]Role, 0, len(values))
	for _, value := range values {
		if role, ok := NormalizeRole(value); ok {
			roles = append(roles, role)
		}
	}
	return roles
}

// RoleAtLeast returns true when any held role satisfies the required role.
func RoleAtLeast(roles []Role, required Role) bool {
	for _, role := range roles {
		if roleRank(role) >= roleRank(required) {
			return true
		}
	}
	return false
}

// HasRole reports whether the exact role is held.
func HasRole(roles []Role, wanted Role) bool {
	for _, role := range roles {
		if role == wanted {
			return true
		}
	}
	return false
}

func roleRank(role Role) int {
	switch role {
	case RoleCleaner:
		return 1
	case RoleButler:
		return 2
	case RoleHost:
		return 3
	case RoleAdmin:
		return 4
	default:
		return 0
	}
}
