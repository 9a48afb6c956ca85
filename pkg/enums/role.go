package enums

import (
	"fmt"
	"strings"
)

// Role is the account role stored on an identity.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleUser     Role = "user"
	RoleCustomer Role = "customer"
)

var validRoles = []Role{
	RoleAdmin,
	RoleUser,
	RoleCustomer,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsShopper reports whether the role is one of the non-admin shopper roles.
func (r Role) IsShopper() bool {
	return r == RoleUser || r == RoleCustomer
}

// ParseRole converts raw input into a Role. Matching ignores case.
func ParseRole(value string) (Role, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validRoles {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
