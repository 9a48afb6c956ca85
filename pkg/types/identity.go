package types

import (
	"time"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/enums"
)

// Identity is a user or admin account. The password hash never leaves the
// store.
type Identity struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	Role      enums.Role `json:"role"`
	IsAdmin   bool       `json:"isAdmin,omitempty"`
	IsActive  bool       `json:"isActive"`
	IsBlocked bool       `json:"isBlocked"`
	CreatedAt time.Time  `json:"createdAt"`
}

// HasAdminRights is true for the admin role or the legacy admin flag.
func (i Identity) HasAdminRights() bool {
	return i.Role == enums.RoleAdmin || i.IsAdmin
}

// Status collapses the active and blocked flags.
func (i Identity) Status() enums.AccountStatus {
	return enums.AccountStatusOf(i.IsActive, i.IsBlocked)
}

// NewIdentity is the registration payload.
type NewIdentity struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,in_phone"`
}

// IdentityPatch is a partial update. Nil fields are left untouched.
type IdentityPatch struct {
	Name      *string     `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Phone     *string     `json:"phone,omitempty" validate:"omitempty,in_phone"`
	Role      *enums.Role `json:"role,omitempty"`
	IsActive  *bool       `json:"isActive,omitempty"`
	IsBlocked *bool       `json:"isBlocked,omitempty"`
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
