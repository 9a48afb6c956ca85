package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/enums"
)

// SessionPayload captures the data available when minting a session token.
type SessionPayload struct {
	UserID string
	Email  string
	Role   enums.Role
	JTI    string
}

// SessionClaims is the typed JWT handed to a client after login.
type SessionClaims struct {
	UserID string     `json:"uid"`
	Email  string     `json:"email,omitempty"`
	Role   enums.Role `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the token was minted for an admin account.
func (c *SessionClaims) IsAdmin() bool {
	return c != nil && c.Role == enums.RoleAdmin
}
