// Package store is the server side of the flat resource store: gorm
// repositories for users, products, cart rows and orders, and the services
// the HTTP controllers call.
package store

import (
	"context"
	"strings"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/db"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/enums"
	pkgerrors "github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/errors"
	"gorm.io/gorm"
)

// base binds a repository to a gorm connection.
type base struct {
	db *gorm.DB
}

func (b base) conn(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Actor is the caller a request runs as. Unrestricted is set when role
// enforcement is switched off.
type Actor struct {
	UserID       string
	Email        string
	Role         enums.Role
	Unrestricted bool
}

// Admin reports whether the actor may act on any resource.
func (a Actor) Admin() bool {
	return a.Unrestricted || a.Role == enums.RoleAdmin
}

// Owns reports whether the actor may act on resources belonging to userID.
func (a Actor) Owns(userID string) bool {
	return a.Admin() || (a.UserID != "" && a.UserID == userID)
}

// OwnsOrder reports whether the actor may see an order placed under userID
// or shipped to shippingEmail.
func (a Actor) OwnsOrder(userID, shippingEmail string) bool {
	if a.Owns(userID) {
		return true
	}
	email := normalizeEmail(a.Email)
	return email != "" && email == normalizeEmail(shippingEmail)
}

func denied() error {
	return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient permissions")
}

// translate maps persistence failures onto typed errors. Typed errors pass
// through untouched.
func translate(err error, resource string) error {
	if err == nil {
		return nil
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, resource+" not found")
	}
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, resource+" already exists")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database error")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isNotFound(err error) bool { return db.IsNotFound(err) }

func isUniqueViolation(err error) bool { return db.IsUniqueViolation(err, "") }
