package controllers

import (
	"net/http"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/api/middleware"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/internal/store"
)

// actorFrom builds the store actor for the request. With role enforcement
// off an authenticated caller acts unrestricted.
func actorFrom(r *http.Request, enforceRoles bool) store.Actor {
	ctx := r.Context()
	actor := store.Actor{
		UserID: middleware.UserIDFromContext(ctx),
		Email:  middleware.EmailFromContext(ctx),
		Role:   middleware.RoleFromContext(ctx),
	}
	if !enforceRoles && actor.UserID != "" {
		actor.Unrestricted = true
	}
	return actor
}
