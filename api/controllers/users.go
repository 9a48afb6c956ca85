package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/api/responses"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/api/validators"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/internal/store"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/logger"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
)

type UserService interface {
	Register(ctx context.Context, in types.NewIdentity) (types.Identity, error)
	Get(ctx context.Context, actor store.Actor, id string) (types.Identity, error)
	List(ctx context.Context, actor store.Actor) ([]types.Identity, error)
	Patch(ctx context.Context, actor store.Actor, id string, patch types.IdentityPatch) (types.Identity, error)
}

// UserCreate is public registration.
func UserCreate(svc UserService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in types.NewIdentity
		if err := validators.DecodeJSONBody(r, &in); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.Register(r.Context(), in)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteStatus(w, http.StatusCreated, user)
	}
}

func UserList(svc UserService, enforceRoles bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.List(r.Context(), actorFrom(r, enforceRoles))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, users)
	}
}

func UserGet(svc UserService, enforceRoles bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := svc.Get(r.Context(), actorFrom(r, enforceRoles), chi.URLParam(r, "userId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, user)
	}
}

func UserPatch(svc UserService, enforceRoles bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch types.IdentityPatch
		if err := validators.DecodeJSONBody(r, &patch); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.Patch(r.Context(), actorFrom(r, enforceRoles), chi.URLParam(r, "userId"), patch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, user)
	}
}
