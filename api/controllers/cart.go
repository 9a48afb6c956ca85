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

type CartService interface {
	List(ctx context.Context, actor store.Actor, userID string) ([]types.CartRow, error)
	Create(ctx context.Context, actor store.Actor, row types.CartRow) (types.CartRow, error)
	Patch(ctx context.Context, actor store.Actor, id string, patch types.CartRowPatch) (types.CartRow, error)
	Delete(ctx context.Context, actor store.Actor, id string) error
}

func CartList(svc CartService, enforceRoles bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := validators.QueryString(r, "userId", true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.List(r.Context(), actorFrom(r, enforceRoles), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, rows)
	}
}

func CartCreate(svc CartService, enforceRoles bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in types.CartRow
		if err := validators.DecodeJSONBody(r, &in); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.Create(r.Context(), actorFrom(r, enforceRoles), in)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteStatus(w, http.StatusCreated, row)
	}
}

func CartPatch(svc CartService, enforceRoles bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch types.CartRowPatch
		if err := validators.DecodeJSONBody(r, &patch); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.Patch(r.Context(), actorFrom(r, enforceRoles), chi.URLParam(r, "rowId"), patch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, row)
	}
}

func CartDelete(svc CartService, enforceRoles bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), actorFrom(r, enforceRoles), chi.URLParam(r, "rowId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
