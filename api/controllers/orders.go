package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/api/responses"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/api/validators"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/internal/store"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/logger"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/pagination"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
)

// NextCursorHeader carries the cursor of the following page.
const NextCursorHeader = "X-Next-Cursor"

type OrderService interface {
	ListPage(ctx context.Context, actor store.Actor, userID string, page pagination.Params) ([]types.Order, string, error)
	Get(ctx context.Context, actor store.Actor, id string) (types.Order, error)
	Create(ctx context.Context, actor store.Actor, order types.Order) (types.Order, error)
	Replace(ctx context.Context, actor store.Actor, id string, order types.Order) (types.Order, error)
}

// OrderList honours ?userId=. Non-admins only ever see their own orders.
// With ?limit= or ?cursor= the body is one page and X-Next-Cursor points at
// the next.
func OrderList(svc OrderService, enforceRoles bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := validators.QueryString(r, "userId", false)
		page, err := validators.PageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orders, next, err := svc.ListPage(r.Context(), actorFrom(r, enforceRoles), userID, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if next != "" {
			w.Header().Set(NextCursorHeader, next)
		}
		responses.WriteJSON(w, orders)
	}
}

func OrderGet(svc OrderService, enforceRoles bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := svc.Get(r.Context(), actorFrom(r, enforceRoles), chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, order)
	}
}

func OrderCreate(svc OrderService, enforceRoles bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in types.Order
		if err := validators.DecodeJSONBody(r, &in); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Create(r.Context(), actorFrom(r, enforceRoles), in)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteStatus(w, http.StatusCreated, order)
	}
}

// OrderReplace is the admin PUT; the status change is checked against the
// order status machine.
func OrderReplace(svc OrderService, enforceRoles bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in types.Order
		if err := validators.DecodeJSONBody(r, &in); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Replace(r.Context(), actorFrom(r, enforceRoles), chi.URLParam(r, "orderId"), in)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, order)
	}
}
