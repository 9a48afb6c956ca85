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

type ProductService interface {
	List(ctx context.Context) ([]types.Product, error)
	Get(ctx context.Context, id string) (types.Product, error)
	Create(ctx context.Context, actor store.Actor, product types.Product) (types.Product, error)
	Replace(ctx context.Context, actor store.Actor, id string, product types.Product) (types.Product, error)
	Delete(ctx context.Context, actor store.Actor, id string) error
}

// ProductList returns every product, placeholders included; shoppers'
// clients filter them.
func ProductList(svc ProductService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, products)
	}
}

func ProductGet(svc ProductService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := svc.Get(r.Context(), chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, product)
	}
}

func ProductCreate(svc ProductService, enforceRoles bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in types.Product
		if err := validators.DecodeJSONBody(r, &in); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Create(r.Context(), actorFrom(r, enforceRoles), in)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteStatus(w, http.StatusCreated, product)
	}
}

func ProductReplace(svc ProductService, enforceRoles bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in types.Product
		if err := validators.DecodeJSONBody(r, &in); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Replace(r.Context(), actorFrom(r, enforceRoles), chi.URLParam(r, "productId"), in)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, product)
	}
}

func ProductDelete(svc ProductService, enforceRoles bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), actorFrom(r, enforceRoles), chi.URLParam(r, "productId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
