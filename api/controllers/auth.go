package controllers

import (
	"context"
	"net/http"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/api/responses"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/api/validators"
	pkgerrors "github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/errors"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/logger"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
)

type Authenticator interface {
	Login(ctx context.Context, creds types.Credentials) (types.LoginResult[types.Identity], error)
}

// AuthLogin checks one credential pair and returns {token, expiresAt, user}.
func AuthLogin(svc Authenticator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var creds types.Credentials
		if err := validators.DecodeJSONBody(r, &creds); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), creds)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, result)
	}
}
