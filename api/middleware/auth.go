package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/api/responses"
	pkgAuth "github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/auth"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/config"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/enums"
	pkgerrors "github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/errors"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/logger"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
)

// PrincipalLookup loads the stored account behind a token's user id.
type PrincipalLookup interface {
	Principal(ctx context.Context, userID string) (types.Identity, error)
}

// Auth validates a bearer token when one is sent and seeds the request
// context with its claims. Requests without a token pass through
// anonymously; RequireAuth rejects them where a caller is needed.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseSessionToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithPrincipal(r.Context(), claims.UserID, claims.Role)
			ctx = context.WithValue(ctx, ctxEmail, claims.Email)
			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID)
				ctx = logg.WithActorRole(ctx, string(claims.Role))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests. With users set, the caller's
// account is reloaded: blocked or deleted accounts are refused and the
// stored role replaces the one in the token.
func RequireAuth(users PrincipalLookup, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID := UserIDFromContext(ctx)
			if userID == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotAuthenticated, "Please login to continue"))
				return
			}
			if users == nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.Principal(ctx, userID)
			if err != nil {
				if pkgerrors.Is(err, pkgerrors.CodeNotFound) {
					err = pkgerrors.New(pkgerrors.CodeNotAuthenticated, "Please login to continue")
				}
				responses.WriteError(ctx, logg, w, err)
				return
			}
			if user.IsBlocked {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeAccountBlocked, "Your account has been blocked. Please contact support."))
				return
			}

			role := user.Role
			if user.HasAdminRights() {
				role = enums.RoleAdmin
			}
			ctx = WithPrincipal(ctx, user.ID, role)
			ctx = context.WithValue(ctx, ctxEmail, user.Email)
			if logg != nil {
				ctx = logg.WithActorRole(ctx, string(role))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
