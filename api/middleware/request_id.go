package middleware

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// acceptedRequestID bounds what a client may hand us as a correlation id.
var acceptedRequestID = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,64}$`)

// RequestID tags each request with a correlation id. A well-formed id sent
// by the client (for example the storefront's own) is kept; anything else
// is replaced by a fresh uuid. The id is echoed on the response and added
// to the request's log fields.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if !acceptedRequestID.MatchString(id) {
				id = uuid.NewString()
				r.Header.Set(requestIDHeader, id)
			}
			w.Header().Set(requestIDHeader, id)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, id)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
