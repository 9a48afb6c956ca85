package resource

import (
	"context"
	"net/http"
	"strings"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
)

// Session is the store's answer to a successful credential check.
type Session = types.LoginResult[types.Identity]

// Authenticate verifies one credential pair against the store. A wrong pair
// fails with INVALID_CREDENTIALS and a blocked account with ACCOUNT_BLOCKED.
func (c *Client) Authenticate(ctx context.Context, email, password string) (Session, error) {
	var out Session
	err := c.do(ctx, call{
		method:   http.MethodPost,
		resource: resourceAuth,
		path:     "auth/login",
		body: types.Credentials{
			Email:    strings.TrimSpace(email),
			Password: password,
		},
		out: &out,
	})
	return out, err
}
