package resource

import (
	"context"
	"net/http"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
)

func (c *Client) ListUsers(ctx context.Context) ([]types.Identity, error) {
	var out []types.Identity
	err := c.do(ctx, call{method: http.MethodGet, resource: resourceUsers, path: resourceUsers, out: &out})
	return out, err
}

func (c *Client) GetUser(ctx context.Context, id string) (types.Identity, error) {
	var out types.Identity
	if err := requireID(resourceUsers, id); err != nil {
		return out, err
	}
	err := c.do(ctx, call{method: http.MethodGet, resource: resourceUsers, path: itemPath(resourceUsers, id), out: &out})
	return out, err
}

// CreateUser registers a new identity. The store hashes the password and
// applies the account defaults.
func (c *Client) CreateUser(ctx context.Context, in types.NewIdentity) (types.Identity, error) {
	var out types.Identity
	err := c.do(ctx, call{method: http.MethodPost, resource: resourceUsers, path: resourceUsers, body: in, out: &out})
	return out, err
}

func (c *Client) PatchUser(ctx context.Context, id string, patch types.IdentityPatch) (types.Identity, error) {
	var out types.Identity
	if err := requireID(resourceUsers, id); err != nil {
		return out, err
	}
	err := c.do(ctx, call{method: http.MethodPatch, resource: resourceUsers, path: itemPath(resourceUsers, id), body: patch, out: &out})
	return out, err
}
