package resource

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
)

// ListCartRows returns every cart row owned by userID.
func (c *Client) ListCartRows(ctx context.Context, userID string) ([]types.CartRow, error) {
	if err := requireID(resourceUsers, userID); err != nil {
		return nil, err
	}
	var out []types.CartRow
	err := c.do(ctx, call{
		method:   http.MethodGet,
		resource: resourceCart,
		path:     resourceCart,
		query:    url.Values{"userId": []string{userID}},
		out:      &out,
	})
	return out, err
}

func (c *Client) CreateCartRow(ctx context.Context, row types.CartRow) (types.CartRow, error) {
	var out types.CartRow
	err := c.do(ctx, call{method: http.MethodPost, resource: resourceCart, path: resourceCart, body: row, out: &out})
	return out, err
}

func (c *Client) PatchCartRow(ctx context.Context, id string, patch types.CartRowPatch) (types.CartRow, error) {
	var out types.CartRow
	if err := requireID(resourceCart, id); err != nil {
		return out, err
	}
	err := c.do(ctx, call{method: http.MethodPatch, resource: resourceCart, path: itemPath(resourceCart, id), body: patch, out: &out})
	return out, err
}

// DeleteCartRow removes one row. A row that is already gone yields NOT_FOUND.
func (c *Client) DeleteCartRow(ctx context.Context, id string) error {
	if err := requireID(resourceCart, id); err != nil {
		return err
	}
	return c.do(ctx, call{method: http.MethodDelete, resource: resourceCart, path: itemPath(resourceCart, id)})
}
