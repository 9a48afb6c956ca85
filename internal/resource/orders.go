package resource

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
)

// ListOrders returns orders, restricted to one owner when userID is set.
func (c *Client) ListOrders(ctx context.Context, userID string) ([]types.Order, error) {
	var query url.Values
	if userID = strings.TrimSpace(userID); userID != "" {
		query = url.Values{"userId": []string{userID}}
	}
	var out []types.Order
	err := c.do(ctx, call{method: http.MethodGet, resource: resourceOrders, path: resourceOrders, query: query, out: &out})
	return out, err
}

func (c *Client) GetOrder(ctx context.Context, id string) (types.Order, error) {
	var out types.Order
	if err := requireID(resourceOrders, id); err != nil {
		return out, err
	}
	err := c.do(ctx, call{method: http.MethodGet, resource: resourceOrders, path: itemPath(resourceOrders, id), out: &out})
	return out, err
}

func (c *Client) CreateOrder(ctx context.Context, order types.Order) (types.Order, error) {
	var out types.Order
	err := c.do(ctx, call{method: http.MethodPost, resource: resourceOrders, path: resourceOrders, body: order, out: &out})
	return out, err
}

// ReplaceOrder PUTs the full order record.
func (c *Client) ReplaceOrder(ctx context.Context, id string, order types.Order) (types.Order, error) {
	var out types.Order
	if err := requireID(resourceOrders, id); err != nil {
		return out, err
	}
	err := c.do(ctx, call{method: http.MethodPut, resource: resourceOrders, path: itemPath(resourceOrders, id), body: order, out: &out})
	return out, err
}
