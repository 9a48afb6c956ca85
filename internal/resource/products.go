package resource

import (
	"context"
	"net/http"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
)

// ListProducts returns the whole product collection, placeholders included.
func (c *Client) ListProducts(ctx context.Context) ([]types.Product, error) {
	var out []types.Product
	err := c.do(ctx, call{method: http.MethodGet, resource: resourceProducts, path: resourceProducts, out: &out})
	return out, err
}

func (c *Client) GetProduct(ctx context.Context, id string) (types.Product, error) {
	var out types.Product
	if err := requireID(resourceProducts, id); err != nil {
		return out, err
	}
	err := c.do(ctx, call{method: http.MethodGet, resource: resourceProducts, path: itemPath(resourceProducts, id), out: &out})
	return out, err
}

func (c *Client) CreateProduct(ctx context.Context, product types.Product) (types.Product, error) {
	var out types.Product
	err := c.do(ctx, call{method: http.MethodPost, resource: resourceProducts, path: resourceProducts, body: product, out: &out})
	return out, err
}

// ReplaceProduct PUTs the full product record.
func (c *Client) ReplaceProduct(ctx context.Context, id string, product types.Product) (types.Product, error) {
	var out types.Product
	if err := requireID(resourceProducts, id); err != nil {
		return out, err
	}
	err := c.do(ctx, call{method: http.MethodPut, resource: resourceProducts, path: itemPath(resourceProducts, id), body: product, out: &out})
	return out, err
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	if err := requireID(resourceProducts, id); err != nil {
		return err
	}
	return c.do(ctx, call{method: http.MethodDelete, resource: resourceProducts, path: itemPath(resourceProducts, id)})
}
