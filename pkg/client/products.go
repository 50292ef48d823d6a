package client

import (
	"context"
	"net/http"
)

// GetProducts lists all products visible to the authenticated account.
func (c *Client) GetProducts(ctx context.Context) (*ProductList, error) {
	var products ProductList
	if err := c.do(ctx, http.MethodGet, "/products", nil, nil, &products); err != nil {
		return nil, err
	}
	return &products, nil
}
