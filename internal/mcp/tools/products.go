package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yinwusaya/zentao-mcp/pkg/client"
)

// ProductsInput is the input for get_products.
type ProductsInput struct{}

// ProductsOutput is the output for get_products.
type ProductsOutput struct {
	Total    int              `json:"total"`
	Products []client.Product `json:"products,omitzero"`
}

// ToolGetProducts lists all products in the tracker.
func ToolGetProducts(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ProductsInput) (*sdkmcp.CallToolResult, ProductsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ProductsInput) (*sdkmcp.CallToolResult, ProductsOutput, error) {
		products, err := d.Client.GetProducts(ctx)
		if err != nil {
			return nil, ProductsOutput{}, WrapZentaoError(err)
		}

		return nil, ProductsOutput{
			Total:    products.Total,
			Products: products.Products,
		}, nil
	}
}
