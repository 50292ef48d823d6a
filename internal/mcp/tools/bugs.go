package tools

import (
	"context"
	"net/url"
	"strconv"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yinwusaya/zentao-mcp/pkg/client"
)

// BugsByProductInput is the input for get_bugs_by_product.
type BugsByProductInput struct {
	ProductID int `json:"productId" jsonschema:"required,Product ID"`
	Page      int `json:"page,omitempty" jsonschema:"Page number"`
	Limit     int `json:"limit,omitempty" jsonschema:"Entries per page"`
}

// BugsByProductOutput is the output for get_bugs_by_product.
type BugsByProductOutput struct {
	ProductID int                 `json:"productId"`
	Page      int                 `json:"page"`
	Total     int                 `json:"total"`
	Limit     int                 `json:"limit"`
	Bugs      []client.BugSummary `json:"bugs,omitzero"`
}

// ToolGetBugsByProduct lists the bugs of one product.
func ToolGetBugsByProduct(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input BugsByProductInput) (*sdkmcp.CallToolResult, BugsByProductOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input BugsByProductInput) (*sdkmcp.CallToolResult, BugsByProductOutput, error) {
		if input.ProductID <= 0 {
			return nil, BugsByProductOutput{}, ErrInvalidInput("productId is required")
		}

		bugs, err := d.Client.GetBugsByProduct(ctx, input.ProductID, client.BugListOptions{
			Page:  input.Page,
			Limit: input.Limit,
		})
		if err != nil {
			return nil, BugsByProductOutput{}, WrapZentaoError(err)
		}

		return nil, BugsByProductOutput{
			ProductID: input.ProductID,
			Page:      bugs.Page,
			Total:     bugs.Total,
			Limit:     bugs.Limit,
			Bugs:      bugs.Bugs,
		}, nil
	}
}

// ViewBugsInput is the input for view_bugs. All filters are optional and
// passed through to the tracker unchanged.
type ViewBugsInput struct {
	ProductID int    `json:"productId,omitempty" jsonschema:"Filter by product ID"`
	ProjectID int    `json:"projectId,omitempty" jsonschema:"Filter by project ID"`
	UserID    int    `json:"userId,omitempty" jsonschema:"Filter by user ID"`
	Status    string `json:"status,omitempty" jsonschema:"Filter by bug status (e.g. active, resolved, closed)"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Max bugs to return"`
}

// ViewBugsOutput is the output for view_bugs.
type ViewBugsOutput struct {
	Query ViewBugsInput       `json:"query"`
	Count int                 `json:"count"`
	Page  int                 `json:"page"`
	Total int                 `json:"total"`
	Limit int                 `json:"limit"`
	Bugs  []client.BugSummary `json:"bugs,omitzero"`
}

// ToolViewBugs lists bugs across the tracker with optional filters.
func ToolViewBugs(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ViewBugsInput) (*sdkmcp.CallToolResult, ViewBugsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ViewBugsInput) (*sdkmcp.CallToolResult, ViewBugsOutput, error) {
		query := url.Values{}
		if input.ProductID > 0 {
			query.Set("productId", strconv.Itoa(input.ProductID))
		}
		if input.ProjectID > 0 {
			query.Set("projectId", strconv.Itoa(input.ProjectID))
		}
		if input.UserID > 0 {
			query.Set("userId", strconv.Itoa(input.UserID))
		}
		if input.Status != "" {
			query.Set("status", input.Status)
		}
		if input.Limit > 0 {
			query.Set("limit", strconv.Itoa(input.Limit))
		}

		bugs, err := d.Client.GetBugs(ctx, query)
		if err != nil {
			return nil, ViewBugsOutput{}, WrapZentaoError(err)
		}

		return nil, ViewBugsOutput{
			Query: input,
			Count: len(bugs.Bugs),
			Page:  bugs.Page,
			Total: bugs.Total,
			Limit: bugs.Limit,
			Bugs:  bugs.Bugs,
		}, nil
	}
}
