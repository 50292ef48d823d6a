package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yinwusaya/zentao-mcp/pkg/client"
)

// resolvedDateLayout is the timestamp format the tracker expects.
const resolvedDateLayout = "2006-01-02 15:04:05"

// ResolveBugInput is the input for resolve_bug.
type ResolveBugInput struct {
	BugID         int    `json:"bugId" jsonschema:"required,Bug ID"`
	Resolution    string `json:"resolution" jsonschema:"required,Resolution: bydesign | duplicate | external | fixed | notrepro | postponed | willnotfix | tostory"`
	DuplicateBug  int    `json:"duplicateBug,omitempty" jsonschema:"Duplicate bug ID, required when resolution is duplicate"`
	ResolvedBuild any    `json:"resolvedBuild,omitempty" jsonschema:"Build ID, or trunk for the main branch (default: trunk)"`
	ResolvedDate  string `json:"resolvedDate,omitempty" jsonschema:"Resolution time, YYYY-MM-DD HH:MM:SS (default: now)"`
	AssignedTo    string `json:"assignedTo,omitempty" jsonschema:"Account to assign the bug to"`
	Comment       string `json:"comment,omitempty" jsonschema:"Comment"`
}

// ResolveBugOutput is the output for resolve_bug.
type ResolveBugOutput struct {
	Success bool           `json:"success"`
	BugID   int            `json:"bugId"`
	Result  map[string]any `json:"result,omitzero"`
}

// ToolResolveBug marks a bug resolved in the tracker. This changes the
// bug's tracker state only; it does not touch any code.
func ToolResolveBug(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ResolveBugInput) (*sdkmcp.CallToolResult, ResolveBugOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ResolveBugInput) (*sdkmcp.CallToolResult, ResolveBugOutput, error) {
		if input.BugID <= 0 {
			return nil, ResolveBugOutput{}, ErrInvalidInput("bugId is required")
		}
		if input.Resolution == "" {
			return nil, ResolveBugOutput{}, ErrInvalidInput("resolution is required")
		}

		resolveReq := client.ResolveRequest{
			Resolution:    input.Resolution,
			DuplicateBug:  input.DuplicateBug,
			ResolvedBuild: input.ResolvedBuild,
			ResolvedDate:  input.ResolvedDate,
			AssignedTo:    input.AssignedTo,
			Comment:       input.Comment,
		}
		if resolveReq.ResolvedBuild == nil {
			resolveReq.ResolvedBuild = "trunk"
		}
		if resolveReq.ResolvedDate == "" {
			resolveReq.ResolvedDate = d.now().Format(resolvedDateLayout)
		}

		result, err := d.Client.ResolveBug(ctx, input.BugID, resolveReq)
		if err != nil {
			return nil, ResolveBugOutput{}, WrapZentaoError(err)
		}

		return nil, ResolveBugOutput{
			Success: true,
			BugID:   input.BugID,
			Result:  result,
		}, nil
	}
}
