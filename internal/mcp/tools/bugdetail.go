package tools

import (
	"context"
	"encoding/json"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yinwusaya/zentao-mcp/internal/imagepipe"
)

// BugDetailsInput is the input for get_bug_details.
type BugDetailsInput struct {
	BugID     int    `json:"bugId" jsonschema:"required,Bug ID"`
	ImageMode string `json:"imageMode,omitempty" jsonschema:"Image mode: none - list references only (default), url - fetch and rehost, base64 - fetch and rehost keeping encoded bytes"`
}

// BugDetailsOutput is the flattened bug record with processed steps.
type BugDetailsOutput struct {
	ID            int                     `json:"id"`
	Title         string                  `json:"title"`
	Product       int                     `json:"product"`
	Project       int                     `json:"project"`
	Severity      int                     `json:"severity"`
	Pri           int                     `json:"pri"`
	Type          string                  `json:"type"`
	Status        string                  `json:"status"`
	Steps         string                  `json:"steps"`
	Images        string                  `json:"images,omitempty"`
	ImageData     []imagepipe.ImageOutcome `json:"imageData,omitzero"`
	OpenedBy      any                     `json:"openedBy"`
	OpenedDate    string                  `json:"openedDate"`
	AssignedTo    any                     `json:"assignedTo"`
	AssignedDate  string                  `json:"assignedDate"`
	ResolvedBy    any                     `json:"resolvedBy"`
	ResolvedDate  string                  `json:"resolvedDate"`
	ResolvedBuild any                     `json:"resolvedBuild"`
	ClosedBy      any                     `json:"closedBy"`
	ClosedDate    string                  `json:"closedDate"`
	Deadline      string                  `json:"deadline"`
}

// ToolGetBugDetails retrieves one bug and runs its steps through the image
// pipeline. When images were found, the rendered image list is appended to
// the result as an extra text content block.
func ToolGetBugDetails(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input BugDetailsInput) (*sdkmcp.CallToolResult, BugDetailsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input BugDetailsInput) (*sdkmcp.CallToolResult, BugDetailsOutput, error) {
		if input.BugID <= 0 {
			return nil, BugDetailsOutput{}, ErrInvalidInput("bugId is required")
		}

		bug, err := d.Client.GetBugDetails(ctx, input.BugID)
		if err != nil {
			return nil, BugDetailsOutput{}, WrapZentaoError(err)
		}

		processed := d.Steps.Process(ctx, bug.Steps, imagepipe.Mode(input.ImageMode))

		output := BugDetailsOutput{
			ID:            bug.ID,
			Title:         bug.Title,
			Product:       bug.Product,
			Project:       bug.Project,
			Severity:      bug.Severity,
			Pri:           bug.Pri,
			Type:          bug.Type,
			Status:        bug.Status,
			Steps:         processed.Content,
			Images:        processed.Images,
			ImageData:     processed.ImageData,
			OpenedBy:      bug.OpenedBy,
			OpenedDate:    bug.OpenedDate,
			AssignedTo:    bug.AssignedTo,
			AssignedDate:  bug.AssignedDate,
			ResolvedBy:    bug.ResolvedBy,
			ResolvedDate:  bug.ResolvedDate,
			ResolvedBuild: bug.ResolvedBuild,
			ClosedBy:      bug.ClosedBy,
			ClosedDate:    bug.ClosedDate,
			Deadline:      bug.Deadline,
		}

		encoded, err := json.Marshal(output)
		if err != nil {
			return nil, BugDetailsOutput{}, err
		}

		result := &sdkmcp.CallToolResult{
			Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(encoded)}},
		}
		if processed.Images != "" {
			result.Content = append(result.Content, &sdkmcp.TextContent{Text: "\n" + processed.Images})
		}

		return result, output, nil
	}
}
