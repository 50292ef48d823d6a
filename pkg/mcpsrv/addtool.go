package mcpsrv

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yinwusaya/zentao-mcp/internal/mcp/tools"
)

// AddTool registers a tool with the server after validating that the
// output type's zero value passes the SDK's inferred JSON schema. See
// tools.CheckOutputSchema for what this catches.
//
// Panics if the zero value of Out fails schema validation.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	tools.AddTool(srv, t, h)
}
