// Package tools contains the MCP tool implementations for the ZenTao
// adapter.
package tools

import (
	"time"

	"github.com/yinwusaya/zentao-mcp/internal/config"
	"github.com/yinwusaya/zentao-mcp/internal/imagepipe"
	"github.com/yinwusaya/zentao-mcp/pkg/client"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Client *client.Client
	Steps  *imagepipe.Processor
	Config *config.Config

	// Now supplies the clock for resolve-date defaults; tests override it.
	Now func() time.Time
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}
