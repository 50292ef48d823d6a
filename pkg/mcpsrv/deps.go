package mcpsrv

import (
	"github.com/yinwusaya/zentao-mcp/internal/config"
	"github.com/yinwusaya/zentao-mcp/internal/imagepipe"
	"github.com/yinwusaya/zentao-mcp/pkg/client"
)

// Deps contains the dependencies available to custom tools. Custom tools
// get the same infrastructure as the builtin ones.
type Deps struct {
	Client *client.Client
	Steps  *imagepipe.Processor
	Config *config.Config
}
