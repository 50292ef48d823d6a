package mcpsrv

import (
	"context"
	"testing"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yinwusaya/zentao-mcp/pkg/client"
)

// listTools connects an in-memory client to the server and lists its tools.
func listTools(t *testing.T, s *Server) []string {
	t.Helper()
	ctx := context.Background()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := s.internal.MCPServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	mc := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "1.0.0"}, nil)
	session, err := mc.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	res, err := session.ListTools(ctx, nil)
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	return names
}

type echoIn struct {
	Text string `json:"text"`
}

type echoOut struct {
	Text string `json:"text"`
}

func TestNewServer_RequiresClient(t *testing.T) {
	_, err := NewServer(nil)
	require.Error(t, err)
}

func TestWithTool_RegistersAlongsideBuiltins(t *testing.T) {
	srv, err := NewServer(client.New(),
		WithTool(&mcp.Tool{Name: "echo", Description: "Echo the input"},
			func(ctx context.Context, req *mcp.CallToolRequest, in echoIn) (*mcp.CallToolResult, echoOut, error) {
				return nil, echoOut{Text: in.Text}, nil
			}),
	)
	require.NoError(t, err)
	defer srv.Close()

	names := listTools(t, srv)
	assert.Contains(t, names, "echo")
	assert.Contains(t, names, "get_bug_details")
	assert.Contains(t, names, "resolve_bug")
}

func TestWithDepsTool_ReceivesDeps(t *testing.T) {
	var got *Deps
	srv, err := NewServer(client.New(),
		WithDepsTool(&mcp.Tool{Name: "whoami", Description: "Report the configured tracker"},
			func(d *Deps) func(context.Context, *mcp.CallToolRequest, echoIn) (*mcp.CallToolResult, echoOut, error) {
				got = d
				return func(ctx context.Context, req *mcp.CallToolRequest, in echoIn) (*mcp.CallToolResult, echoOut, error) {
					return nil, echoOut{Text: d.Config.ZentaoURL}, nil
				}
			}),
	)
	require.NoError(t, err)
	defer srv.Close()

	assert.Contains(t, listTools(t, srv), "whoami")
	require.NotNil(t, got)
	assert.NotNil(t, got.Client)
	assert.NotNil(t, got.Steps)
	assert.NotNil(t, got.Config)
	assert.Same(t, srv.Deps(), got)
}

func TestWithoutBuiltinTools(t *testing.T) {
	srv, err := NewServer(client.New(),
		WithoutBuiltinTools(),
		WithTool(&mcp.Tool{Name: "echo", Description: "Echo the input"},
			func(ctx context.Context, req *mcp.CallToolRequest, in echoIn) (*mcp.CallToolResult, echoOut, error) {
				return nil, echoOut{Text: in.Text}, nil
			}),
	)
	require.NoError(t, err)
	defer srv.Close()

	assert.Equal(t, []string{"echo"}, listTools(t, srv))
}
