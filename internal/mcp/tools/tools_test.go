package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yinwusaya/zentao-mcp/internal/imagepipe"
	"github.com/yinwusaya/zentao-mcp/pkg/client"
)

// fixture fakes the tracker API and wires Deps against it.
type fixture struct {
	mux     *http.ServeMux
	tracker *httptest.Server
	deps    *Deps

	apiCalls atomic.Int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fx := &fixture{mux: http.NewServeMux()}

	fx.mux.HandleFunc("/api.php/v1/tokens", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-1"})
	})

	fx.tracker = httptest.NewServer(fx.mux)
	t.Cleanup(fx.tracker.Close)

	c := client.New(client.WithBaseURL(fx.tracker.URL))
	fetcher := imagepipe.NewFetcher(c, nil, 0, nil)
	uploader := imagepipe.NewUploader("", "", "zentao_bug", nil, 0)

	fx.deps = &Deps{
		Client: c,
		Steps:  imagepipe.NewProcessor(fetcher, uploader, 3),
	}
	return fx
}

// handle registers a counted tracker endpoint serving the given value.
func (fx *fixture) handle(path string, v any) {
	fx.mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		fx.apiCalls.Add(1)
		json.NewEncoder(w).Encode(v)
	})
}

func TestToolGetUserProfile(t *testing.T) {
	fx := newFixture(t)
	fx.handle("/api.php/v1/user", map[string]any{
		"profile": map[string]any{"account": "admin", "realname": "Admin"},
	})

	_, out, err := ToolGetUserProfile(fx.deps)(context.Background(), nil, UserProfileInput{})
	require.NoError(t, err)

	profile, ok := out.Profile.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "admin", profile["account"])
}

func TestToolGetProducts(t *testing.T) {
	fx := newFixture(t)
	fx.handle("/api.php/v1/products", client.ProductList{
		Total: 2,
		Products: []client.Product{
			{ID: 1, Name: "App", Code: "app", Type: "normal"},
			{ID: 2, Name: "Web", Code: "web", Type: "normal"},
		},
	})

	_, out, err := ToolGetProducts(fx.deps)(context.Background(), nil, ProductsInput{})
	require.NoError(t, err)

	assert.Equal(t, 2, out.Total)
	require.Len(t, out.Products, 2)
	assert.Equal(t, "App", out.Products[0].Name)
}

func TestToolGetBugsByProduct_RequiresProductID(t *testing.T) {
	fx := newFixture(t)
	fx.handle("/api.php/v1/products/0/bugs", client.BugList{})

	_, _, err := ToolGetBugsByProduct(fx.deps)(context.Background(), nil, BugsByProductInput{})
	require.Error(t, err)

	var coded *CodedError
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, ErrCodeInvalidInput, coded.Code)
	assert.Equal(t, int64(0), fx.apiCalls.Load(), "validation failures must not reach the network")
}

func TestToolGetBugsByProduct(t *testing.T) {
	fx := newFixture(t)
	fx.handle("/api.php/v1/products/7/bugs", client.BugList{
		Page: 1, Total: 1, Limit: 20,
		Bugs: []client.BugSummary{{ID: 11, Title: "crash", Status: "active"}},
	})

	_, out, err := ToolGetBugsByProduct(fx.deps)(context.Background(), nil, BugsByProductInput{ProductID: 7})
	require.NoError(t, err)

	assert.Equal(t, 7, out.ProductID)
	assert.Equal(t, 1, out.Total)
	require.Len(t, out.Bugs, 1)
	assert.Equal(t, "crash", out.Bugs[0].Title)
}

func TestToolViewBugs_ForwardsFilters(t *testing.T) {
	fx := newFixture(t)
	fx.mux.HandleFunc("/api.php/v1/bugs", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("productId"))
		assert.Equal(t, "active", r.URL.Query().Get("status"))
		assert.Empty(t, r.URL.Query().Get("projectId"), "unset filters are not forwarded")
		json.NewEncoder(w).Encode(client.BugList{
			Total: 2,
			Bugs:  []client.BugSummary{{ID: 1}, {ID: 2}},
		})
	})

	input := ViewBugsInput{ProductID: 3, Status: "active"}
	_, out, err := ToolViewBugs(fx.deps)(context.Background(), nil, input)
	require.NoError(t, err)

	assert.Equal(t, input, out.Query)
	assert.Equal(t, 2, out.Count)
	assert.Len(t, out.Bugs, 2)
}

// Some tracker versions return bug listings without a bugs array at all.
// The tool must still produce a valid structured result: a nil slice would
// serialize as null and be rejected by the SDK's output schema, turning an
// empty listing into a protocol error.
func TestToolViewBugs_NoBugsArray(t *testing.T) {
	fx := newFixture(t)
	fx.mux.HandleFunc("/api.php/v1/bugs", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"total":0,"data":[]}`)
	})

	ctx := context.Background()
	srv := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "test", Version: "1.0.0"}, nil)
	Register(srv, fx.deps)

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := srv.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	mc := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test", Version: "1.0.0"}, nil)
	session, err := mc.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "view_bugs",
		Arguments: map[string]any{},
	})
	require.NoError(t, err, "an empty listing must not surface as a protocol error")
	assert.False(t, res.IsError)

	var out ViewBugsOutput
	require.NoError(t, json.Unmarshal(mustJSON(t, res.StructuredContent), &out))
	assert.Zero(t, out.Count)
	assert.Empty(t, out.Bugs)
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestToolResolveBug_Defaults(t *testing.T) {
	fx := newFixture(t)
	now := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
	fx.deps.Now = func() time.Time { return now }

	var got client.ResolveRequest
	fx.mux.HandleFunc("/api.php/v1/bugs/42/resolve", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]any{"message": "success"})
	})

	_, out, err := ToolResolveBug(fx.deps)(context.Background(), nil, ResolveBugInput{
		BugID:      42,
		Resolution: "fixed",
	})
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.Equal(t, 42, out.BugID)
	assert.Equal(t, "trunk", got.ResolvedBuild, "resolvedBuild defaults to trunk")
	assert.Equal(t, "2026-08-29 10:30:00", got.ResolvedDate, "resolvedDate defaults to now")
}

func TestToolResolveBug_ExplicitValuesKept(t *testing.T) {
	fx := newFixture(t)

	var got client.ResolveRequest
	fx.mux.HandleFunc("/api.php/v1/bugs/42/resolve", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]any{"message": "success"})
	})

	_, _, err := ToolResolveBug(fx.deps)(context.Background(), nil, ResolveBugInput{
		BugID:         42,
		Resolution:    "duplicate",
		DuplicateBug:  41,
		ResolvedBuild: float64(5),
		ResolvedDate:  "2026-01-01 00:00:00",
		Comment:       "same root cause",
	})
	require.NoError(t, err)

	assert.Equal(t, "duplicate", got.Resolution)
	assert.Equal(t, 41, got.DuplicateBug)
	assert.Equal(t, float64(5), got.ResolvedBuild)
	assert.Equal(t, "2026-01-01 00:00:00", got.ResolvedDate)
	assert.Equal(t, "same root cause", got.Comment)
}

func TestToolResolveBug_RequiresResolution(t *testing.T) {
	fx := newFixture(t)

	_, _, err := ToolResolveBug(fx.deps)(context.Background(), nil, ResolveBugInput{BugID: 42})
	require.Error(t, err)

	var coded *CodedError
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, ErrCodeInvalidInput, coded.Code)
}

func TestToolGetBugDetails_NoneMode(t *testing.T) {
	fx := newFixture(t)
	fx.handle("/api.php/v1/bugs/9", client.Bug{
		ID:     9,
		Title:  "broken upload",
		Status: "active",
		Steps:  `<p>see <img src='http://x/a.png'></p>`,
	})

	result, out, err := ToolGetBugDetails(fx.deps)(context.Background(), nil, BugDetailsInput{BugID: 9})
	require.NoError(t, err)

	assert.Equal(t, 9, out.ID)
	assert.Equal(t, `<p>see <img src='http://x/a.png'></p>`, out.Steps, "steps text is unchanged")
	assert.Equal(t, "![图片1](http://x/a.png)", out.Images)
	assert.Nil(t, out.ImageData)

	require.NotNil(t, result)
	require.Len(t, result.Content, 2, "image list is appended as an extra content block")
	text, ok := result.Content[1].(*sdkmcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "\n![图片1](http://x/a.png)", text.Text)
}

func TestToolGetBugDetails_NoImages(t *testing.T) {
	fx := newFixture(t)
	fx.handle("/api.php/v1/bugs/9", client.Bug{ID: 9, Steps: "<p>plain</p>"})

	result, out, err := ToolGetBugDetails(fx.deps)(context.Background(), nil, BugDetailsInput{BugID: 9})
	require.NoError(t, err)

	assert.Empty(t, out.Images)
	assert.Nil(t, out.ImageData)
	require.NotNil(t, result)
	assert.Len(t, result.Content, 1)
}

func TestToolGetBugDetails_UpstreamNotFound(t *testing.T) {
	fx := newFixture(t)
	fx.mux.HandleFunc("/api.php/v1/bugs/404", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error": "bug not found"}`)
	})

	_, _, err := ToolGetBugDetails(fx.deps)(context.Background(), nil, BugDetailsInput{BugID: 404})
	require.Error(t, err)

	var coded *CodedError
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, ErrCodeNotFound, coded.Code)
}
