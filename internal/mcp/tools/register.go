package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	AddTool(srv, &sdkmcp.Tool{
		Name:        "get_user_profile",
		Description: "Get the profile of the currently authenticated ZenTao account",
	}, ToolGetUserProfile(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "get_products",
		Description: "List all products in the ZenTao tracker",
	}, ToolGetProducts(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "get_bugs_by_product",
		Description: "List the bugs of one product, paged via page and limit",
	}, ToolGetBugsByProduct(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "get_bug_details",
		Description: "Get the full record of one bug. imageMode controls how images embedded in the reproduction steps are handled: none lists their URLs, url fetches and rehosts them to the configured image host, base64 additionally returns the encoded image bytes.",
	}, ToolGetBugDetails(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "view_bugs",
		Description: "List bugs across the tracker with optional product, project, user, and status filters",
	}, ToolViewBugs(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "resolve_bug",
		Description: "Mark a bug resolved in the tracker (changes tracker state only, does not fix anything)",
	}, ToolResolveBug(d))
}
