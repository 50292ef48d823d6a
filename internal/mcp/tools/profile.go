package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// UserProfileInput is the input for get_user_profile.
type UserProfileInput struct{}

// UserProfileOutput is the output for get_user_profile.
type UserProfileOutput struct {
	Profile any `json:"profile"`
}

// ToolGetUserProfile returns the profile of the configured account.
func ToolGetUserProfile(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input UserProfileInput) (*sdkmcp.CallToolResult, UserProfileOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input UserProfileInput) (*sdkmcp.CallToolResult, UserProfileOutput, error) {
		profile, err := d.Client.GetUserProfile(ctx)
		if err != nil {
			return nil, UserProfileOutput{}, WrapZentaoError(err)
		}

		return nil, UserProfileOutput{Profile: profile.Profile}, nil
	}
}
