package client

import (
	"context"
	"net/http"
)

// GetUserProfile returns the profile of the authenticated account.
func (c *Client) GetUserProfile(ctx context.Context) (*UserProfile, error) {
	var profile UserProfile
	if err := c.do(ctx, http.MethodGet, "/user", nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
