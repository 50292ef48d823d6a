package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// GetBugsByProduct lists the bugs of one product, paged.
func (c *Client) GetBugsByProduct(ctx context.Context, productID int, opts BugListOptions) (*BugList, error) {
	query := url.Values{}
	if opts.Page > 0 {
		query.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}

	var bugs BugList
	path := fmt.Sprintf("/products/%d/bugs", productID)
	if err := c.do(ctx, http.MethodGet, path, query, nil, &bugs); err != nil {
		return nil, err
	}
	return &bugs, nil
}

// GetBugDetails returns the full record of one bug.
func (c *Client) GetBugDetails(ctx context.Context, bugID int) (*Bug, error) {
	var bug Bug
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/bugs/%d", bugID), nil, nil, &bug); err != nil {
		return nil, err
	}
	return &bug, nil
}

// GetBugs lists bugs across products; query parameters are passed through
// to the tracker unchanged.
func (c *Client) GetBugs(ctx context.Context, query url.Values) (*BugList, error) {
	var bugs BugList
	if err := c.do(ctx, http.MethodGet, "/bugs", query, nil, &bugs); err != nil {
		return nil, err
	}
	return &bugs, nil
}

// ResolveBug marks a bug resolved. The raw tracker response is returned so
// callers can surface whatever the tracker reports.
func (c *Client) ResolveBug(ctx context.Context, bugID int, req ResolveRequest) (map[string]any, error) {
	var result map[string]any
	path := fmt.Sprintf("/bugs/%d/resolve", bugID)
	if err := c.do(ctx, http.MethodPost, path, nil, req, &result); err != nil {
		return nil, err
	}
	return result, nil
}
