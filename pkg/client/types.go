package client

import "fmt"

// APIError is an error response from the ZenTao API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("zentao API error (status %d): %s", e.StatusCode, e.Message)
}

// errorResponse is the JSON error body shape. Depending on the endpoint the
// tracker reports either an "error" or a "message" field.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// UserProfile is the GET /user response.
type UserProfile struct {
	Profile any `json:"profile"`
}

// Product is one product record.
//
// Person-valued fields (createdBy and friends) are typed any throughout:
// the tracker returns either an account string or an expanded
// {id, account, realname} object depending on version and endpoint.
type Product struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Type        string `json:"type"`
	Desc        string `json:"desc"`
	ACL         string `json:"acl"`
	CreatedBy   any    `json:"createdBy"`
	CreatedDate string `json:"createdDate"`
}

// ProductList is the GET /products response.
type ProductList struct {
	Total    int       `json:"total"`
	Products []Product `json:"products"`
}

// BugSummary is one bug record as returned by list endpoints.
type BugSummary struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Severity     int    `json:"severity"`
	Pri          int    `json:"pri"`
	Status       string `json:"status"`
	OpenedBy     any    `json:"openedBy"`
	OpenedDate   string `json:"openedDate"`
	AssignedTo   any    `json:"assignedTo"`
	ResolvedBy   any    `json:"resolvedBy"`
	ResolvedDate string `json:"resolvedDate"`
}

// BugList is a paged bug listing.
type BugList struct {
	Page  int          `json:"page"`
	Total int          `json:"total"`
	Limit int          `json:"limit"`
	Bugs  []BugSummary `json:"bugs"`
}

// Bug is the full GET /bugs/{id} record. Steps carries the HTML-formatted
// reproduction steps, the source of embedded images.
type Bug struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Product       int    `json:"product"`
	Project       int    `json:"project"`
	Severity      int    `json:"severity"`
	Pri           int    `json:"pri"`
	Type          string `json:"type"`
	Status        string `json:"status"`
	Steps         string `json:"steps"`
	OpenedBy      any    `json:"openedBy"`
	OpenedDate    string `json:"openedDate"`
	AssignedTo    any    `json:"assignedTo"`
	AssignedDate  string `json:"assignedDate"`
	ResolvedBy    any    `json:"resolvedBy"`
	ResolvedDate  string `json:"resolvedDate"`
	ResolvedBuild any    `json:"resolvedBuild"`
	ClosedBy      any    `json:"closedBy"`
	ClosedDate    string `json:"closedDate"`
	Deadline      string `json:"deadline"`
}

// ResolveRequest is the POST /bugs/{id}/resolve body.
type ResolveRequest struct {
	Resolution    string `json:"resolution"`
	DuplicateBug  int    `json:"duplicateBug,omitempty"`
	ResolvedBuild any    `json:"resolvedBuild,omitempty"`
	ResolvedDate  string `json:"resolvedDate,omitempty"`
	AssignedTo    string `json:"assignedTo,omitempty"`
	Comment       string `json:"comment,omitempty"`
}

// BugListOptions are the pagination parameters for product bug listings.
type BugListOptions struct {
	Page  int
	Limit int
}
