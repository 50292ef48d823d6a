// Package client provides a ZenTao REST API client.
//
// The client authenticates against the tracker's /tokens endpoint with the
// configured account credentials and caches the issued session token for a
// configurable time-to-live. Every resource call attaches the cached token;
// a 401 or 403 response clears the cache, re-authenticates, and retries the
// request exactly once. All other failures propagate without retry.
//
// Token acquisition is single-flighted: concurrent callers that observe an
// expired token share one authentication call.
package client
