// Package client is the Go client for the confhub JSON API.
//
// # Credentials
//
// The admin token is attached as "Authorization: Bearer <token>" only to
// paths under /api/admin. Public endpoints never see it, so a client that
// holds a token can still be used for public calls.
//
// Tokens live in a TokenStore:
//
//   - MemoryTokenStore: process memory (web views, tests)
//   - FileTokenStore: a TOML credentials file with 0600 permissions (CLI)
//
// # Errors
//
// Non-2xx responses are returned as *APIError, carrying the status code and
// the "error" field of the JSON body. Status classes can be matched with
// errors.Is:
//
//	if errors.Is(err, client.ErrUnauthorized) {
//	    // token missing, expired, or wrong password
//	}
//
// # Usage
//
//	c := client.New("http://127.0.0.1:8080")
//	if _, err := c.AdminLogin(ctx, password); err != nil {
//	    return err
//	}
//	schedule, err := c.Schedule(ctx)
package client
