// Package webadmin provides the web-based administration interface.
//
// # Overview
//
// The web admin provides a browser-based interface for:
//
//   - Attendees: every registration with its designation and sign-up date
//   - Speakers: list, create, edit, and delete speaker profiles
//   - Sessions: list, create, edit, and delete sessions, assigning speakers
//   - Analytics: registrations grouped by designation with share bars
//
// # Architecture
//
// The admin holds no data of its own. Every page is built from the JSON
// API through internal/client, using the caller's admin token:
//
//   - Admin: routes, login/logout, cookies, and rendering
//   - Dashboard: loads the four lists in parallel and applies edits
//   - Templates: HTML templates embedded in the binary
//
// # Authentication
//
// The login form posts the admin password to POST /api/admin/login. The
// returned token is kept in an HttpOnly cookie scoped to /admin and sent
// as a bearer token on each API call. When the API rejects it, the cookie
// is cleared and the browser is sent back to the login page.
//
// # Editing
//
// Every successful edit redirects back to its tab so the page reloads from
// the API. A failed edit re-renders the tab with the form still filled in
// and the error above it.
//
// # CSRF Protection
//
// All form submissions require CSRF tokens:
//
//	<input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
//
// Tokens are validated on every POST.
//
// # Usage
//
// Create and mount the admin:
//
//	admin, err := webadmin.New(webadmin.Config{APIBaseURL: "http://127.0.0.1:8080"})
//	if err != nil {
//		return err
//	}
//	admin.RegisterRoutes(mux)
//
// The admin mounts under /admin.
package webadmin
