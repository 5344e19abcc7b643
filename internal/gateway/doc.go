// Package gateway runs the confhub HTTP server.
//
// # Overview
//
// The gateway owns the data store, the admin token verifier, the password
// checker, and the login limiter. It serves one http.ServeMux that carries
// the JSON API, the public site, the admin views, and the embedded static
// assets.
//
// # HTTP API
//
// Public endpoints:
//
//   - POST /api/register - Sign up an attendee (201, 409 on duplicate email)
//   - GET /api/registrations/count - {"count": n}
//   - GET /api/speakers - All speakers, ordered by name
//   - GET /api/sessions - All sessions, in creation order
//   - POST /api/admin/login - Exchange the admin password for a token
//
// Admin endpoints require "Authorization: Bearer <token>":
//
//   - GET /api/admin/attendees, GET /api/admin/attendees/{id}
//   - GET|POST /api/admin/speakers, PUT|DELETE /api/admin/speakers/{id}
//   - GET|POST /api/admin/sessions, PUT|DELETE /api/admin/sessions/{id}
//   - GET /api/admin/analytics/designations
//
// Every error body is {"error": "..."}. Unknown paths under /api answer a
// JSON 404.
//
// # Middleware
//
// Requests pass through access logging, Prometheus request metrics
// (labelled by route pattern), panic recovery and CORS for the configured
// origin. Recovery runs inside the recorders, so a panic is still logged
// and counted as a 500.
//
// # Lifecycle
//
//	gw, err := gateway.New(cfg, logger)
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//	err = gw.Run(ctx) // shuts down within 5s of cancel
//
// # Key Files
//
//   - gateway.go: Gateway struct, initialization, Run/Shutdown, health
//   - api.go: API route table and handlers
//   - middleware.go: logging, metrics, recovery, CORS
package gateway
