// Package auth provides admin authentication for confhub.
//
// # Admin Login
//
// There is a single admin identity guarded by a shared password. The
// password is configured either in plaintext (auth.admin_password, hashed
// with bcrypt at startup) or as a bcrypt hash (auth.admin_password_hash).
// PasswordChecker compares login attempts against that hash.
//
// # JWT Tokens
//
// A successful login returns an HS256 JWT signed with auth.jwt_secret:
//
//	{"sub": "admin", "admin": true, "iat": ..., "exp": ...}
//
// Tokens expire after auth.token_ttl (24h by default). When no secret is
// configured the gateway generates a random one at startup, so tokens are
// invalidated by a restart.
//
// # HTTP Middleware
//
// HTTPAuthMiddleware guards /api/admin routes. It accepts the token either
// as "Authorization: Bearer <token>" or as the bare header value, answers
// 401 with a JSON error body on failure, and stores a Principal on the
// request context:
//
//	p := auth.PrincipalFrom(r.Context())
//	logger.Info("speaker deleted", "by", p.Name())
package auth
