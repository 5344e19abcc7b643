// ABOUTME: Request-scoped admin principal set by HTTPAuthMiddleware
// ABOUTME: Handlers read it back with PrincipalFrom to attribute admin changes

package auth

import (
	"context"
	"time"
)

// Principal is the verified holder of an admin token.
type Principal struct {
	Subject   string
	Admin     bool
	ExpiresAt time.Time
}

// IsAdmin reports whether p carries the admin claim. A nil Principal is not an admin.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Admin
}

// Name is the subject for log lines, or "anonymous" when p is nil.
func (p *Principal) Name() string {
	if p == nil || p.Subject == "" {
		return "anonymous"
	}
	return p.Subject
}

type principalKey struct{}

func withPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored by HTTPAuthMiddleware, or nil.
func PrincipalFrom(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}
