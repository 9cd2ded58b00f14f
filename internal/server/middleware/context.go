package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	sessiondomain "movie-booking-admin/backend/internal/session/domain"
)

type contextKey struct{ name string }

var principalKey = contextKey{"principal"}

// WithPrincipal returns a context carrying the caller resolved from the access token.
func WithPrincipal(ctx context.Context, p sessiondomain.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the principal and true if the auth middleware set one.
func PrincipalFromContext(ctx context.Context) (sessiondomain.Principal, bool) {
	p, ok := ctx.Value(principalKey).(sessiondomain.Principal)
	return p, ok
}

// CurrentPrincipal is PrincipalFromContext for a gin request.
func CurrentPrincipal(c *gin.Context) (sessiondomain.Principal, bool) {
	return PrincipalFromContext(c.Request.Context())
}
