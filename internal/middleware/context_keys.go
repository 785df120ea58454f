package middleware

import (
	"context"

	"github.com/SscSPs/mdp_service/internal/core/domain"
	"github.com/SscSPs/mdp_service/internal/dto"
	"github.com/gin-gonic/gin"
)

// principalKey is the key used to store the authenticated principal.
const principalKey = contextKey("principal")

// Principal is the caller resolved from the bearer token.
type Principal struct {
	UserID          string
	Member          dto.MemberRef
	SingleAuthClaim *domain.SingleAuthClaim
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// GetPrincipalFromContext retrieves the authenticated principal from the Gin context,
// falling back to the request context.
func GetPrincipalFromContext(c *gin.Context) (Principal, bool) {
	if val, exists := c.Get(string(principalKey)); exists {
		p, ok := val.(Principal)
		return p, ok
	}
	p, ok := c.Request.Context().Value(principalKey).(Principal)
	return p, ok
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	p, ok := GetPrincipalFromContext(c)
	if !ok || p.UserID == "" {
		return "", false
	}
	return p.UserID, true
}
