package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stagegear/inventory/internal/services"
	"github.com/stagegear/inventory/pkg/response"
)

const (
	ContextIdentity = "identity"
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextRole     = "role"
)

// SessionResolver turns a session token into the caller identity.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*services.Identity, error)
}

// LoadSession resolves the session token, taken from the cookie or else from
// a Bearer Authorization header, and stores the identity in the context.
// Requests without a valid session continue anonymously.
func LoadSession(resolver SessionResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c, cookieName)
		if token == "" {
			c.Next()
			return
		}

		identity, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, services.ErrUnauthenticated) {
				c.Next()
				return
			}
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextIdentity, identity)
		c.Set(ContextUserID, identity.UserID)
		c.Set(ContextUsername, identity.Name)
		c.Set(ContextRole, identity.Role)
		c.Next()
	}
}

func sessionToken(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}

	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// AuthRequired rejects anonymous requests with 401.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetIdentity(c) == nil {
			response.Error(c, services.ErrUnauthenticated)
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminRequired rejects every non-admin request with 403, anonymous ones
// included.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetIdentity(c).IsAdmin() {
			response.Error(c, services.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetIdentity returns the caller, or nil for anonymous requests.
func GetIdentity(c *gin.Context) *services.Identity {
	if v, exists := c.Get(ContextIdentity); exists {
		if identity, ok := v.(*services.Identity); ok {
			return identity
		}
	}
	return nil
}

// GetUserID gets the current user ID from context
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// GetUsername gets the current username from context
func GetUsername(c *gin.Context) string {
	return c.GetString(ContextUsername)
}
