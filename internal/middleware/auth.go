package middleware

import (
	"strings"

	"github.com/Decaded/MSGA-server/internal/models"
	"github.com/Decaded/MSGA-server/internal/pkg/apperr"
	jwtpkg "github.com/Decaded/MSGA-server/internal/pkg/jwt"
	"github.com/Decaded/MSGA-server/internal/pkg/response"
	"github.com/Decaded/MSGA-server/internal/store"
	"github.com/gin-gonic/gin"
)

const ContextKeyClaims = "auth_claims"

// Auth returns a middleware that enforces Bearer JWT authentication and
// rejects tokens whose jti is on the revocation list.
func Auth(st store.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := validateRequest(st, c)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// OptionalAuth attaches claims if a valid token is present, but never blocks
// the request. An invalid or revoked token is treated as no token at all.
func OptionalAuth(st store.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := validateRequest(st, c); err == nil {
			c.Set(ContextKeyClaims, claims)
		}
		c.Next()
	}
}

// AdminOnly rejects callers whose role is not admin. Must run after Auth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentClaims(c)
		if claims == nil || claims.Role != string(models.RoleAdmin) {
			response.Error(c, apperr.New(apperr.KindForbidden, "admin access required"))
			return
		}
		c.Next()
	}
}

func validateRequest(st store.Backend, c *gin.Context) (*jwtpkg.Claims, error) {
	token := extractToken(c)
	if token == "" {
		return nil, apperr.New(apperr.KindAuth, "authorization token required")
	}
	claims, err := jwtpkg.Parse(token)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindAuth, "invalid or expired token", err)
	}

	var blocked map[string]models.BlockedToken
	if err := st.Get(store.BlockedTokens, &blocked); err != nil {
		return nil, err
	}
	if _, ok := blocked[claims.JTI()]; ok {
		return nil, apperr.New(apperr.KindRevoked, "token has been revoked")
	}
	return claims, nil
}

// CurrentClaims extracts the authenticated claims from context, nil if none.
func CurrentClaims(c *gin.Context) *jwtpkg.Claims {
	v, _ := c.Get(ContextKeyClaims)
	claims, _ := v.(*jwtpkg.Claims)
	return claims
}

// CurrentUsername returns the authenticated username, "" if unauthenticated.
func CurrentUsername(c *gin.Context) string {
	if claims := CurrentClaims(c); claims != nil {
		return claims.Username
	}
	return ""
}

// IsAdmin reports whether the request is authenticated as an admin.
func IsAdmin(c *gin.Context) bool {
	claims := CurrentClaims(c)
	return claims != nil && claims.Role == string(models.RoleAdmin)
}

func extractToken(c *gin.Context) string {
	auth := strings.TrimSpace(c.GetHeader("Authorization"))
	if auth == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
