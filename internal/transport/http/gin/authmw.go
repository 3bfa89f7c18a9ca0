package httpgin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	tokens "github.com/teejohn247/eth-project-backend-sub001/internal/auth"
	"github.com/teejohn247/eth-project-backend-sub001/internal/domain"
)

const claimsKey = "auth_claims"

// AuthMiddleware rejects requests without a valid bearer token and stashes
// the verified claims on the context.
func AuthMiddleware(tm *tokens.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Message: "missing or malformed authorization header",
			})
			return
		}

		claims, err := tm.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Message: "invalid or expired token",
			})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole gates a route group to specific roles. Must run after
// AuthMiddleware.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Message: "authentication required",
			})
			return
		}

		for _, r := range roles {
			if claims.Role == r {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, Response{
			Success: false,
			Message: "insufficient permissions",
		})
	}
}

func claimsFrom(c *gin.Context) *tokens.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*tokens.Claims)
	return claims
}

func isAdmin(c *gin.Context) bool {
	claims := claimsFrom(c)
	return claims != nil && claims.Role == domain.RoleAdmin
}
