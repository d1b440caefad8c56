package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/NarendraPapasani/Dental-care-app/internal/models"
	"github.com/NarendraPapasani/Dental-care-app/internal/response"
	"github.com/NarendraPapasani/Dental-care-app/internal/utils"
)

// Context keys set by Auth for downstream handlers.
const (
	CtxUserID    = "userID"
	CtxUserRole  = "userRole"
	CtxUserEmail = "userEmail"
)

// Auth extracts and verifies the bearer token, attaching the caller's
// identity to the gin context.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AbortError(c, http.StatusUnauthorized, "No authentication token, access denied")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ParseToken(secret, tokenString)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "Token is invalid or expired")
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserRole, claims.Role)
		c.Set(CtxUserEmail, claims.Email)

		c.Next()
	}
}

// RequireRoles gates a route on an allow-list of roles. Auth must run
// first on the chain.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(CtxUserRole)
		if !exists {
			response.AbortError(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		role, _ := v.(models.Role)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		response.AbortError(c, http.StatusForbidden, "Access denied. You don't have permission to access this resource")
	}
}

// Identity returns the authenticated caller's id and role.
func Identity(c *gin.Context) (string, models.Role) {
	id, _ := c.Get(CtxUserID)
	role, _ := c.Get(CtxUserRole)
	userID, _ := id.(string)
	userRole, _ := role.(models.Role)
	return userID, userRole
}
