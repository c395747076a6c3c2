package middleware

import (
	"net/http"
	"strings"

	"gotransit/internal/models"
	"gotransit/internal/repositories/interfaces"
	"gotransit/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthRequired validates the access token from the accessToken cookie or the
// Authorization header and loads the principal into the request context. The
// user document is fetched so revoked or swept accounts fail immediately.
func AuthRequired(userRepo interfaces.UserRepository, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, jwtSecret)
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		user, err := userRepo.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Account not found")
			c.Abort()
			return
		}

		c.Set(utils.ContextUserIDKey, user.ID)
		c.Set(utils.ContextUserRoleKey, user.Role)

		c.Next()
	}
}

func AdminRequired() gin.HandlerFunc {
	return requireRole(models.UserRoleAdmin, "Admin access required")
}

func DriverRequired() gin.HandlerFunc {
	return requireRole(models.UserRoleDriver, "Driver access required")
}

func requireRole(role models.UserRole, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(utils.ContextUserRoleKey)
		if !exists {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		if current, ok := value.(models.UserRole); !ok || current != role {
			utils.ErrorResponse(c, http.StatusForbidden, message)
			c.Abort()
			return
		}

		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(utils.AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if token := strings.TrimPrefix(authHeader, "Bearer "); token != authHeader {
		return token
	}

	return ""
}
