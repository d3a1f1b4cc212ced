package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tablebook/internal/auth"
)

func AuthMiddleware(tokens *auth.TokenIssuer, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format, use 'Bearer <token>'"})
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token: " + err.Error()})
			c.Abort()
			return
		}

		log.WithFields(logrus.Fields{
			"staff_id": claims.StaffID,
			"username": claims.Username,
			"role":     claims.Role,
			"path":     c.FullPath(),
		}).Debug("staff request authorized")

		// Attach staff info to request context
		c.Set("staffID", claims.StaffID)
		c.Set("staffUsername", claims.Username)
		c.Set("staffRole", claims.Role)
		c.Next()
	}
}
