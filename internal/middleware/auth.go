package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	grpcclient "messaging-service/internal/grpc"
)

// AuthMiddleware validates the Authorization header using the auth-service
// gRPC client. Every operation of this service requires an authenticated
// user; requests without one fail fast here.
func AuthMiddleware(authClient *grpcclient.AuthClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		userID, role, err := authClient.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("userID", userID)
		c.Set("userRole", role)
		c.Next()
	}
}
