package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"messaging-service/internal/apperrors"
	"messaging-service/internal/session"
)

// sessionFor resolves the caller's session from the auth middleware
// context, building it on first use.
func sessionFor(c *gin.Context, sessions *session.Manager) (*session.Session, bool) {
	userID := c.GetInt("userID")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return nil, false
	}
	sess, err := sessions.Get(c.Request.Context(), userID, c.GetString("userRole"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to initialize session"})
		return nil, false
	}
	return sess, true
}

// conversationIDParam parses the :conversation_id path parameter.
func conversationIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("conversation_id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return 0, false
	}
	return id, true
}

// writeError maps domain errors onto HTTP statuses.
func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrAuthRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	case errors.Is(err, apperrors.ErrRoleRestricted):
		c.JSON(http.StatusForbidden, gin.H{"error": "operation not allowed for role"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
	case errors.Is(err, apperrors.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "invalid state for operation"})
	case errors.Is(err, apperrors.ErrTransient):
		c.JSON(http.StatusBadGateway, gin.H{"error": fallback})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
