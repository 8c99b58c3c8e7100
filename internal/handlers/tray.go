package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"messaging-service/internal/session"
)

// TrayHandler serves the chat tray registry: which conversations are
// rendered as floating windows and their minimized/badge state.
type TrayHandler struct {
	sessions *session.Manager
}

// NewTrayHandler builds a TrayHandler.
func NewTrayHandler(sessions *session.Manager) *TrayHandler {
	return &TrayHandler{sessions: sessions}
}

// List returns the tray entries in window order.
func (h *TrayHandler) List(c *gin.Context) {
	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": sess.Tray.Entries()})
}

// Open surfaces a window for the conversation: new entries start visible
// with a clear badge, existing ones are un-minimized and cleared.
func (h *TrayHandler) Open(c *gin.Context) {
	id, ok := conversationIDParam(c)
	if !ok {
		return
	}
	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	if _, err := sess.Conversations.Get(c.Request.Context(), id); err != nil {
		writeError(c, err, "failed to verify membership")
		return
	}

	sess.Tray.Open(id)
	// Opening a window means the user is looking at the conversation, a
	// natural point to repair any accumulated staleness.
	sess.Unread.RecomputeConversation(c.Request.Context(), id)
	sess.Tray.SetUnread(id, 0)

	c.JSON(http.StatusOK, gin.H{"entries": sess.Tray.Entries()})
}

// Close removes the window. No membership check: the entry may belong to
// a conversation the other party has already purged.
func (h *TrayHandler) Close(c *gin.Context) {
	id, ok := conversationIDParam(c)
	if !ok {
		return
	}
	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	sess.Tray.Close(id)
	c.JSON(http.StatusOK, gin.H{"entries": sess.Tray.Entries()})
}

// ToggleMinimize flips a window between minimized and visible.
func (h *TrayHandler) ToggleMinimize(c *gin.Context) {
	id, ok := conversationIDParam(c)
	if !ok {
		return
	}
	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	if !sess.Tray.Has(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no tray window for conversation"})
		return
	}
	sess.Tray.ToggleMinimize(id)
	c.JSON(http.StatusOK, gin.H{"entries": sess.Tray.Entries()})
}

// SetTitle overwrites a window's title.
func (h *TrayHandler) SetTitle(c *gin.Context) {
	id, ok := conversationIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	if !sess.Tray.Has(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no tray window for conversation"})
		return
	}
	sess.Tray.SetTitle(id, req.Title)
	c.JSON(http.StatusOK, gin.H{"entries": sess.Tray.Entries()})
}
