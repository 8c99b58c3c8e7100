package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"messaging-service/internal/apperrors"
	"messaging-service/internal/models"
	"messaging-service/internal/rabbitmq"
	"messaging-service/internal/session"
	syncpkg "messaging-service/internal/sync"
)

// MessageHandler serves the message stream endpoints of a conversation.
type MessageHandler struct {
	sessions  *session.Manager
	publisher rabbitmq.Publisher
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(sessions *session.Manager, publisher rabbitmq.Publisher) *MessageHandler {
	return &MessageHandler{sessions: sessions, publisher: publisher}
}

// List returns a page of the conversation's messages in ascending order.
// Without a `before` parameter it returns the most recent page and
// materializes the stream window; with one it loads the page older than
// the given timestamp.
func (h *MessageHandler) List(c *gin.Context) {
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

	if raw := c.Query("before"); raw != "" {
		before, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid before timestamp"})
			return
		}
		page, err := sess.Stream.LoadOlder(c.Request.Context(), id, before)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": page})
		return
	}

	msgs, err := sess.Stream.LoadInitial(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// Send stores a message in the conversation. The stream cache appends an
// optimistic entry, confirms it against the backend and reconciles the
// pending entry with the stored row before this handler responds.
func (h *MessageHandler) Send(c *gin.Context) {
	id, ok := conversationIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	conv, err := sess.Conversations.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "failed to verify membership")
		return
	}
	// A soft-deleted thread keeps its history but accepts no new traffic
	// until it is restored.
	if conv.State == models.StateDeleted {
		writeError(c, apperrors.ErrInvalidTransition, "conversation is deleted")
		return
	}

	msg, err := sess.Stream.Send(c.Request.Context(), id, req.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
		return
	}

	// New traffic bumps recency and pulls an archived thread back to
	// active for both participants.
	touched, err := sess.Conversations.TouchOnMessage(c.Request.Context(), id, msg.CreatedAt)
	if err != nil {
		log.Printf("messages: touch failed for conversation %d: %v", id, err)
		touched = conv
	}

	if err := syncpkg.PublishChange(c.Request.Context(), h.publisher, syncpkg.StreamMessages, syncpkg.OpInsert, msg); err != nil {
		log.Printf("messages: change publish failed for message %d: %v", msg.ID, err)
	}
	if err := syncpkg.PublishChange(c.Request.Context(), h.publisher, syncpkg.StreamConversations, syncpkg.OpUpdate, touched); err != nil {
		log.Printf("messages: change publish failed for conversation %d: %v", id, err)
	}

	c.JSON(http.StatusCreated, msg)
}
