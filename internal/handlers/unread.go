package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"messaging-service/internal/models"
	"messaging-service/internal/rabbitmq"
	"messaging-service/internal/session"
	syncpkg "messaging-service/internal/sync"
)

// UnreadHandler serves unread counts and read-receipt creation.
type UnreadHandler struct {
	sessions  *session.Manager
	publisher rabbitmq.Publisher
}

// NewUnreadHandler builds an UnreadHandler.
func NewUnreadHandler(sessions *session.Manager, publisher rabbitmq.Publisher) *UnreadHandler {
	return &UnreadHandler{sessions: sessions, publisher: publisher}
}

// Counts returns the global unread total and the per-conversation counts.
func (h *UnreadHandler) Counts(c *gin.Context) {
	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	total, perConv := sess.Unread.Snapshot()
	counts := map[int]int{}
	for convID, n := range perConv {
		counts[convID] = n
	}
	c.JSON(http.StatusOK, gin.H{"total_unread": total, "conversations": counts})
}

// MarkRead acknowledges every unread message in one conversation. The
// response reports how many receipts were actually created; concurrent
// marks from another tab shrink the number, never error.
func (h *UnreadHandler) MarkRead(c *gin.Context) {
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

	created, err := sess.Unread.MarkRead(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark read"})
		return
	}

	sess.Tray.SetUnread(id, sess.Unread.Count(id))
	h.publishReceipts(c.Request.Context(), created)

	c.JSON(http.StatusOK, gin.H{
		"receipts_created": len(created),
		"total_unread":     sess.Unread.Total(),
	})
}

// MarkAllRead acknowledges every unread message across all conversations
// in a single backend call.
func (h *UnreadHandler) MarkAllRead(c *gin.Context) {
	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	created, err := sess.Unread.MarkAllRead(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark all read"})
		return
	}

	touched := map[int]struct{}{}
	for _, rec := range created {
		touched[rec.ConversationID] = struct{}{}
	}
	for convID := range touched {
		sess.Tray.SetUnread(convID, sess.Unread.Count(convID))
	}
	h.publishReceipts(c.Request.Context(), created)

	c.JSON(http.StatusOK, gin.H{
		"receipts_created": len(created),
		"total_unread":     sess.Unread.Total(),
	})
}

func (h *UnreadHandler) publishReceipts(ctx context.Context, created []models.ReadReceipt) {
	for _, rec := range created {
		if err := syncpkg.PublishChange(ctx, h.publisher, syncpkg.StreamReceipts, syncpkg.OpInsert, rec); err != nil {
			log.Printf("unread: receipt publish failed for message %d: %v", rec.MessageID, err)
		}
	}
}
