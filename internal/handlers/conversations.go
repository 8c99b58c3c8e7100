package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"messaging-service/internal/models"
	"messaging-service/internal/rabbitmq"
	"messaging-service/internal/session"
	syncpkg "messaging-service/internal/sync"
	"messaging-service/internal/telemetry"
)

// ConversationHandler serves the conversation lifecycle endpoints.
type ConversationHandler struct {
	sessions  *session.Manager
	publisher rabbitmq.Publisher
	audit     *telemetry.AuditEmitter
}

// NewConversationHandler builds a ConversationHandler.
func NewConversationHandler(sessions *session.Manager, publisher rabbitmq.Publisher, audit *telemetry.AuditEmitter) *ConversationHandler {
	return &ConversationHandler{sessions: sessions, publisher: publisher, audit: audit}
}

func (h *ConversationHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}

// publishConversation pushes the row change onto the change topic. Publish
// failures are logged, not surfaced: the write already committed, and
// staleness is repaired by session recomputation.
func (h *ConversationHandler) publishConversation(ctx context.Context, op string, conv models.Conversation) {
	if err := syncpkg.PublishChange(ctx, h.publisher, syncpkg.StreamConversations, op, conv); err != nil {
		log.Printf("conversations: change publish failed for %d: %v", conv.ID, err)
	}
}

// List returns the caller's conversations in one lifecycle state,
// decorated with the other participant's name.
func (h *ConversationHandler) List(c *gin.Context) {
	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	state := models.StateActive
	if c.Query("filter") == "archived" {
		state = models.StateArchived
	}

	convs, err := sess.Conversations.List(c.Request.Context(), state)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": sess.Conversations.Summaries(c.Request.Context(), convs)})
}

// Trash returns the caller's soft-deleted conversations.
func (h *ConversationHandler) Trash(c *gin.Context) {
	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	convs, err := sess.Conversations.Trash(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load trash"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": sess.Conversations.Summaries(c.Request.Context(), convs)})
}

// Create starts a new conversation with another user.
func (h *ConversationHandler) Create(c *gin.Context) {
	var req struct {
		OtherUserID int    `json:"other_user_id" binding:"required"`
		Subject     string `json:"subject"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	conv, err := sess.Conversations.Create(c.Request.Context(), req.OtherUserID, req.Subject)
	if err != nil {
		writeError(c, err, "could not create conversation")
		return
	}

	h.publishConversation(c.Request.Context(), syncpkg.OpInsert, conv)
	c.JSON(http.StatusCreated, conv)
}

// Archive moves a conversation to the archived list.
func (h *ConversationHandler) Archive(c *gin.Context) {
	h.transition(c, func(ctx context.Context, sess *session.Session, id int) (models.Conversation, error) {
		return sess.Conversations.Archive(ctx, id)
	})
}

// Unarchive returns a conversation to the active list.
func (h *ConversationHandler) Unarchive(c *gin.Context) {
	h.transition(c, func(ctx context.Context, sess *session.Session, id int) (models.Conversation, error) {
		return sess.Conversations.Unarchive(ctx, id)
	})
}

// Delete soft-deletes a conversation.
func (h *ConversationHandler) Delete(c *gin.Context) {
	h.transition(c, func(ctx context.Context, sess *session.Session, id int) (models.Conversation, error) {
		return sess.Conversations.Delete(ctx, id)
	})
}

// Restore brings a soft-deleted conversation back to active.
func (h *ConversationHandler) Restore(c *gin.Context) {
	h.transition(c, func(ctx context.Context, sess *session.Session, id int) (models.Conversation, error) {
		return sess.Conversations.Restore(ctx, id)
	})
}

func (h *ConversationHandler) transition(c *gin.Context, op func(context.Context, *session.Session, int) (models.Conversation, error)) {
	id, ok := conversationIDParam(c)
	if !ok {
		return
	}
	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	conv, err := op(c.Request.Context(), sess, id)
	if err != nil {
		writeError(c, err, "transition failed")
		return
	}

	h.publishConversation(c.Request.Context(), syncpkg.OpUpdate, conv)
	c.JSON(http.StatusOK, conv)
}

// Purge permanently removes a conversation, its messages and receipts.
func (h *ConversationHandler) Purge(c *gin.Context) {
	id, ok := conversationIDParam(c)
	if !ok {
		return
	}
	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	// Snapshot before the row disappears so the change event carries the
	// participants for routing.
	conv, err := sess.Conversations.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "conversation not found")
		return
	}

	if err := sess.Conversations.Purge(c.Request.Context(), id); err != nil {
		h.emitAudit(c, "ERROR", "conversation purge rejected")
		writeError(c, err, "purge failed")
		return
	}

	sess.Stream.Drop(id)
	sess.Unread.RecomputeConversation(c.Request.Context(), id)
	h.publishConversation(c.Request.Context(), syncpkg.OpDelete, conv)
	h.emitAudit(c, "INFO", "conversation purged with full history")
	c.JSON(http.StatusOK, gin.H{"status": "purged"})
}

// BulkArchive archives a set of conversations, continue-on-error.
func (h *ConversationHandler) BulkArchive(c *gin.Context) {
	h.bulkTransition(c, func(ctx context.Context, sess *session.Session, ids []int) (
		[]int, map[int]error) {
		res := sess.Conversations.BulkArchive(ctx, ids)
		return res.Done, res.Failed
	})
}

// BulkDelete soft-deletes a set of conversations, continue-on-error.
func (h *ConversationHandler) BulkDelete(c *gin.Context) {
	h.bulkTransition(c, func(ctx context.Context, sess *session.Session, ids []int) (
		[]int, map[int]error) {
		res := sess.Conversations.BulkDelete(ctx, ids)
		return res.Done, res.Failed
	})
}

func (h *ConversationHandler) bulkTransition(c *gin.Context, op func(context.Context, *session.Session, []int) ([]int, map[int]error)) {
	var req struct {
		IDs []int `json:"ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	done, failed := op(c.Request.Context(), sess, req.IDs)

	for _, id := range done {
		if conv, err := sess.Conversations.Get(c.Request.Context(), id); err == nil {
			h.publishConversation(c.Request.Context(), syncpkg.OpUpdate, conv)
		}
	}

	failures := map[string]string{}
	for id, err := range failed {
		failures[strconv.Itoa(id)] = err.Error()
	}

	status := http.StatusOK
	if len(failures) > 0 && len(done) == 0 {
		status = http.StatusConflict
	} else if len(failures) > 0 {
		status = http.StatusMultiStatus
	}
	c.JSON(status, gin.H{"done": done, "failed": failures})
}
