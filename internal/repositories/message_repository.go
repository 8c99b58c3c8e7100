package repositories

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"messaging-service/internal/models"
)

// MessageRepository defines interactions for conversation messages. Pages
// are served most-recent-first; the stream cache reverses them into
// chronological order.
type MessageRepository interface {
	Create(ctx context.Context, conversationID, senderID int, body string) (models.Message, error)
	RecentPage(ctx context.Context, conversationID, limit int) ([]models.Message, error)
	PageBefore(ctx context.Context, conversationID int, before time.Time, limit int) ([]models.Message, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Create stores a message and returns the authoritative row.
func (r *MessageRepo) Create(ctx context.Context, conversationID, senderID int, body string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO messages (conversation_id, sender_id, body) VALUES ($1, $2, $3)
         RETURNING id, conversation_id, sender_id, body, created_at`,
		conversationID, senderID, body).
		StructScan(&msg)
	return msg, err
}

// RecentPage returns the newest messages of a conversation, newest first.
func (r *MessageRepo) RecentPage(ctx context.Context, conversationID, limit int) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT id, conversation_id, sender_id, body, created_at FROM messages
         WHERE conversation_id=$1
         ORDER BY created_at DESC, id DESC
         LIMIT $2`, conversationID, limit)
	return msgs, err
}

// PageBefore returns messages strictly older than the boundary, newest first.
func (r *MessageRepo) PageBefore(ctx context.Context, conversationID int, before time.Time, limit int) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT id, conversation_id, sender_id, body, created_at FROM messages
         WHERE conversation_id=$1 AND created_at < $2
         ORDER BY created_at DESC, id DESC
         LIMIT $3`, conversationID, before, limit)
	return msgs, err
}
