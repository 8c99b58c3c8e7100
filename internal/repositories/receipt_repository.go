package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"messaging-service/internal/models"
)

// ReceiptRepository is the read-receipt ledger: per-user acknowledgments of
// messages, unique per (message, user). It also serves the unread count
// queries derived from it, so the unread index has a single source of truth
// to recompute from.
type ReceiptRepository interface {
	MarkConversationRead(ctx context.Context, conversationID, userID int) ([]models.ReadReceipt, error)
	MarkAllRead(ctx context.Context, userID int) ([]models.ReadReceipt, error)
	UnreadCounts(ctx context.Context, userID int) (map[int]int, error)
	UnreadCount(ctx context.Context, conversationID, userID int) (int, error)
}

// ReceiptRepo is a sqlx implementation of ReceiptRepository.
type ReceiptRepo struct {
	db *sqlx.DB
}

// NewReceiptRepo constructs a ReceiptRepo.
func NewReceiptRepo(db *sqlx.DB) *ReceiptRepo {
	return &ReceiptRepo{db: db}
}

// MarkConversationRead inserts one receipt per message from others that the
// user has not acknowledged yet, in a single batch, and returns the rows
// actually created. ON CONFLICT DO NOTHING makes the batch idempotent: a
// concurrent mark from another tab cannot double-insert, and the caller
// decrements its unread count by the number returned rather than clearing
// to zero, so a message arriving mid-call is not lost.
func (r *ReceiptRepo) MarkConversationRead(ctx context.Context, conversationID, userID int) ([]models.ReadReceipt, error) {
	var created []models.ReadReceipt
	err := r.db.SelectContext(ctx, &created,
		`INSERT INTO read_receipts (conversation_id, message_id, user_id)
         SELECT m.conversation_id, m.id, $1
         FROM messages m
         WHERE m.conversation_id=$2 AND m.sender_id <> $1
         ON CONFLICT (message_id, user_id) DO NOTHING
         RETURNING conversation_id, message_id, user_id, read_at`,
		userID, conversationID)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// MarkAllRead acknowledges every unread message across all non-deleted
// conversations the user belongs to, from one backend statement (no per
// conversation round trips). Returns the receipts created.
func (r *ReceiptRepo) MarkAllRead(ctx context.Context, userID int) ([]models.ReadReceipt, error) {
	var created []models.ReadReceipt
	err := r.db.SelectContext(ctx, &created,
		`INSERT INTO read_receipts (conversation_id, message_id, user_id)
         SELECT m.conversation_id, m.id, $1
         FROM messages m
         JOIN conversations c ON c.id = m.conversation_id
         WHERE (c.user1_id=$1 OR c.user2_id=$1) AND c.state <> $2 AND m.sender_id <> $1
         ON CONFLICT (message_id, user_id) DO NOTHING
         RETURNING conversation_id, message_id, user_id, read_at`,
		userID, models.StateDeleted)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UnreadCounts returns, for every non-deleted conversation the user belongs
// to, the number of messages from others lacking a receipt by the user.
// Conversations with zero unread are omitted.
func (r *ReceiptRepo) UnreadCounts(ctx context.Context, userID int) (map[int]int, error) {
	rows, err := r.db.QueryxContext(ctx,
		`SELECT m.conversation_id, COUNT(*)
         FROM messages m
         JOIN conversations c ON c.id = m.conversation_id
         LEFT JOIN read_receipts rr ON rr.message_id = m.id AND rr.user_id = $1
         WHERE (c.user1_id=$1 OR c.user2_id=$1) AND c.state <> $2
           AND m.sender_id <> $1 AND rr.message_id IS NULL
         GROUP BY m.conversation_id`,
		userID, models.StateDeleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[int]int{}
	for rows.Next() {
		var convID, n int
		if err := rows.Scan(&convID, &n); err != nil {
			return nil, err
		}
		counts[convID] = n
	}
	return counts, rows.Err()
}

// UnreadCount returns the unread count for a single conversation.
func (r *ReceiptRepo) UnreadCount(ctx context.Context, conversationID, userID int) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*)
         FROM messages m
         LEFT JOIN read_receipts rr ON rr.message_id = m.id AND rr.user_id = $1
         WHERE m.conversation_id=$2 AND m.sender_id <> $1 AND rr.message_id IS NULL`,
		userID, conversationID)
	return n, err
}
