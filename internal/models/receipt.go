package models

import "time"

// ReadReceipt records that a user has seen a message. Identity is the
// (message_id, user_id) pair; storage enforces uniqueness so duplicate
// inserts are no-ops.
type ReadReceipt struct {
	ConversationID int       `db:"conversation_id" json:"conversation_id"`
	MessageID      int       `db:"message_id" json:"message_id"`
	UserID         int       `db:"user_id" json:"user_id"`
	ReadAt         time.Time `db:"read_at" json:"read_at"`
}
