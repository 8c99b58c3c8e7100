package models

import "time"

// Message represents one message in a conversation. Messages are immutable
// once created; there is no edit or delete of message content.
type Message struct {
	ID             int       `db:"id" json:"id"`
	ConversationID int       `db:"conversation_id" json:"conversation_id"`
	SenderID       int       `db:"sender_id" json:"sender_id"`
	Body           string    `db:"body" json:"body"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	// Pending marks a locally appended optimistic entry that has not been
	// confirmed by the backend yet. Never set on rows read from storage.
	Pending bool `db:"-" json:"pending,omitempty"`
}

// Before reports whether m sorts before other in the stream order:
// created_at ascending with id as the tiebreak for equal timestamps.
func (m Message) Before(other Message) bool {
	if m.CreatedAt.Equal(other.CreatedAt) {
		return m.ID < other.ID
	}
	return m.CreatedAt.Before(other.CreatedAt)
}
