package models

import "time"

// LifecycleState is the backend lifecycle of a conversation.
type LifecycleState string

const (
	StateActive   LifecycleState = "active"
	StateArchived LifecycleState = "archived"
	StateDeleted  LifecycleState = "deleted"
)

// Conversation represents a direct messaging thread between exactly two users.
// A new row is created on every "start conversation" action; parallel threads
// between the same pair are allowed on purpose.
type Conversation struct {
	ID        int            `db:"id" json:"id"`
	User1ID   int            `db:"user1_id" json:"user1_id"`
	User2ID   int            `db:"user2_id" json:"user2_id"`
	Subject   string         `db:"subject" json:"subject,omitempty"`
	State     LifecycleState `db:"state" json:"state"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time     `db:"deleted_at" json:"deleted_at,omitempty"`
	DeletedBy *int           `db:"deleted_by" json:"deleted_by,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// OtherParticipant returns the counterpart of userID in the conversation.
func (c Conversation) OtherParticipant(userID int) int {
	if c.User1ID == userID {
		return c.User2ID
	}
	return c.User1ID
}

// HasParticipant reports whether userID belongs to the conversation.
func (c Conversation) HasParticipant(userID int) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// ConversationSummary provides the API-friendly view of a conversation for
// one user of it.
type ConversationSummary struct {
	ID            int            `json:"id"`
	OtherUserID   int            `json:"other_user_id"`
	OtherUsername string         `json:"other_username,omitempty"`
	Subject       string         `json:"subject,omitempty"`
	State         LifecycleState `json:"state"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
