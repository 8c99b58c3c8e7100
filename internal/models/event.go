package models

// SessionEvent is broadcast to every websocket tab of a user after the
// reconciliation layer has folded a backend change into the session stores.
type SessionEvent struct {
	Type           string        `json:"type"`
	Conversation   *Conversation `json:"conversation,omitempty"`
	Message        *Message      `json:"message,omitempty"`
	ConversationID int           `json:"conversation_id,omitempty"`
	TotalUnread    int           `json:"total_unread"`
}

// SessionEvent types.
const (
	EventConversation = "conversation"
	EventMessage      = "message"
	EventRead         = "read"
)
