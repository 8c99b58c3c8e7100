package models

// TrayEntry is one floating conversation window in the chat tray. The tray
// is client-local state: an entry can outlive the conversation's backend
// lifecycle (the window stays until the user closes it).
type TrayEntry struct {
	ConversationID int    `json:"conversation_id"`
	Minimized      bool   `json:"minimized"`
	Unread         int    `json:"unread"`
	Title          string `json:"title,omitempty"`
}
