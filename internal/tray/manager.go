// Package tray manages the per-user registry of floating conversation
// windows: which conversations are open, whether each window is minimized
// and its unread badge. The registry is persisted after every mutation and
// reloaded when the session starts.
package tray

import (
	"log"
	"sync"

	"messaging-service/internal/models"
)

// Manager holds one user's tray. Entries keep insertion order, one entry
// per conversation. Tray membership is independent of the conversation's
// lifecycle state: a window stays open even if the other party deletes the
// conversation, until the user closes it.
type Manager struct {
	mu      sync.Mutex
	userID  int
	entries []models.TrayEntry
	store   Store
}

// NewManager loads the persisted tray for the user. Load failures beyond
// corruption are logged and the tray starts empty.
func NewManager(userID int, store Store) *Manager {
	entries, err := store.Load(userID)
	if err != nil {
		log.Printf("tray: load failed for user %d, starting empty: %v", userID, err)
		entries = nil
	}
	return &Manager{
		userID:  userID,
		entries: entries,
		store:   store,
	}
}

// Open adds a window for the conversation, or surfaces an existing one:
// either way the window ends up un-minimized with its badge cleared.
func (m *Manager) Open(conversationID int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e := m.find(conversationID); e != nil {
		e.Minimized = false
		e.Unread = 0
	} else {
		m.entries = append(m.entries, models.TrayEntry{ConversationID: conversationID})
	}
	m.persist()
}

// Close removes the window entirely.
func (m *Manager) Close(conversationID int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, e := range m.entries {
		if e.ConversationID == conversationID {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			m.persist()
			return
		}
	}
}

// ToggleMinimize flips the minimized flag of an open window. Unknown
// conversations are ignored.
func (m *Manager) ToggleMinimize(conversationID int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e := m.find(conversationID); e != nil {
		e.Minimized = !e.Minimized
		m.persist()
	}
}

// SetUnread overwrites a window's unread badge.
func (m *Manager) SetUnread(conversationID, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e := m.find(conversationID); e != nil {
		e.Unread = count
		m.persist()
	}
}

// SetTitle overwrites a window's title.
func (m *Manager) SetTitle(conversationID int, title string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e := m.find(conversationID); e != nil {
		e.Title = title
		m.persist()
	}
}

// AutoOpenOnInboundMessage reacts to a message from another user. A fresh
// window opens visible with a zero badge. An existing window is forced
// visible; its badge grows by one only when it was minimized at the moment
// the message arrived, since a visible window means the message is
// presumed seen.
func (m *Manager) AutoOpenOnInboundMessage(conversationID int, senderDisplayName string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e := m.find(conversationID); e != nil {
		if e.Minimized {
			e.Unread++
		}
		e.Minimized = false
		if senderDisplayName != "" {
			e.Title = senderDisplayName
		}
	} else {
		m.entries = append(m.entries, models.TrayEntry{
			ConversationID: conversationID,
			Title:          senderDisplayName,
		})
	}
	m.persist()
}

// Entries returns a copy of the tray in insertion order.
func (m *Manager) Entries() []models.TrayEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.TrayEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Has reports whether the conversation has a tray window.
func (m *Manager) Has(conversationID int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.find(conversationID) != nil
}

func (m *Manager) find(conversationID int) *models.TrayEntry {
	for i := range m.entries {
		if m.entries[i].ConversationID == conversationID {
			return &m.entries[i]
		}
	}
	return nil
}

// persist writes the current tray through the store. Persistence is best
// effort; the in-memory tray stays authoritative for the session.
func (m *Manager) persist() {
	if err := m.store.Save(m.userID, m.entries); err != nil {
		log.Printf("tray: persist failed for user %d: %v", m.userID, err)
	}
}
