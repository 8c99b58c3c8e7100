// Package session ties the per-user sync state together: the conversation
// store, message stream cache, unread index and tray manager live and die
// with the user's session.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"messaging-service/internal/conversations"
	"messaging-service/internal/grpc"
	"messaging-service/internal/repositories"
	"messaging-service/internal/stream"
	"messaging-service/internal/tray"
	"messaging-service/internal/unread"
)

// Session bundles one user's stateful components. Each component is a
// singleton within the session; handlers and the reconciler both go
// through the same instances so local actions and remote events converge
// on one view.
type Session struct {
	UserID        int
	Role          string
	Conversations *conversations.Store
	Stream        *stream.Cache
	Unread        *unread.Index
	Tray          *tray.Manager
}

// Deps carries the shared collaborators sessions are built from.
type Deps struct {
	ConversationRepo repositories.ConversationRepository
	MessageRepo      repositories.MessageRepository
	ReceiptRepo      repositories.ReceiptRepository
	Users            grpc.UserDirectory
	TrayStore        tray.Store
}

// Manager creates sessions on first use and hands out live ones. A session
// exists while at least one of the user's connections or requests needs
// it; Close drops it so the next request starts fresh.
type Manager struct {
	mu       sync.Mutex
	deps     Deps
	sessions map[int]*Session
	lastSeen map[int]time.Time
	now      func() time.Time
}

func NewManager(deps Deps) *Manager {
	return &Manager{
		deps:     deps,
		sessions: make(map[int]*Session),
		lastSeen: make(map[int]time.Time),
		now:      time.Now,
	}
}

// Get returns the user's session, building it on first use. Building a
// session computes the unread index from the receipt ledger and loads the
// persisted tray, so the first response a client sees is already exact.
func (m *Manager) Get(ctx context.Context, userID int, role string) (*Session, error) {
	m.mu.Lock()
	if s, ok := m.sessions[userID]; ok {
		m.lastSeen[userID] = m.now()
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	idx := unread.NewIndex(userID, m.deps.ReceiptRepo)
	if err := idx.ComputeFull(ctx); err != nil {
		return nil, fmt.Errorf("initialize session for user %d: %w", userID, err)
	}

	s := &Session{
		UserID:        userID,
		Role:          role,
		Conversations: conversations.NewStore(userID, role, m.deps.ConversationRepo, m.deps.Users),
		Stream:        stream.NewCache(userID, m.deps.MessageRepo),
		Unread:        idx,
		Tray:          tray.NewManager(userID, m.deps.TrayStore),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another request may have built the session while we were off the
	// lock; keep the one already registered.
	if existing, ok := m.sessions[userID]; ok {
		m.lastSeen[userID] = m.now()
		return existing, nil
	}
	m.sessions[userID] = s
	m.lastSeen[userID] = m.now()
	return s, nil
}

// Peek returns the session only if one is already live. The reconciler
// uses this so change events never force a session into existence.
func (m *Manager) Peek(userID int) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	return s, ok
}

// Active returns the number of live sessions.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close drops the user's session.
func (m *Manager) Close(userID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
	delete(m.lastSeen, userID)
}

// CloseAll drops every session, used on shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = make(map[int]*Session)
	m.lastSeen = make(map[int]time.Time)
}

// CloseIdle drops sessions that have not served a request for maxIdle.
// Users the inUse predicate reports as active are kept regardless, so a
// quiet websocket tab never loses its session. Returns the number of
// sessions dropped.
func (m *Manager) CloseIdle(maxIdle time.Duration, inUse func(userID int) bool) int {
	cutoff := m.now().Add(-maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()
	dropped := 0
	for userID, seen := range m.lastSeen {
		if seen.After(cutoff) {
			continue
		}
		if inUse != nil && inUse(userID) {
			continue
		}
		delete(m.sessions, userID)
		delete(m.lastSeen, userID)
		dropped++
	}
	return dropped
}
