// Package stream maintains the per-conversation ordered message buffer for
// one user session: backward pagination over the backend's recent-first
// pages plus live append from the reconciliation layer, with dedup by id.
package stream

import (
	"context"
	"fmt"
	"sync"
	"time"

	"messaging-service/internal/models"
	"messaging-service/internal/repositories"
)

// DefaultPageSize is the window loaded by LoadInitial and LoadOlder.
const DefaultPageSize = 50

// Cache is a Message Stream Cache for one user session. A conversation is
// "materialized" after LoadInitial; realtime appends for non-materialized
// conversations are ignored (they will be fetched when the window opens).
type Cache struct {
	mu          sync.Mutex
	userID      int
	backend     repositories.MessageRepository
	windows     map[int][]models.Message
	nextPending int
	pageSize    int
}

// NewCache builds an empty cache over the backend message store.
func NewCache(userID int, backend repositories.MessageRepository) *Cache {
	return &Cache{
		userID:      userID,
		backend:     backend,
		windows:     make(map[int][]models.Message),
		nextPending: -1,
		pageSize:    DefaultPageSize,
	}
}

// LoadInitial fetches the most recent page of a conversation and returns it
// in chronological order, materializing the conversation window.
func (c *Cache) LoadInitial(ctx context.Context, conversationID int) ([]models.Message, error) {
	page, err := c.backend.RecentPage(ctx, conversationID, c.pageSize)
	if err != nil {
		return nil, fmt.Errorf("load initial page: %w", err)
	}
	reverse(page)

	c.mu.Lock()
	defer c.mu.Unlock()
	// Keep any live appends that raced ahead of the fetch.
	merged := page
	for _, existing := range c.windows[conversationID] {
		merged = insertOrdered(merged, existing)
	}
	c.windows[conversationID] = merged
	return copyMessages(merged), nil
}

// LoadOlder fetches the page strictly older than the boundary, returned in
// chronological order after reversing the backend's recent-first fetch, and
// prepends it to the materialized window.
func (c *Cache) LoadOlder(ctx context.Context, conversationID int, before time.Time) ([]models.Message, error) {
	page, err := c.backend.PageBefore(ctx, conversationID, before, c.pageSize)
	if err != nil {
		return nil, fmt.Errorf("load older page: %w", err)
	}
	reverse(page)

	c.mu.Lock()
	defer c.mu.Unlock()
	if window, ok := c.windows[conversationID]; ok {
		merged := window
		for _, msg := range page {
			merged = insertOrdered(merged, msg)
		}
		c.windows[conversationID] = merged
	}
	return copyMessages(page), nil
}

// Append inserts a message keeping sort order. Duplicate ids are dropped:
// realtime delivery and the optimistic local insert on send can race, and
// the second arrival must be a no-op. Returns whether the message was added.
func (c *Cache) Append(msg models.Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.appendLocked(msg)
}

func (c *Cache) appendLocked(msg models.Message) bool {
	window, ok := c.windows[msg.ConversationID]
	if !ok {
		return false
	}
	for _, existing := range window {
		if existing.ID == msg.ID {
			return false
		}
	}
	c.windows[msg.ConversationID] = insertOrdered(window, msg)
	return true
}

// Materialized reports whether the conversation window is loaded.
func (c *Cache) Materialized(conversationID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.windows[conversationID]
	return ok
}

// Messages returns a copy of the materialized window, oldest first.
func (c *Cache) Messages(conversationID int) []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyMessages(c.windows[conversationID])
}

// Drop discards the materialized window for a conversation.
func (c *Cache) Drop(conversationID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.windows, conversationID)
}

// Send stores a message through the backend. A pending entry is appended
// optimistically first; on confirmation it is swapped for the authoritative
// row (the realtime echo of the same row deduplicates away), on failure it
// is removed so the caller can restore the typed text and surface the error.
func (c *Cache) Send(ctx context.Context, conversationID int, body string) (models.Message, error) {
	c.mu.Lock()
	pendingID := c.nextPending
	c.nextPending--
	pending := models.Message{
		ID:             pendingID,
		ConversationID: conversationID,
		SenderID:       c.userID,
		Body:           body,
		CreatedAt:      time.Now(),
		Pending:        true,
	}
	c.appendLocked(pending)
	c.mu.Unlock()

	msg, err := c.backend.Create(ctx, conversationID, c.userID, body)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.removePendingLocked(conversationID, pendingID)
	if err != nil {
		return models.Message{}, fmt.Errorf("send message: %w", err)
	}
	c.appendLocked(msg)
	return msg, nil
}

func (c *Cache) removePendingLocked(conversationID, pendingID int) {
	window, ok := c.windows[conversationID]
	if !ok {
		return
	}
	for i, msg := range window {
		if msg.ID == pendingID {
			c.windows[conversationID] = append(window[:i], window[i+1:]...)
			return
		}
	}
}

func insertOrdered(window []models.Message, msg models.Message) []models.Message {
	for _, existing := range window {
		if existing.ID == msg.ID {
			return window
		}
	}
	i := len(window)
	for i > 0 && msg.Before(window[i-1]) {
		i--
	}
	window = append(window, models.Message{})
	copy(window[i+1:], window[i:])
	window[i] = msg
	return window
}

func reverse(msgs []models.Message) {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
}

func copyMessages(msgs []models.Message) []models.Message {
	out := make([]models.Message, len(msgs))
	copy(out, msgs)
	return out
}
