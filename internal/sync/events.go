// Package sync is the realtime reconciliation layer: the single ingestion
// point for backend row changes. Changes arrive as envelopes on the
// message broker, are verified against conversation membership and folded
// into the live sessions of affected users.
package sync

import (
	"context"
	"encoding/json"
	"fmt"

	"messaging-service/internal/models"
)

// Publisher is the slice of the broker publisher the change feed needs.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// Exchange and routing keys of the row-change topic.
const (
	Exchange = "messaging.changes"

	RouteConversations = "changes.conversations"
	RouteMessages      = "changes.messages"
	RouteReceipts      = "changes.receipts"
)

// Change streams carried in envelopes.
const (
	StreamConversations = "conversations"
	StreamMessages      = "messages"
	StreamReceipts      = "receipts"
)

// Row operations.
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// ChangeEnvelope is the wire format of one row change. Row holds the full
// row after the operation (for deletes, the row as it was removed).
type ChangeEnvelope struct {
	Stream string          `json:"stream"`
	Op     string          `json:"op"`
	Row    json.RawMessage `json:"row"`
}

// NewChange builds an envelope around a row, used by the publishing side.
func NewChange(stream, op string, row any) (ChangeEnvelope, error) {
	raw, err := json.Marshal(row)
	if err != nil {
		return ChangeEnvelope{}, fmt.Errorf("encode change row: %w", err)
	}
	return ChangeEnvelope{Stream: stream, Op: op, Row: raw}, nil
}

// PublishChange wraps a row in an envelope and publishes it on the change
// topic. Handlers call this after a successful write so every replica,
// including the one that performed the write, learns about it the same way.
func PublishChange(ctx context.Context, p Publisher, stream, op string, row any) error {
	env, err := NewChange(stream, op, row)
	if err != nil {
		return err
	}
	return p.Publish(ctx, RouteFor(stream), env)
}

// RouteFor maps a stream to its routing key.
func RouteFor(stream string) string {
	switch stream {
	case StreamConversations:
		return RouteConversations
	case StreamMessages:
		return RouteMessages
	case StreamReceipts:
		return RouteReceipts
	}
	return "changes." + stream
}

func (e ChangeEnvelope) conversationRow() (models.Conversation, error) {
	var c models.Conversation
	if err := json.Unmarshal(e.Row, &c); err != nil {
		return models.Conversation{}, fmt.Errorf("decode conversation row: %w", err)
	}
	return c, nil
}

func (e ChangeEnvelope) messageRow() (models.Message, error) {
	var m models.Message
	if err := json.Unmarshal(e.Row, &m); err != nil {
		return models.Message{}, fmt.Errorf("decode message row: %w", err)
	}
	return m, nil
}

func (e ChangeEnvelope) receiptRow() (models.ReadReceipt, error) {
	var r models.ReadReceipt
	if err := json.Unmarshal(e.Row, &r); err != nil {
		return models.ReadReceipt{}, fmt.Errorf("decode receipt row: %w", err)
	}
	return r, nil
}
