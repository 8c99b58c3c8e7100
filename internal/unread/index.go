// Package unread derives and incrementally maintains per-conversation and
// global unread counts for one user session. The counts are always
// recomputable from the read-receipt ledger; the incremental path is an
// optimization, and any detected drift is resolved by recomputing the
// affected conversation from the ledger.
package unread

import (
	"context"
	"fmt"
	"log"
	"sync"

	"messaging-service/internal/models"
	"messaging-service/internal/observability"
	"messaging-service/internal/repositories"
)

// Index tracks which conversations hold unread messages and the global
// total. All methods are safe for concurrent use.
type Index struct {
	mu      sync.Mutex
	userID  int
	ledger  repositories.ReceiptRepository
	total   int
	perConv map[int]int
}

// NewIndex builds an empty index over the receipt ledger. Call ComputeFull
// before serving reads.
func NewIndex(userID int, ledger repositories.ReceiptRepository) *Index {
	return &Index{
		userID:  userID,
		ledger:  ledger,
		perConv: make(map[int]int),
	}
}

// ComputeFull rebuilds the index from the ledger: for every non-deleted
// conversation, messages sent by others minus the user's own receipts.
// Used at startup and as the drift-correction fallback.
func (ix *Index) ComputeFull(ctx context.Context) error {
	counts, err := ix.ledger.UnreadCounts(ctx, ix.userID)
	if err != nil {
		return fmt.Errorf("compute unread counts: %w", err)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.perConv = make(map[int]int, len(counts))
	ix.total = 0
	for convID, n := range counts {
		if n > 0 {
			ix.perConv[convID] = n
			ix.total += n
		}
	}
	return nil
}

// Total returns the global unread count.
func (ix *Index) Total() int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.total
}

// Count returns the unread count of one conversation.
func (ix *Index) Count(conversationID int) int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.perConv[conversationID]
}

// Snapshot returns the total and a copy of the per-conversation counts.
func (ix *Index) Snapshot() (int, map[int]int) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	counts := make(map[int]int, len(ix.perConv))
	for convID, n := range ix.perConv {
		counts[convID] = n
	}
	return ix.total, counts
}

// Conversations returns the set of conversation ids with unread messages.
func (ix *Index) Conversations() []int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ids := make([]int, 0, len(ix.perConv))
	for convID := range ix.perConv {
		ids = append(ids, convID)
	}
	return ids
}

// OnInboundMessage applies a message event from another sender: global
// count up by one, conversation added to the unread set.
func (ix *Index) OnInboundMessage(conversationID int) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.perConv[conversationID]++
	ix.total++
}

// OnReceipt applies a receipt event for the current user, which can
// originate from another tab or device. The count is decremented by one,
// then reconciled against the ledger: a single receipt event does not say
// whether it covered the last unread message, and the event may be the
// echo of a read this session already applied, so the remaining count
// settles both questions.
func (ix *Index) OnReceipt(ctx context.Context, conversationID int) {
	clamped := ix.subtract(conversationID, 1)
	if clamped {
		observability.IncDriftRecompute()
	}

	remaining, err := ix.ledger.UnreadCount(ctx, conversationID, ix.userID)
	if err != nil {
		// Stale set membership is acceptable; the next recompute fixes it.
		log.Printf("unread: remaining-count check failed for conversation %d: %v", conversationID, err)
		return
	}
	ix.reconcile(conversationID, remaining)
}

// MarkRead creates receipts for every unread message in the conversation
// and folds the result into the index. The returned rows are what was
// actually created; duplicates are absorbed by the ledger.
func (ix *Index) MarkRead(ctx context.Context, conversationID int) ([]models.ReadReceipt, error) {
	created, err := ix.ledger.MarkConversationRead(ctx, conversationID, ix.userID)
	if err != nil {
		return nil, fmt.Errorf("mark conversation %d read: %w", conversationID, err)
	}
	ix.ApplyRead(ctx, conversationID, len(created))
	return created, nil
}

// MarkAllRead creates receipts across every conversation in one backend
// call and folds the per-conversation results into the index.
func (ix *Index) MarkAllRead(ctx context.Context) ([]models.ReadReceipt, error) {
	created, err := ix.ledger.MarkAllRead(ctx, ix.userID)
	if err != nil {
		return nil, fmt.Errorf("mark all read: %w", err)
	}
	perConv := map[int]int{}
	for _, rec := range created {
		perConv[rec.ConversationID]++
	}
	for convID, n := range perConv {
		ix.ApplyRead(ctx, convID, n)
	}
	return created, nil
}

// ApplyRead folds in the result of a local mark-as-read call: the count
// drops by exactly the number of receipts created, never "to zero", so a
// message that arrived between the unread snapshot and the call survives.
func (ix *Index) ApplyRead(ctx context.Context, conversationID, receiptsCreated int) {
	if receiptsCreated < 0 {
		receiptsCreated = 0
	}
	clamped := ix.subtract(conversationID, receiptsCreated)
	if clamped {
		ix.RecomputeConversation(ctx, conversationID)
	}
}

// RecomputeConversation refreshes one conversation's count from the
// ledger, the repair path for detected drift.
func (ix *Index) RecomputeConversation(ctx context.Context, conversationID int) {
	observability.IncDriftRecompute()
	remaining, err := ix.ledger.UnreadCount(ctx, conversationID, ix.userID)
	if err != nil {
		log.Printf("unread: recompute failed for conversation %d: %v", conversationID, err)
		return
	}
	ix.reconcile(conversationID, remaining)
}

// subtract lowers the conversation and global counts, clamping both at
// zero. A hit on the clamp signals drift and is reported to the caller.
func (ix *Index) subtract(conversationID, n int) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	clamped := false
	local := ix.perConv[conversationID]
	if n > local {
		n = local
		clamped = true
	}
	if local-n <= 0 {
		delete(ix.perConv, conversationID)
	} else {
		ix.perConv[conversationID] = local - n
	}
	if n > ix.total {
		ix.total = 0
		clamped = true
	} else {
		ix.total -= n
	}
	return clamped
}

// reconcile sets one conversation's count to the ledger's answer and
// keeps the total consistent.
func (ix *Index) reconcile(conversationID, remaining int) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.total -= ix.perConv[conversationID]
	if remaining > 0 {
		ix.perConv[conversationID] = remaining
		ix.total += remaining
	} else {
		delete(ix.perConv, conversationID)
	}
	if ix.total < 0 {
		ix.total = 0
	}
}
