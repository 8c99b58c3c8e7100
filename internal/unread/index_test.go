package unread

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messaging-service/internal/mocks"
	"messaging-service/internal/models"
)

func TestComputeFullSeedsCounts(t *testing.T) {
	ledger := new(mocks.ReceiptRepositoryMock)
	ledger.On("UnreadCounts", mock.Anything, 1).Return(map[int]int{10: 3, 11: 1}, nil).Once()

	ix := NewIndex(1, ledger)
	require.NoError(t, ix.ComputeFull(context.Background()))

	require.Equal(t, 4, ix.Total())
	require.Equal(t, 3, ix.Count(10))
	require.Equal(t, 1, ix.Count(11))
	require.Equal(t, 0, ix.Count(99))
	ledger.AssertExpectations(t)
}

func TestOnInboundMessageIncrements(t *testing.T) {
	ledger := new(mocks.ReceiptRepositoryMock)
	ix := NewIndex(1, ledger)

	ix.OnInboundMessage(10)
	ix.OnInboundMessage(10)
	ix.OnInboundMessage(11)

	require.Equal(t, 3, ix.Total())
	require.Equal(t, 2, ix.Count(10))
	require.ElementsMatch(t, []int{10, 11}, ix.Conversations())
}

func TestMarkReadDecrementsByReceiptsCreated(t *testing.T) {
	ledger := new(mocks.ReceiptRepositoryMock)
	ledger.On("UnreadCounts", mock.Anything, 1).Return(map[int]int{10: 3}, nil).Once()
	// Only two receipts got created: a third message arrived between the
	// snapshot and the mark, or another tab already covered one.
	ledger.On("MarkConversationRead", mock.Anything, 10, 1).Return([]models.ReadReceipt{
		{ConversationID: 10, MessageID: 100, UserID: 1},
		{ConversationID: 10, MessageID: 101, UserID: 1},
	}, nil).Once()

	ix := NewIndex(1, ledger)
	require.NoError(t, ix.ComputeFull(context.Background()))

	created, err := ix.MarkRead(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, created, 2)
	require.Equal(t, 1, ix.Total())
	require.Equal(t, 1, ix.Count(10))
	ledger.AssertExpectations(t)
}

func TestMarkReadIdempotent(t *testing.T) {
	ledger := new(mocks.ReceiptRepositoryMock)
	ledger.On("UnreadCounts", mock.Anything, 1).Return(map[int]int{10: 1}, nil).Once()
	ledger.On("MarkConversationRead", mock.Anything, 10, 1).Return([]models.ReadReceipt{
		{ConversationID: 10, MessageID: 100, UserID: 1},
	}, nil).Once()
	// Second mark creates nothing; the ledger absorbed the duplicates.
	ledger.On("MarkConversationRead", mock.Anything, 10, 1).Return([]models.ReadReceipt{}, nil).Once()

	ix := NewIndex(1, ledger)
	require.NoError(t, ix.ComputeFull(context.Background()))

	_, err := ix.MarkRead(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, 0, ix.Total())

	_, err = ix.MarkRead(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, 0, ix.Total())
	ledger.AssertExpectations(t)
}

func TestApplyReadClampTriggersRecompute(t *testing.T) {
	ledger := new(mocks.ReceiptRepositoryMock)
	ledger.On("UnreadCounts", mock.Anything, 1).Return(map[int]int{10: 1}, nil).Once()
	// The clamp fires when more receipts were created than the local count
	// knew about; the index must fall back to the ledger.
	ledger.On("UnreadCount", mock.Anything, 10, 1).Return(2, nil).Once()

	ix := NewIndex(1, ledger)
	require.NoError(t, ix.ComputeFull(context.Background()))

	ix.ApplyRead(context.Background(), 10, 5)

	require.Equal(t, 2, ix.Total())
	require.Equal(t, 2, ix.Count(10))
	ledger.AssertExpectations(t)
}

func TestOnReceiptReconcilesToLedger(t *testing.T) {
	ledger := new(mocks.ReceiptRepositoryMock)
	ledger.On("UnreadCounts", mock.Anything, 1).Return(map[int]int{10: 2}, nil).Once()
	ledger.On("UnreadCount", mock.Anything, 10, 1).Return(1, nil).Once()

	ix := NewIndex(1, ledger)
	require.NoError(t, ix.ComputeFull(context.Background()))

	ix.OnReceipt(context.Background(), 10)

	require.Equal(t, 1, ix.Total())
	require.Equal(t, 1, ix.Count(10))
	ledger.AssertExpectations(t)
}

func TestOnReceiptEchoOfLocalReadIsAbsorbed(t *testing.T) {
	ledger := new(mocks.ReceiptRepositoryMock)
	ledger.On("UnreadCounts", mock.Anything, 1).Return(map[int]int{10: 1}, nil).Once()
	ledger.On("MarkConversationRead", mock.Anything, 10, 1).Return([]models.ReadReceipt{
		{ConversationID: 10, MessageID: 100, UserID: 1},
	}, nil).Once()
	// The broker echoes the receipt this session just created; the
	// reconcile against the ledger keeps the count at the truth.
	ledger.On("UnreadCount", mock.Anything, 10, 1).Return(0, nil).Once()

	ix := NewIndex(1, ledger)
	require.NoError(t, ix.ComputeFull(context.Background()))

	_, err := ix.MarkRead(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, 0, ix.Total())

	ix.OnReceipt(context.Background(), 10)
	require.Equal(t, 0, ix.Total())
	require.Empty(t, ix.Conversations())
	ledger.AssertExpectations(t)
}

func TestOnReceiptLedgerErrorKeepsLocalCount(t *testing.T) {
	ledger := new(mocks.ReceiptRepositoryMock)
	ledger.On("UnreadCounts", mock.Anything, 1).Return(map[int]int{10: 2}, nil).Once()
	ledger.On("UnreadCount", mock.Anything, 10, 1).Return(0, assert.AnError).Once()

	ix := NewIndex(1, ledger)
	require.NoError(t, ix.ComputeFull(context.Background()))

	ix.OnReceipt(context.Background(), 10)

	// The decrement applied; only the set-membership refinement was lost.
	require.Equal(t, 1, ix.Total())
	require.Equal(t, 1, ix.Count(10))
	ledger.AssertExpectations(t)
}

func TestMarkAllReadFoldsPerConversation(t *testing.T) {
	ledger := new(mocks.ReceiptRepositoryMock)
	ledger.On("UnreadCounts", mock.Anything, 1).Return(map[int]int{10: 2, 11: 1}, nil).Once()
	ledger.On("MarkAllRead", mock.Anything, 1).Return([]models.ReadReceipt{
		{ConversationID: 10, MessageID: 100, UserID: 1},
		{ConversationID: 10, MessageID: 101, UserID: 1},
		{ConversationID: 11, MessageID: 102, UserID: 1},
	}, nil).Once()

	ix := NewIndex(1, ledger)
	require.NoError(t, ix.ComputeFull(context.Background()))

	created, err := ix.MarkAllRead(context.Background())
	require.NoError(t, err)
	require.Len(t, created, 3)
	require.Equal(t, 0, ix.Total())
	require.Empty(t, ix.Conversations())
	ledger.AssertExpectations(t)
}

// TestRandomizedAgainstNaiveModel drives the index with a random mix of
// inbound messages and reads and compares every intermediate state against
// a plain counting map. Reads never exceed the model's count here, so the
// clamp repair path stays cold and the ledger is never consulted.
func TestRandomizedAgainstNaiveModel(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ledger := new(mocks.ReceiptRepositoryMock)
	ix := NewIndex(1, ledger)
	model := map[int]int{}

	for i := 0; i < 2000; i++ {
		convID := rng.Intn(8) + 1
		if rng.Intn(3) > 0 || model[convID] == 0 {
			ix.OnInboundMessage(convID)
			model[convID]++
		} else {
			n := rng.Intn(model[convID]) + 1
			ix.ApplyRead(context.Background(), convID, n)
			model[convID] -= n
		}

		total := 0
		for id, n := range model {
			total += n
			require.Equal(t, n, ix.Count(id), "conversation %d after step %d", id, i)
		}
		require.Equal(t, total, ix.Total(), "total after step %d", i)
	}
	ledger.AssertExpectations(t)
}

func TestSnapshotIsACopy(t *testing.T) {
	ledger := new(mocks.ReceiptRepositoryMock)
	ix := NewIndex(1, ledger)
	ix.OnInboundMessage(10)

	total, counts := ix.Snapshot()
	require.Equal(t, 1, total)
	counts[10] = 99

	require.Equal(t, 1, ix.Count(10))
}
