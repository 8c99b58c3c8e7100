package sync

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messaging-service/internal/mocks"
	"messaging-service/internal/models"
	"messaging-service/internal/session"
)

type recordingHub struct {
	mu     sync.Mutex
	pushed map[int][]models.SessionEvent
}

func newRecordingHub() *recordingHub {
	return &recordingHub{pushed: make(map[int][]models.SessionEvent)}
}

func (h *recordingHub) Push(userID int, event models.SessionEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pushed[userID] = append(h.pushed[userID], event)
}

func (h *recordingHub) events(userID int) []models.SessionEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pushed[userID]
}

type fixture struct {
	convRepo    *mocks.ConversationRepositoryMock
	messageRepo *mocks.MessageRepositoryMock
	receiptRepo *mocks.ReceiptRepositoryMock
	users       *mocks.UserDirectoryMock
	trayStore   *mocks.TrayStoreMock
	sessions    *session.Manager
	hub         *recordingHub
	reconciler  *Reconciler
}

func newFixture() *fixture {
	f := &fixture{
		convRepo:    new(mocks.ConversationRepositoryMock),
		messageRepo: new(mocks.MessageRepositoryMock),
		receiptRepo: new(mocks.ReceiptRepositoryMock),
		users:       new(mocks.UserDirectoryMock),
		trayStore:   new(mocks.TrayStoreMock),
		hub:         newRecordingHub(),
	}
	f.sessions = session.NewManager(session.Deps{
		ConversationRepo: f.convRepo,
		MessageRepo:      f.messageRepo,
		ReceiptRepo:      f.receiptRepo,
		Users:            f.users,
		TrayStore:        f.trayStore,
	})
	f.reconciler = NewReconciler(f.sessions, f.convRepo, f.users, f.hub)
	return f
}

// startSession brings a user session up the way a websocket connect would.
func (f *fixture) startSession(t *testing.T, userID int, unread map[int]int) *session.Session {
	t.Helper()
	f.receiptRepo.On("UnreadCounts", mock.Anything, userID).Return(unread, nil).Once()
	f.trayStore.On("Load", userID).Return([]models.TrayEntry(nil), nil).Once()
	f.trayStore.On("Save", userID, mock.Anything).Return(nil).Maybe()

	sess, err := f.sessions.Get(context.Background(), userID, models.RoleManager)
	require.NoError(t, err)
	return sess
}

func messageEnvelope(t *testing.T, msg models.Message) ChangeEnvelope {
	t.Helper()
	env, err := NewChange(StreamMessages, OpInsert, msg)
	require.NoError(t, err)
	return env
}

func TestMessageEventReachesBothParticipants(t *testing.T) {
	f := newFixture()
	sender := f.startSession(t, 1, nil)
	recipient := f.startSession(t, 2, nil)

	conv := models.Conversation{ID: 10, User1ID: 1, User2ID: 2, State: models.StateActive}
	f.convRepo.On("Get", mock.Anything, 10).Return(conv, nil).Once()
	f.users.On("DisplayName", mock.Anything, 1).Return("Ada", nil).Once()

	msg := models.Message{ID: 100, ConversationID: 10, SenderID: 1, Body: "hi", CreatedAt: time.Now()}
	require.NoError(t, f.reconciler.Handle(context.Background(), messageEnvelope(t, msg)))

	// The sender's unread stays put; the recipient's grows.
	require.Equal(t, 0, sender.Unread.Total())
	require.Equal(t, 1, recipient.Unread.Total())
	require.Equal(t, 1, recipient.Unread.Count(10))

	// The recipient's tray window opened with the sender's name.
	entries := recipient.Tray.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, 10, entries[0].ConversationID)
	require.Equal(t, "Ada", entries[0].Title)

	require.Len(t, f.hub.events(1), 1)
	require.Len(t, f.hub.events(2), 1)
	require.Equal(t, models.EventMessage, f.hub.events(2)[0].Type)
	require.Equal(t, 1, f.hub.events(2)[0].TotalUnread)
	f.convRepo.AssertExpectations(t)
}

func TestDuplicateMessageEventSuppressed(t *testing.T) {
	f := newFixture()
	f.startSession(t, 2, nil)

	conv := models.Conversation{ID: 10, User1ID: 1, User2ID: 2, State: models.StateActive}
	f.convRepo.On("Get", mock.Anything, 10).Return(conv, nil).Once()
	f.users.On("DisplayName", mock.Anything, 1).Return("Ada", nil).Once()

	msg := models.Message{ID: 100, ConversationID: 10, SenderID: 1, Body: "hi", CreatedAt: time.Now()}
	require.NoError(t, f.reconciler.Handle(context.Background(), messageEnvelope(t, msg)))
	require.NoError(t, f.reconciler.Handle(context.Background(), messageEnvelope(t, msg)))

	sess, ok := f.sessions.Peek(2)
	require.True(t, ok)
	require.Equal(t, 1, sess.Unread.Total())
	require.Len(t, f.hub.events(2), 1)
	f.convRepo.AssertExpectations(t)
}

func TestMessageIntoDeletedConversationLeavesUnreadAlone(t *testing.T) {
	f := newFixture()
	recipient := f.startSession(t, 2, nil)

	conv := models.Conversation{ID: 10, User1ID: 1, User2ID: 2, State: models.StateDeleted}
	f.convRepo.On("Get", mock.Anything, 10).Return(conv, nil).Once()

	msg := models.Message{ID: 100, ConversationID: 10, SenderID: 1, Body: "late", CreatedAt: time.Now()}
	require.NoError(t, f.reconciler.Handle(context.Background(), messageEnvelope(t, msg)))

	// A recompute excludes deleted conversations, so the incremental
	// index must not count this message either.
	require.Equal(t, 0, recipient.Unread.Total())
	require.Equal(t, 0, recipient.Unread.Count(10))
	require.Empty(t, recipient.Tray.Entries())
	f.users.AssertNotCalled(t, "DisplayName", mock.Anything, 1)
	f.convRepo.AssertExpectations(t)
}

func TestMessageEventWithoutLiveSessionIsQuiet(t *testing.T) {
	f := newFixture()

	conv := models.Conversation{ID: 10, User1ID: 1, User2ID: 2, State: models.StateActive}
	f.convRepo.On("Get", mock.Anything, 10).Return(conv, nil).Once()

	msg := models.Message{ID: 100, ConversationID: 10, SenderID: 1, Body: "hi", CreatedAt: time.Now()}
	require.NoError(t, f.reconciler.Handle(context.Background(), messageEnvelope(t, msg)))

	require.Empty(t, f.hub.events(1))
	require.Empty(t, f.hub.events(2))
}

func TestMessageEventSenderOutsideConversationDropped(t *testing.T) {
	f := newFixture()
	f.startSession(t, 2, nil)

	conv := models.Conversation{ID: 10, User1ID: 1, User2ID: 2, State: models.StateActive}
	f.convRepo.On("Get", mock.Anything, 10).Return(conv, nil).Once()

	msg := models.Message{ID: 100, ConversationID: 10, SenderID: 9, Body: "hi", CreatedAt: time.Now()}
	require.Error(t, f.reconciler.Handle(context.Background(), messageEnvelope(t, msg)))
	require.Empty(t, f.hub.events(2))
}

func TestReceiptEventDecrementsOwner(t *testing.T) {
	f := newFixture()
	sess := f.startSession(t, 2, map[int]int{10: 2})
	f.receiptRepo.On("UnreadCount", mock.Anything, 10, 2).Return(1, nil).Once()

	env, err := NewChange(StreamReceipts, OpInsert, models.ReadReceipt{
		ConversationID: 10, MessageID: 100, UserID: 2, ReadAt: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, f.reconciler.Handle(context.Background(), env))

	require.Equal(t, 1, sess.Unread.Total())
	events := f.hub.events(2)
	require.Len(t, events, 1)
	require.Equal(t, models.EventRead, events[0].Type)
	require.Equal(t, 10, events[0].ConversationID)
	require.Equal(t, 1, events[0].TotalUnread)
	f.receiptRepo.AssertExpectations(t)
}

func TestConversationDeleteDropsStreamWindow(t *testing.T) {
	f := newFixture()
	sess := f.startSession(t, 1, nil)

	f.messageRepo.On("RecentPage", mock.Anything, 10, mock.Anything).Return([]models.Message{}, nil).Once()
	_, err := sess.Stream.LoadInitial(context.Background(), 10)
	require.NoError(t, err)
	require.True(t, sess.Stream.Materialized(10))

	now := time.Now()
	env, err := NewChange(StreamConversations, OpUpdate, models.Conversation{
		ID: 10, User1ID: 1, User2ID: 2, State: models.StateDeleted, UpdatedAt: now, CreatedAt: now,
	})
	require.NoError(t, err)
	require.NoError(t, f.reconciler.Handle(context.Background(), env))

	require.False(t, sess.Stream.Materialized(10))
	events := f.hub.events(1)
	require.Len(t, events, 1)
	require.Equal(t, models.EventConversation, events[0].Type)
	require.Equal(t, models.StateDeleted, events[0].Conversation.State)
}

func TestUnknownStreamRejected(t *testing.T) {
	f := newFixture()
	err := f.reconciler.Handle(context.Background(), ChangeEnvelope{Stream: "presence", Op: OpInsert})
	require.Error(t, err)
}

func TestMalformedRowRejected(t *testing.T) {
	f := newFixture()
	err := f.reconciler.Handle(context.Background(), ChangeEnvelope{
		Stream: StreamMessages, Op: OpInsert, Row: []byte(`{"id":"not-a-number"}`),
	})
	require.Error(t, err)
}
