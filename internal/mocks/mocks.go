package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"messaging-service/internal/models"
)

type ConversationRepositoryMock struct {
	mock.Mock
}

func (m *ConversationRepositoryMock) CreateDirect(ctx context.Context, userID, otherUserID int, subject string) (models.Conversation, error) {
	args := m.Called(ctx, userID, otherUserID, subject)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) Get(ctx context.Context, id int) (models.Conversation, error) {
	args := m.Called(ctx, id)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) GetFor(ctx context.Context, id, userID int) (models.Conversation, error) {
	args := m.Called(ctx, id, userID)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) IsParticipant(ctx context.Context, id, userID int) (bool, error) {
	args := m.Called(ctx, id, userID)
	return args.Bool(0), args.Error(1)
}

func (m *ConversationRepositoryMock) List(ctx context.Context, userID int, state models.LifecycleState) ([]models.Conversation, error) {
	args := m.Called(ctx, userID, state)
	var list []models.Conversation
	if val := args.Get(0); val != nil {
		list = val.([]models.Conversation)
	}
	return list, args.Error(1)
}

func (m *ConversationRepositoryMock) ListDeleted(ctx context.Context, userID int) ([]models.Conversation, error) {
	args := m.Called(ctx, userID)
	var list []models.Conversation
	if val := args.Get(0); val != nil {
		list = val.([]models.Conversation)
	}
	return list, args.Error(1)
}

func (m *ConversationRepositoryMock) Archive(ctx context.Context, id, userID int) (models.Conversation, error) {
	args := m.Called(ctx, id, userID)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) Unarchive(ctx context.Context, id, userID int) (models.Conversation, error) {
	args := m.Called(ctx, id, userID)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) SoftDelete(ctx context.Context, id, userID int) (models.Conversation, error) {
	args := m.Called(ctx, id, userID)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) Restore(ctx context.Context, id, userID int) (models.Conversation, error) {
	args := m.Called(ctx, id, userID)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) Purge(ctx context.Context, id, userID int) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *ConversationRepositoryMock) TouchOnMessage(ctx context.Context, id int, at time.Time) (models.Conversation, error) {
	args := m.Called(ctx, id, at)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) Create(ctx context.Context, conversationID, senderID int, body string) (models.Message, error) {
	args := m.Called(ctx, conversationID, senderID, body)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) RecentPage(ctx context.Context, conversationID, limit int) ([]models.Message, error) {
	args := m.Called(ctx, conversationID, limit)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) PageBefore(ctx context.Context, conversationID int, before time.Time, limit int) ([]models.Message, error) {
	args := m.Called(ctx, conversationID, before, limit)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

type ReceiptRepositoryMock struct {
	mock.Mock
}

func (m *ReceiptRepositoryMock) MarkConversationRead(ctx context.Context, conversationID, userID int) ([]models.ReadReceipt, error) {
	args := m.Called(ctx, conversationID, userID)
	var created []models.ReadReceipt
	if val := args.Get(0); val != nil {
		created = val.([]models.ReadReceipt)
	}
	return created, args.Error(1)
}

func (m *ReceiptRepositoryMock) MarkAllRead(ctx context.Context, userID int) ([]models.ReadReceipt, error) {
	args := m.Called(ctx, userID)
	var created []models.ReadReceipt
	if val := args.Get(0); val != nil {
		created = val.([]models.ReadReceipt)
	}
	return created, args.Error(1)
}

func (m *ReceiptRepositoryMock) UnreadCounts(ctx context.Context, userID int) (map[int]int, error) {
	args := m.Called(ctx, userID)
	var counts map[int]int
	if val := args.Get(0); val != nil {
		counts = val.(map[int]int)
	}
	return counts, args.Error(1)
}

func (m *ReceiptRepositoryMock) UnreadCount(ctx context.Context, conversationID, userID int) (int, error) {
	args := m.Called(ctx, conversationID, userID)
	return args.Int(0), args.Error(1)
}

type UserDirectoryMock struct {
	mock.Mock
}

func (m *UserDirectoryMock) DisplayName(ctx context.Context, userID int) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *UserDirectoryMock) DisplayNames(ctx context.Context, ids []int) (map[int]string, error) {
	args := m.Called(ctx, ids)
	var names map[int]string
	if val := args.Get(0); val != nil {
		names = val.(map[int]string)
	}
	return names, args.Error(1)
}

func (m *UserDirectoryMock) Role(ctx context.Context, userID int) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *PublisherMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

type TrayStoreMock struct {
	mock.Mock
}

func (m *TrayStoreMock) Load(userID int) ([]models.TrayEntry, error) {
	args := m.Called(userID)
	var entries []models.TrayEntry
	if val := args.Get(0); val != nil {
		entries = val.([]models.TrayEntry)
	}
	return entries, args.Error(1)
}

func (m *TrayStoreMock) Save(userID int, entries []models.TrayEntry) error {
	args := m.Called(userID, entries)
	return args.Error(0)
}
