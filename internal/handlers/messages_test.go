package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messaging-service/internal/apperrors"
	"messaging-service/internal/models"
	"messaging-service/internal/stream"
)

func messageRouter(h *MessageHandler, userID int, role string) *gin.Engine {
	return setupRouter(userID, role, func(r *gin.Engine) {
		r.GET("/conversations/:conversation_id/messages", h.List)
		r.POST("/conversations/:conversation_id/messages", h.Send)
	})
}

func TestListMessagesInitialPage(t *testing.T) {
	env := newHandlerEnv(1, nil)
	router := messageRouter(NewMessageHandler(env.sessions, env.publisher), 1, models.RoleManager)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	env.convRepo.On("GetFor", mock.Anything, 10, 1).
		Return(models.Conversation{ID: 10, User1ID: 1, User2ID: 2, State: models.StateActive}, nil).Once()
	env.messageRepo.On("RecentPage", mock.Anything, 10, stream.DefaultPageSize).Return([]models.Message{
		{ID: 2, ConversationID: 10, SenderID: 2, Body: "b", CreatedAt: now.Add(time.Minute)},
		{ID: 1, ConversationID: 10, SenderID: 1, Body: "a", CreatedAt: now},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/conversations/10/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Messages []models.Message `json:"messages"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	// Chronological order, oldest first.
	require.Len(t, resp.Messages, 2)
	require.Equal(t, 1, resp.Messages[0].ID)
	require.Equal(t, 2, resp.Messages[1].ID)
	env.messageRepo.AssertExpectations(t)
}

func TestListMessagesOlderPage(t *testing.T) {
	env := newHandlerEnv(1, nil)
	router := messageRouter(NewMessageHandler(env.sessions, env.publisher), 1, models.RoleManager)

	boundary := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	env.convRepo.On("GetFor", mock.Anything, 10, 1).
		Return(models.Conversation{ID: 10, User1ID: 1, User2ID: 2, State: models.StateActive}, nil).Once()
	env.messageRepo.On("PageBefore", mock.Anything, 10, boundary, stream.DefaultPageSize).
		Return([]models.Message{}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/conversations/10/messages?before="+boundary.Format(time.RFC3339Nano), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	env.messageRepo.AssertExpectations(t)
}

func TestListMessagesNotParticipant(t *testing.T) {
	env := newHandlerEnv(1, nil)
	router := messageRouter(NewMessageHandler(env.sessions, env.publisher), 1, models.RoleManager)

	env.convRepo.On("GetFor", mock.Anything, 10, 1).Return(models.Conversation{}, apperrors.ErrNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/conversations/10/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	env.convRepo.AssertExpectations(t)
}

func TestSendMessageSuccess(t *testing.T) {
	env := newHandlerEnv(1, nil)
	router := messageRouter(NewMessageHandler(env.sessions, env.publisher), 1, models.RoleManager)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	stored := models.Message{ID: 42, ConversationID: 10, SenderID: 1, Body: "hello", CreatedAt: now}

	env.convRepo.On("GetFor", mock.Anything, 10, 1).
		Return(models.Conversation{ID: 10, User1ID: 1, User2ID: 2, State: models.StateArchived}, nil).Once()
	env.messageRepo.On("Create", mock.Anything, 10, 1, "hello").Return(stored, nil).Once()
	// New traffic pulls the archived thread back to active.
	env.convRepo.On("TouchOnMessage", mock.Anything, 10, now).
		Return(models.Conversation{ID: 10, User1ID: 1, User2ID: 2, State: models.StateActive}, nil).Once()

	body := bytes.NewBufferString(`{"body":"hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/conversations/10/messages", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp models.Message
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, 42, resp.ID)
	env.convRepo.AssertExpectations(t)
	env.messageRepo.AssertExpectations(t)
}

func TestSendMessageDeletedConversationRejected(t *testing.T) {
	env := newHandlerEnv(1, nil)
	router := messageRouter(NewMessageHandler(env.sessions, env.publisher), 1, models.RoleManager)

	env.convRepo.On("GetFor", mock.Anything, 10, 1).
		Return(models.Conversation{ID: 10, User1ID: 1, User2ID: 2, State: models.StateDeleted}, nil).Once()

	body := bytes.NewBufferString(`{"body":"hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/conversations/10/messages", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	env.messageRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	env.convRepo.AssertExpectations(t)
}

func TestSendMessageStoreFailure(t *testing.T) {
	env := newHandlerEnv(1, nil)
	router := messageRouter(NewMessageHandler(env.sessions, env.publisher), 1, models.RoleManager)

	env.convRepo.On("GetFor", mock.Anything, 10, 1).
		Return(models.Conversation{ID: 10, User1ID: 1, User2ID: 2, State: models.StateActive}, nil).Once()
	env.messageRepo.On("Create", mock.Anything, 10, 1, "hello").
		Return(models.Message{}, assert.AnError).Once()

	body := bytes.NewBufferString(`{"body":"hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/conversations/10/messages", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	env.messageRepo.AssertExpectations(t)
}
