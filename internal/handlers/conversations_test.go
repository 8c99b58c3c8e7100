package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messaging-service/internal/apperrors"
	"messaging-service/internal/mocks"
	"messaging-service/internal/models"
	"messaging-service/internal/session"
)

type handlerEnv struct {
	convRepo    *mocks.ConversationRepositoryMock
	messageRepo *mocks.MessageRepositoryMock
	receiptRepo *mocks.ReceiptRepositoryMock
	users       *mocks.UserDirectoryMock
	trayStore   *mocks.TrayStoreMock
	publisher   *mocks.PublisherMock
	sessions    *session.Manager
}

// newHandlerEnv wires a session manager over mocks, seeding the session
// bootstrap (unread counts, persisted tray) the way a first authenticated
// request would see it.
func newHandlerEnv(userID int, unread map[int]int) *handlerEnv {
	env := &handlerEnv{
		convRepo:    new(mocks.ConversationRepositoryMock),
		messageRepo: new(mocks.MessageRepositoryMock),
		receiptRepo: new(mocks.ReceiptRepositoryMock),
		users:       new(mocks.UserDirectoryMock),
		trayStore:   new(mocks.TrayStoreMock),
		publisher:   new(mocks.PublisherMock),
	}
	env.sessions = session.NewManager(session.Deps{
		ConversationRepo: env.convRepo,
		MessageRepo:      env.messageRepo,
		ReceiptRepo:      env.receiptRepo,
		Users:            env.users,
		TrayStore:        env.trayStore,
	})

	if unread == nil {
		unread = map[int]int{}
	}
	env.receiptRepo.On("UnreadCounts", mock.Anything, userID).Return(unread, nil).Once()
	env.trayStore.On("Load", userID).Return([]models.TrayEntry(nil), nil).Maybe()
	env.trayStore.On("Save", userID, mock.Anything).Return(nil).Maybe()
	env.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return env
}

func setupRouter(userID int, role string, register func(*gin.Engine)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("userRole", role)
		c.Next()
	})
	register(r)
	return r
}

func conversationRouter(h *ConversationHandler, userID int, role string) *gin.Engine {
	return setupRouter(userID, role, func(r *gin.Engine) {
		r.GET("/conversations", h.List)
		r.POST("/conversations", h.Create)
		r.GET("/conversations/trash", h.Trash)
		r.POST("/conversations/bulk/archive", h.BulkArchive)
		r.POST("/conversations/bulk/delete", h.BulkDelete)
		r.POST("/conversations/:conversation_id/archive", h.Archive)
		r.POST("/conversations/:conversation_id/restore", h.Restore)
		r.DELETE("/conversations/:conversation_id", h.Delete)
		r.DELETE("/conversations/:conversation_id/purge", h.Purge)
	})
}

func TestListConversationsSuccess(t *testing.T) {
	env := newHandlerEnv(1, nil)
	router := conversationRouter(NewConversationHandler(env.sessions, env.publisher, nil), 1, models.RoleManager)

	env.convRepo.On("List", mock.Anything, 1, models.StateActive).Return([]models.Conversation{
		{ID: 5, User1ID: 1, User2ID: 2, State: models.StateActive},
	}, nil).Once()
	env.users.On("DisplayNames", mock.Anything, []int{2}).Return(map[int]string{2: "Ada"}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/conversations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Conversations []models.ConversationSummary `json:"conversations"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Conversations, 1)
	require.Equal(t, "Ada", resp.Conversations[0].OtherUsername)
	env.convRepo.AssertExpectations(t)
}

func TestListArchivedFilter(t *testing.T) {
	env := newHandlerEnv(1, nil)
	router := conversationRouter(NewConversationHandler(env.sessions, env.publisher, nil), 1, models.RoleManager)

	env.convRepo.On("List", mock.Anything, 1, models.StateArchived).Return([]models.Conversation{}, nil).Once()
	env.users.On("DisplayNames", mock.Anything, []int{}).Return(map[int]string{}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/conversations?filter=archived", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	env.convRepo.AssertExpectations(t)
}

func TestCreateConversationSuccess(t *testing.T) {
	env := newHandlerEnv(1, nil)
	router := conversationRouter(NewConversationHandler(env.sessions, env.publisher, nil), 1, models.RoleManager)

	env.convRepo.On("CreateDirect", mock.Anything, 1, 2, "leak in unit 4").
		Return(models.Conversation{ID: 5, User1ID: 1, User2ID: 2, State: models.StateActive}, nil).Once()

	body := bytes.NewBufferString(`{"other_user_id":2,"subject":"leak in unit 4"}`)
	req := httptest.NewRequest(http.MethodPost, "/conversations", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	env.convRepo.AssertExpectations(t)
}

func TestCreateConversationRoleRestricted(t *testing.T) {
	env := newHandlerEnv(1, nil)
	router := conversationRouter(NewConversationHandler(env.sessions, env.publisher, nil), 1, models.RoleSubcontractor)

	env.users.On("Role", mock.Anything, 2).Return(models.RoleTenant, nil).Once()

	body := bytes.NewBufferString(`{"other_user_id":2}`)
	req := httptest.NewRequest(http.MethodPost, "/conversations", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	env.users.AssertExpectations(t)
}

func TestArchiveDeletedConversationConflicts(t *testing.T) {
	env := newHandlerEnv(1, nil)
	router := conversationRouter(NewConversationHandler(env.sessions, env.publisher, nil), 1, models.RoleManager)

	env.convRepo.On("Archive", mock.Anything, 5, 1).Return(models.Conversation{}, apperrors.ErrInvalidTransition).Once()

	req := httptest.NewRequest(http.MethodPost, "/conversations/5/archive", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	env.convRepo.AssertExpectations(t)
}

func TestRestoreNotFound(t *testing.T) {
	env := newHandlerEnv(1, nil)
	router := conversationRouter(NewConversationHandler(env.sessions, env.publisher, nil), 1, models.RoleManager)

	env.convRepo.On("Restore", mock.Anything, 5, 1).Return(models.Conversation{}, apperrors.ErrNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/conversations/5/restore", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	env.convRepo.AssertExpectations(t)
}

func TestDeleteConversationSuccess(t *testing.T) {
	env := newHandlerEnv(1, nil)
	router := conversationRouter(NewConversationHandler(env.sessions, env.publisher, nil), 1, models.RoleManager)

	env.convRepo.On("SoftDelete", mock.Anything, 5, 1).
		Return(models.Conversation{ID: 5, User1ID: 1, User2ID: 2, State: models.StateDeleted}, nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/conversations/5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	env.convRepo.AssertExpectations(t)
}

func TestPurgeForbiddenForTenant(t *testing.T) {
	env := newHandlerEnv(1, nil)
	router := conversationRouter(NewConversationHandler(env.sessions, env.publisher, nil), 1, models.RoleTenant)

	env.convRepo.On("GetFor", mock.Anything, 5, 1).
		Return(models.Conversation{ID: 5, User1ID: 1, User2ID: 2, State: models.StateDeleted}, nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/conversations/5/purge", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	env.convRepo.AssertExpectations(t)
}

func TestBulkArchivePartialFailure(t *testing.T) {
	env := newHandlerEnv(1, nil)
	router := conversationRouter(NewConversationHandler(env.sessions, env.publisher, nil), 1, models.RoleManager)

	env.convRepo.On("Archive", mock.Anything, 1, 1).
		Return(models.Conversation{ID: 1, User1ID: 1, User2ID: 2, State: models.StateArchived}, nil).Once()
	env.convRepo.On("Archive", mock.Anything, 2, 1).
		Return(models.Conversation{}, apperrors.ErrNotFound).Once()
	env.convRepo.On("GetFor", mock.Anything, 1, 1).
		Return(models.Conversation{ID: 1, User1ID: 1, User2ID: 2, State: models.StateArchived}, nil).Once()

	body := bytes.NewBufferString(`{"ids":[1,2]}`)
	req := httptest.NewRequest(http.MethodPost, "/conversations/bulk/archive", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusMultiStatus, rec.Code)
	var resp struct {
		Done   []int             `json:"done"`
		Failed map[string]string `json:"failed"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, []int{1}, resp.Done)
	require.Contains(t, resp.Failed, "2")
	env.convRepo.AssertExpectations(t)
}

func TestBulkDeleteAllFailConflicts(t *testing.T) {
	env := newHandlerEnv(1, nil)
	router := conversationRouter(NewConversationHandler(env.sessions, env.publisher, nil), 1, models.RoleManager)

	env.convRepo.On("SoftDelete", mock.Anything, 1, 1).Return(models.Conversation{}, apperrors.ErrNotFound).Once()

	body := bytes.NewBufferString(`{"ids":[1]}`)
	req := httptest.NewRequest(http.MethodPost, "/conversations/bulk/delete", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	env.convRepo.AssertExpectations(t)
}
