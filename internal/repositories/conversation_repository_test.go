package repositories

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"messaging-service/internal/apperrors"
	"messaging-service/internal/models"
)

func newMockRepo(t *testing.T) (*ConversationRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewConversationRepo(sqlx.NewDb(db, "sqlmock")), mock
}

func conversationRows(conv models.Conversation) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user1_id", "user2_id", "subject", "state",
		"updated_at", "deleted_at", "deleted_by", "created_at",
	}).AddRow(
		conv.ID, conv.User1ID, conv.User2ID, conv.Subject, conv.State,
		conv.UpdatedAt, conv.DeletedAt, conv.DeletedBy, conv.CreatedAt,
	)
}

func emptyConversationRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user1_id", "user2_id", "subject", "state",
		"updated_at", "deleted_at", "deleted_by", "created_at",
	})
}

func TestTouchOnMessageUnarchives(t *testing.T) {
	repo, mock := newMockRepo(t)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// The update must flip archived back to active in the same statement.
	mock.ExpectQuery(`state=CASE WHEN state=\$2 THEN \$3 ELSE state END`).
		WithArgs(at, models.StateArchived, models.StateActive, 10).
		WillReturnRows(conversationRows(models.Conversation{
			ID: 10, User1ID: 1, User2ID: 2, State: models.StateActive, UpdatedAt: at,
		}))

	conv, err := repo.TouchOnMessage(context.Background(), 10, at)
	require.NoError(t, err)
	require.Equal(t, models.StateActive, conv.State)
	require.Equal(t, at, conv.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTouchOnMessageUnknownConversation(t *testing.T) {
	repo, mock := newMockRepo(t)
	at := time.Now()

	mock.ExpectQuery(`UPDATE conversations`).
		WithArgs(at, models.StateArchived, models.StateActive, 99).
		WillReturnRows(emptyConversationRows())

	_, err := repo.TouchOnMessage(context.Background(), 99, at)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRestoreOnlyLegalFromDeleted(t *testing.T) {
	repo, mock := newMockRepo(t)

	// The update is filtered on state, so restoring an active conversation
	// touches zero rows; the follow-up membership probe classifies the miss.
	mock.ExpectQuery(`SET state=\$1, deleted_at=NULL, deleted_by=NULL`).
		WithArgs(models.StateActive, 10, 1, models.StateDeleted).
		WillReturnRows(emptyConversationRows())
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(10, 1).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := repo.Restore(context.Background(), 10, 1)
	require.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRestoreInvisibleConversation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SET state=\$1, deleted_at=NULL, deleted_by=NULL`).
		WithArgs(models.StateActive, 10, 9, models.StateDeleted).
		WillReturnRows(emptyConversationRows())
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(10, 9).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := repo.Restore(context.Background(), 10, 9)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRestoreFromDeletedSucceeds(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(`AND state=\$4`).
		WithArgs(models.StateActive, 10, 1, models.StateDeleted).
		WillReturnRows(conversationRows(models.Conversation{
			ID: 10, User1ID: 1, User2ID: 2, State: models.StateActive, UpdatedAt: now,
		}))

	conv, err := repo.Restore(context.Background(), 10, 1)
	require.NoError(t, err)
	require.Equal(t, models.StateActive, conv.State)
	require.Nil(t, conv.DeletedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestArchiveDeletedConversationRejected(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`AND state <> \$4`).
		WithArgs(models.StateArchived, 10, 1, models.StateDeleted).
		WillReturnRows(emptyConversationRows())
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(10, 1).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := repo.Archive(context.Background(), 10, 1)
	require.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurgeIsParticipantScoped(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM conversations WHERE id=\$1 AND \(user1_id=\$2 OR user2_id=\$2\)`).
		WithArgs(10, 9).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Purge(context.Background(), 10, 9)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
