package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"messaging-service/internal/apperrors"
	"messaging-service/internal/models"
)

const conversationColumns = `id, user1_id, user2_id, subject, state, updated_at, deleted_at, deleted_by, created_at`

// ConversationRepository abstracts conversation persistence. Every method
// that takes a userID enforces participant membership in SQL; a client
// cannot see or mutate a conversation it does not belong to even if it
// learns the id.
type ConversationRepository interface {
	CreateDirect(ctx context.Context, userID, otherUserID int, subject string) (models.Conversation, error)
	Get(ctx context.Context, id int) (models.Conversation, error)
	GetFor(ctx context.Context, id, userID int) (models.Conversation, error)
	IsParticipant(ctx context.Context, id, userID int) (bool, error)
	List(ctx context.Context, userID int, state models.LifecycleState) ([]models.Conversation, error)
	ListDeleted(ctx context.Context, userID int) ([]models.Conversation, error)
	Archive(ctx context.Context, id, userID int) (models.Conversation, error)
	Unarchive(ctx context.Context, id, userID int) (models.Conversation, error)
	SoftDelete(ctx context.Context, id, userID int) (models.Conversation, error)
	Restore(ctx context.Context, id, userID int) (models.Conversation, error)
	Purge(ctx context.Context, id, userID int) error
	TouchOnMessage(ctx context.Context, id int, at time.Time) (models.Conversation, error)
}

// ConversationRepo is a sqlx implementation of ConversationRepository.
type ConversationRepo struct {
	db *sqlx.DB
}

// NewConversationRepo constructs a ConversationRepo.
func NewConversationRepo(db *sqlx.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

// CreateDirect inserts a new conversation between two users. It always
// creates a fresh row: multiple parallel threads between the same pair are
// an intentional product behavior, not deduplicated here.
func (r *ConversationRepo) CreateDirect(ctx context.Context, userID, otherUserID int, subject string) (models.Conversation, error) {
	if userID == otherUserID {
		return models.Conversation{}, errors.New("cannot start a conversation with self")
	}
	var conv models.Conversation
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO conversations (user1_id, user2_id, subject) VALUES ($1, $2, $3)
         RETURNING `+conversationColumns, userID, otherUserID, subject).
		StructScan(&conv)
	return conv, err
}

// Get fetches a conversation by id with no membership filter. Reserved for
// the reconciliation layer, which needs the participant set to route events.
func (r *ConversationRepo) Get(ctx context.Context, id int) (models.Conversation, error) {
	var conv models.Conversation
	err := r.db.GetContext(ctx, &conv, `SELECT `+conversationColumns+` FROM conversations WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, apperrors.ErrNotFound
	}
	return conv, err
}

// GetFor fetches a conversation visible to userID.
func (r *ConversationRepo) GetFor(ctx context.Context, id, userID int) (models.Conversation, error) {
	var conv models.Conversation
	err := r.db.GetContext(ctx, &conv,
		`SELECT `+conversationColumns+` FROM conversations WHERE id=$1 AND (user1_id=$2 OR user2_id=$2)`, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, apperrors.ErrNotFound
	}
	return conv, err
}

// IsParticipant checks whether a user belongs to the conversation.
func (r *ConversationRepo) IsParticipant(ctx context.Context, id, userID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM conversations WHERE id=$1 AND (user1_id=$2 OR user2_id=$2))`, id, userID)
	return exists, err
}

// List returns the user's conversations in the given lifecycle state,
// most recently updated first. Deleted conversations never appear here.
func (r *ConversationRepo) List(ctx context.Context, userID int, state models.LifecycleState) ([]models.Conversation, error) {
	if state == models.StateDeleted {
		return nil, errors.New("deleted conversations are listed via ListDeleted")
	}
	var convs []models.Conversation
	err := r.db.SelectContext(ctx, &convs,
		`SELECT `+conversationColumns+` FROM conversations
         WHERE (user1_id=$1 OR user2_id=$1) AND state=$2
         ORDER BY updated_at DESC`, userID, state)
	return convs, err
}

// ListDeleted returns the user's soft-deleted conversations (the trash view).
func (r *ConversationRepo) ListDeleted(ctx context.Context, userID int) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := r.db.SelectContext(ctx, &convs,
		`SELECT `+conversationColumns+` FROM conversations
         WHERE (user1_id=$1 OR user2_id=$1) AND state=$2
         ORDER BY deleted_at DESC`, userID, models.StateDeleted)
	return convs, err
}

// Archive moves a conversation to the archived state. Archiving an already
// archived conversation is a no-op success; a deleted one cannot be archived.
func (r *ConversationRepo) Archive(ctx context.Context, id, userID int) (models.Conversation, error) {
	var conv models.Conversation
	err := r.db.QueryRowxContext(ctx,
		`UPDATE conversations SET state=$1, updated_at=NOW()
         WHERE id=$2 AND (user1_id=$3 OR user2_id=$3) AND state <> $4
         RETURNING `+conversationColumns,
		models.StateArchived, id, userID, models.StateDeleted).
		StructScan(&conv)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, r.classifyMiss(ctx, id, userID)
	}
	return conv, err
}

// Unarchive moves a conversation back to active.
func (r *ConversationRepo) Unarchive(ctx context.Context, id, userID int) (models.Conversation, error) {
	var conv models.Conversation
	err := r.db.QueryRowxContext(ctx,
		`UPDATE conversations SET state=$1, updated_at=NOW()
         WHERE id=$2 AND (user1_id=$3 OR user2_id=$3) AND state <> $4
         RETURNING `+conversationColumns,
		models.StateActive, id, userID, models.StateDeleted).
		StructScan(&conv)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, r.classifyMiss(ctx, id, userID)
	}
	return conv, err
}

// SoftDelete marks the conversation deleted, recording who and when.
// Message history is retained.
func (r *ConversationRepo) SoftDelete(ctx context.Context, id, userID int) (models.Conversation, error) {
	var conv models.Conversation
	err := r.db.QueryRowxContext(ctx,
		`UPDATE conversations SET state=$1, deleted_at=NOW(), deleted_by=$2, updated_at=NOW()
         WHERE id=$3 AND (user1_id=$2 OR user2_id=$2)
         RETURNING `+conversationColumns,
		models.StateDeleted, userID, id).
		StructScan(&conv)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, apperrors.ErrNotFound
	}
	return conv, err
}

// Restore returns a soft-deleted conversation to active. It is only legal
// from the deleted state; anything else is rejected without changing state.
func (r *ConversationRepo) Restore(ctx context.Context, id, userID int) (models.Conversation, error) {
	var conv models.Conversation
	err := r.db.QueryRowxContext(ctx,
		`UPDATE conversations SET state=$1, deleted_at=NULL, deleted_by=NULL, updated_at=NOW()
         WHERE id=$2 AND (user1_id=$3 OR user2_id=$3) AND state=$4
         RETURNING `+conversationColumns,
		models.StateActive, id, userID, models.StateDeleted).
		StructScan(&conv)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, r.classifyMiss(ctx, id, userID)
	}
	return conv, err
}

// Purge permanently removes the conversation; messages and receipts go with
// it via ON DELETE CASCADE. Irreversible.
func (r *ConversationRepo) Purge(ctx context.Context, id, userID int) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM conversations WHERE id=$1 AND (user1_id=$2 OR user2_id=$2)`, id, userID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// TouchOnMessage bumps updated_at for a new message and un-archives the
// conversation if it was archived: receiving traffic reactivates a thread.
func (r *ConversationRepo) TouchOnMessage(ctx context.Context, id int, at time.Time) (models.Conversation, error) {
	var conv models.Conversation
	err := r.db.QueryRowxContext(ctx,
		`UPDATE conversations
         SET updated_at=$1,
             state=CASE WHEN state=$2 THEN $3 ELSE state END
         WHERE id=$4
         RETURNING `+conversationColumns,
		at, models.StateArchived, models.StateActive, id).
		StructScan(&conv)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, apperrors.ErrNotFound
	}
	return conv, err
}

// classifyMiss distinguishes "not visible" from "visible but in a state
// the transition is not legal from" after a zero-row UPDATE.
func (r *ConversationRepo) classifyMiss(ctx context.Context, id, userID int) error {
	visible, err := r.IsParticipant(ctx, id, userID)
	if err != nil {
		return err
	}
	if !visible {
		return apperrors.ErrNotFound
	}
	return apperrors.ErrInvalidTransition
}
