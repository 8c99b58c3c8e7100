// Package conversations holds the per-session conversation lifecycle
// store: creation with role policy, archive/delete/restore transitions,
// bulk operations and list decoration.
package conversations

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"messaging-service/internal/apperrors"
	"messaging-service/internal/grpc"
	"messaging-service/internal/models"
	"messaging-service/internal/repositories"
)

// Store is the session-scoped view over the conversation repository. It
// keeps no cache of its own beyond what the repository returns; its value
// is the policy layer and the per-call bookkeeping around transitions.
type Store struct {
	userID int
	role   string
	repo   repositories.ConversationRepository
	users  grpc.UserDirectory
}

// BulkResult reports the outcome of a bulk transition: ids that moved and
// the per-id error for those that did not.
type BulkResult struct {
	Done   []int
	Failed map[int]error
}

func NewStore(userID int, role string, repo repositories.ConversationRepository, users grpc.UserDirectory) *Store {
	return &Store{
		userID: userID,
		role:   role,
		repo:   repo,
		users:  users,
	}
}

// Create starts a new conversation with another user. A fresh thread is
// created on every call even when one already exists between the pair;
// history stays attached to the old thread. Subcontractors may only open
// conversations toward admins and managers.
func (s *Store) Create(ctx context.Context, otherUserID int, subject string) (models.Conversation, error) {
	if otherUserID == s.userID {
		return models.Conversation{}, fmt.Errorf("%w: cannot start a conversation with yourself", apperrors.ErrInvalidTransition)
	}
	if err := s.checkRecipientPolicy(ctx, otherUserID); err != nil {
		return models.Conversation{}, err
	}
	conv, err := s.repo.CreateDirect(ctx, s.userID, otherUserID, subject)
	if err != nil {
		return models.Conversation{}, classify(fmt.Errorf("create conversation: %w", err))
	}
	return conv, nil
}

// classify folds backend failures into the transient error class so
// handlers can tell them apart from business-rule rejections. Domain
// errors pass through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrInvalidTransition),
		errors.Is(err, apperrors.ErrRoleRestricted),
		errors.Is(err, apperrors.ErrAuthRequired):
		return err
	}
	return fmt.Errorf("%w: %v", apperrors.ErrTransient, err)
}

// checkRecipientPolicy enforces the messaging matrix: subcontractors can
// only reach admins and managers, everyone else can reach anyone.
func (s *Store) checkRecipientPolicy(ctx context.Context, otherUserID int) error {
	if s.role != models.RoleSubcontractor {
		return nil
	}
	otherRole, err := s.users.Role(ctx, otherUserID)
	if err != nil {
		return fmt.Errorf("resolve recipient role: %w", err)
	}
	if otherRole != models.RoleAdmin && otherRole != models.RoleManager {
		return fmt.Errorf("%w: subcontractors may only message admins and managers", apperrors.ErrRoleRestricted)
	}
	return nil
}

// Get returns one conversation, restricted to the session user.
func (s *Store) Get(ctx context.Context, id int) (models.Conversation, error) {
	conv, err := s.repo.GetFor(ctx, id, s.userID)
	return conv, classify(err)
}

// List returns the user's conversations in one lifecycle state, most
// recently updated first. Deleted conversations never show up here.
func (s *Store) List(ctx context.Context, state models.LifecycleState) ([]models.Conversation, error) {
	return s.repo.List(ctx, s.userID, state)
}

// Trash returns the user's soft-deleted conversations.
func (s *Store) Trash(ctx context.Context) ([]models.Conversation, error) {
	return s.repo.ListDeleted(ctx, s.userID)
}

// Archive moves an active conversation out of the active list. Archiving
// an already archived conversation is a no-op success.
func (s *Store) Archive(ctx context.Context, id int) (models.Conversation, error) {
	conv, err := s.repo.Archive(ctx, id, s.userID)
	return conv, classify(err)
}

// Unarchive returns an archived conversation to the active list.
func (s *Store) Unarchive(ctx context.Context, id int) (models.Conversation, error) {
	conv, err := s.repo.Unarchive(ctx, id, s.userID)
	return conv, classify(err)
}

// Delete soft-deletes a conversation, recording who deleted it and when.
// Messages stay in place so a restore brings the full history back.
func (s *Store) Delete(ctx context.Context, id int) (models.Conversation, error) {
	conv, err := s.repo.SoftDelete(ctx, id, s.userID)
	return conv, classify(err)
}

// Restore moves a soft-deleted conversation back to active. Restoring a
// conversation that is not deleted is an invalid transition rather than a
// no-op, so a stale client learns its view is behind.
func (s *Store) Restore(ctx context.Context, id int) (models.Conversation, error) {
	conv, err := s.repo.Restore(ctx, id, s.userID)
	return conv, classify(err)
}

// Purge permanently removes a conversation and everything attached to it.
// Only admins and managers carry the purge capability.
func (s *Store) Purge(ctx context.Context, id int) error {
	if s.role != models.RoleAdmin && s.role != models.RoleManager {
		return fmt.Errorf("%w: purge requires admin or manager", apperrors.ErrRoleRestricted)
	}
	return classify(s.repo.Purge(ctx, id, s.userID))
}

// BulkArchive archives each id independently: one failure does not stop
// the rest, and every failure is reported against its id.
func (s *Store) BulkArchive(ctx context.Context, ids []int) BulkResult {
	return s.bulk(ctx, ids, func(ctx context.Context, id int) error {
		_, err := s.Archive(ctx, id)
		return err
	})
}

// BulkDelete soft-deletes each id independently.
func (s *Store) BulkDelete(ctx context.Context, ids []int) BulkResult {
	return s.bulk(ctx, ids, func(ctx context.Context, id int) error {
		_, err := s.Delete(ctx, id)
		return err
	})
}

func (s *Store) bulk(ctx context.Context, ids []int, op func(context.Context, int) error) BulkResult {
	res := BulkResult{Failed: make(map[int]error)}
	for _, id := range ids {
		if err := op(ctx, id); err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrInvalidTransition) {
				log.Printf("conversations: bulk op failed for %d: %v", id, err)
			}
			res.Failed[id] = err
			continue
		}
		res.Done = append(res.Done, id)
	}
	return res
}

// Summaries decorates conversations with the other participant's display
// name for list responses. Name lookups are batched through the user
// directory; a failed lookup leaves the name empty rather than failing
// the listing.
func (s *Store) Summaries(ctx context.Context, convs []models.Conversation) []models.ConversationSummary {
	ids := make([]int, 0, len(convs))
	for _, c := range convs {
		ids = append(ids, c.OtherParticipant(s.userID))
	}
	names, err := s.users.DisplayNames(ctx, ids)
	if err != nil {
		log.Printf("conversations: bulk display-name lookup failed: %v", err)
		names = map[int]string{}
	}

	out := make([]models.ConversationSummary, 0, len(convs))
	for _, c := range convs {
		otherID := c.OtherParticipant(s.userID)
		out = append(out, models.ConversationSummary{
			ID:            c.ID,
			OtherUserID:   otherID,
			OtherUsername: names[otherID],
			Subject:       c.Subject,
			State:         c.State,
			UpdatedAt:     c.UpdatedAt,
		})
	}
	return out
}

// TouchOnMessage records message activity on a conversation: updated_at
// moves forward and an archived conversation returns to active, so new
// activity is never buried in the archive.
func (s *Store) TouchOnMessage(ctx context.Context, id int, at time.Time) (models.Conversation, error) {
	return s.repo.TouchOnMessage(ctx, id, at)
}
