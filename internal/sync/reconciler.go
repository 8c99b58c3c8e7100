package sync

import (
	"context"
	"fmt"
	"log"

	"messaging-service/internal/grpc"
	"messaging-service/internal/models"
	"messaging-service/internal/observability"
	"messaging-service/internal/repositories"
	"messaging-service/internal/session"
)

// Hub fans a session event out to every open tab of a user.
type Hub interface {
	Push(userID int, event models.SessionEvent)
}

// seenLimit bounds the duplicate-detection window. Old keys age out in
// FIFO order; a duplicate arriving later than the window is applied again,
// which is safe because every application path is idempotent.
const seenLimit = 4096

// Reconciler folds broker change events into live sessions. Events are
// processed in arrival order; a dropped or malformed event is logged and
// skipped, never retried, since staleness is bounded by the full
// recomputation a fresh session performs.
type Reconciler struct {
	sessions *session.Manager
	convRepo repositories.ConversationRepository
	users    grpc.UserDirectory
	hub      Hub
	seen     *seenSet
}

func NewReconciler(sessions *session.Manager, convRepo repositories.ConversationRepository, users grpc.UserDirectory, hub Hub) *Reconciler {
	return &Reconciler{
		sessions: sessions,
		convRepo: convRepo,
		users:    users,
		hub:      hub,
		seen:     newSeenSet(seenLimit),
	}
}

// Handle applies one change envelope. Errors are returned for the caller
// to log; the consumer never requeues on them.
func (r *Reconciler) Handle(ctx context.Context, env ChangeEnvelope) error {
	observability.IncSyncEvent(env.Stream)

	switch env.Stream {
	case StreamConversations:
		return r.handleConversation(ctx, env)
	case StreamMessages:
		return r.handleMessage(ctx, env)
	case StreamReceipts:
		return r.handleReceipt(ctx, env)
	default:
		observability.IncSyncDropped(env.Stream)
		return fmt.Errorf("unknown change stream %q", env.Stream)
	}
}

// handleConversation routes a lifecycle change to both participants. Tray
// windows are deliberately left alone: a window stays open even when the
// other party deletes the conversation, until the user closes it.
func (r *Reconciler) handleConversation(ctx context.Context, env ChangeEnvelope) error {
	conv, err := env.conversationRow()
	if err != nil {
		observability.IncSyncDropped(env.Stream)
		return err
	}
	if r.seen.Observe(fmt.Sprintf("conv:%s:%d:%s:%d", env.Op, conv.ID, conv.State, conv.UpdatedAt.UnixNano())) {
		observability.IncSyncDuplicate(env.Stream)
		return nil
	}

	for _, userID := range []int{conv.User1ID, conv.User2ID} {
		sess, ok := r.sessions.Peek(userID)
		if !ok {
			continue
		}
		if conv.State == models.StateDeleted || env.Op == OpDelete {
			sess.Stream.Drop(conv.ID)
		}
		c := conv
		r.hub.Push(userID, models.SessionEvent{
			Type:         models.EventConversation,
			Conversation: &c,
			TotalUnread:  sess.Unread.Total(),
		})
	}
	return nil
}

// handleMessage folds a new message into both participants' sessions. The
// conversation is loaded first as the membership gate: the topic is
// shared, so an envelope alone never decides who may see the message.
func (r *Reconciler) handleMessage(ctx context.Context, env ChangeEnvelope) error {
	msg, err := env.messageRow()
	if err != nil {
		observability.IncSyncDropped(env.Stream)
		return err
	}
	if r.seen.Observe(fmt.Sprintf("msg:%d", msg.ID)) {
		observability.IncSyncDuplicate(env.Stream)
		return nil
	}

	conv, err := r.convRepo.Get(ctx, msg.ConversationID)
	if err != nil {
		observability.IncSyncDropped(env.Stream)
		return fmt.Errorf("resolve conversation %d for message %d: %w", msg.ConversationID, msg.ID, err)
	}
	if !conv.HasParticipant(msg.SenderID) {
		observability.IncSyncDropped(env.Stream)
		return fmt.Errorf("message %d sender %d is not in conversation %d", msg.ID, msg.SenderID, conv.ID)
	}

	for _, userID := range []int{conv.User1ID, conv.User2ID} {
		sess, ok := r.sessions.Peek(userID)
		if !ok {
			continue
		}

		// Appends only land when the window is materialized; dedup by id
		// absorbs the echo of a locally sent message.
		sess.Stream.Append(msg)

		// Deleted conversations never count toward unread totals, so a
		// late message into one must not drive the index or the tray.
		if msg.SenderID != userID && conv.State != models.StateDeleted {
			sess.Unread.OnInboundMessage(msg.ConversationID)
			r.autoOpenTray(ctx, sess, msg)
		}

		r.hub.Push(userID, models.SessionEvent{
			Type:        models.EventMessage,
			Message:     &msg,
			TotalUnread: sess.Unread.Total(),
		})
	}
	return nil
}

// autoOpenTray surfaces the tray window for an inbound message. The sender
// name lookup is decoration; when it fails the window still opens, just
// untitled.
func (r *Reconciler) autoOpenTray(ctx context.Context, sess *session.Session, msg models.Message) {
	name, err := r.users.DisplayName(ctx, msg.SenderID)
	if err != nil {
		log.Printf("sync: display name lookup for sender %d failed: %v", msg.SenderID, err)
		name = ""
	}
	sess.Tray.AutoOpenOnInboundMessage(msg.ConversationID, name)
}

// handleReceipt drives the unread decrement for the receipt's owner. This
// is how a read performed in one tab or device reaches the others.
func (r *Reconciler) handleReceipt(ctx context.Context, env ChangeEnvelope) error {
	rec, err := env.receiptRow()
	if err != nil {
		observability.IncSyncDropped(env.Stream)
		return err
	}
	if r.seen.Observe(fmt.Sprintf("rcpt:%d:%d", rec.MessageID, rec.UserID)) {
		observability.IncSyncDuplicate(env.Stream)
		return nil
	}

	sess, ok := r.sessions.Peek(rec.UserID)
	if !ok {
		return nil
	}

	sess.Unread.OnReceipt(ctx, rec.ConversationID)
	sess.Tray.SetUnread(rec.ConversationID, sess.Unread.Count(rec.ConversationID))

	r.hub.Push(rec.UserID, models.SessionEvent{
		Type:           models.EventRead,
		ConversationID: rec.ConversationID,
		TotalUnread:    sess.Unread.Total(),
	})
	return nil
}
