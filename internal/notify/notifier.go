package notify

import (
	"context"
	"fmt"

	"groupplan/internal/model"
)

// store is the single repository operation the notifier needs.
type store interface {
	Create(ctx context.Context, notification *model.Notification) error
}

// Notifier maps domain events to notification rows. Inserts are
// synchronous and best-effort: a failed insert is reported to the
// caller and nothing is retried.
type Notifier struct {
	store store
}

func New(store store) *Notifier {
	return &Notifier{store: store}
}

// InviteCreated notifies the invited user about a new group invitation.
func (n *Notifier) InviteCreated(ctx context.Context, invitation *model.GroupInvitation, groupName, inviterName string) error {
	return n.store.Create(ctx, &model.Notification{
		UserID:    invitation.InvitedUserID,
		Type:      model.NotificationGroupInvite,
		Title:     "Group invitation",
		Message:   fmt.Sprintf("%s invited you to join %q", inviterName, groupName),
		RelatedID: &invitation.ID,
	})
}

// InviteAccepted notifies the inviter that their invitation was taken.
func (n *Notifier) InviteAccepted(ctx context.Context, inviterID, groupID uint, groupName, inviteeName string) error {
	return n.store.Create(ctx, &model.Notification{
		UserID:    inviterID,
		Type:      model.NotificationInviteAccepted,
		Title:     "Invitation accepted",
		Message:   fmt.Sprintf("%s joined %q", inviteeName, groupName),
		RelatedID: &groupID,
	})
}

// TaskAssigned notifies a user about being assigned to a task.
func (n *Notifier) TaskAssigned(ctx context.Context, userID uint, task *model.Task, assignerName string) error {
	return n.store.Create(ctx, &model.Notification{
		UserID:    userID,
		Type:      model.NotificationTaskAssigned,
		Title:     "New task assignment",
		Message:   fmt.Sprintf("%s assigned you to %q", assignerName, task.Title),
		RelatedID: &task.ID,
	})
}

// CommentAdded fans a comment out to the task's assignees and its
// creator, excluding the commenter. Duplicate recipients (a creator
// who is also assigned) get a single notification.
func (n *Notifier) CommentAdded(ctx context.Context, task *model.Task, commenterID uint, commenterName string, assigneeIDs []uint) error {
	seen := map[uint]bool{commenterID: true}
	recipients := make([]uint, 0, len(assigneeIDs)+1)
	for _, id := range append(assigneeIDs, task.CreatorID) {
		if !seen[id] {
			seen[id] = true
			recipients = append(recipients, id)
		}
	}

	for _, userID := range recipients {
		err := n.store.Create(ctx, &model.Notification{
			UserID:    userID,
			Type:      model.NotificationTaskComment,
			Title:     "New comment",
			Message:   fmt.Sprintf("%s commented on %q", commenterName, task.Title),
			RelatedID: &task.ID,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// MemberRemoved notifies a user that an admin removed them from a
// group. Not emitted for voluntary leaves.
func (n *Notifier) MemberRemoved(ctx context.Context, userID, groupID uint, groupName string) error {
	return n.store.Create(ctx, &model.Notification{
		UserID:    userID,
		Type:      model.NotificationMemberRemoved,
		Title:     "Removed from group",
		Message:   fmt.Sprintf("You were removed from %q", groupName),
		RelatedID: &groupID,
	})
}

// PasswordReset notifies a user that a temporary password was issued.
func (n *Notifier) PasswordReset(ctx context.Context, userID uint) error {
	return n.store.Create(ctx, &model.Notification{
		UserID:  userID,
		Type:    model.NotificationPasswordReset,
		Title:   "Password reset",
		Message: "A temporary password was sent to your email address",
	})
}
