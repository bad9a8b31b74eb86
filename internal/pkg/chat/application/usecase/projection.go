package usecase

import (
	"context"
	"errors"

	chat "github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/domain"
	"github.com/LavanyaThanigaivel/GigConnect/internal/userdir"
)

// ConversationSummary is the list/detail projection of a conversation for one
// caller: the raw record plus the other participant's display metadata.
type ConversationSummary struct {
	Conversation chat.Conversation
	Other        userdir.User
	// UnreadCount is always zero for now.
	// TODO: compute from the message read flags once read tracking is wired
	// into the listing query.
	UnreadCount int
}

// DecoratedMessage pairs a message with its sender's display name.
type DecoratedMessage struct {
	Message    chat.Message
	SenderName string
}

// summarize builds the caller-relative projection. A participant missing from
// the directory (e.g. a deleted account) degrades to an id-only stub rather
// than failing the whole listing.
func summarize(ctx context.Context, users userdir.Directory, c chat.Conversation, callerID string) (ConversationSummary, error) {
	otherID := c.OtherParticipant(callerID)
	other, err := users.FindByID(ctx, otherID)
	if errors.Is(err, userdir.ErrNotFound) {
		other = userdir.User{ID: otherID}
	} else if err != nil {
		return ConversationSummary{}, err
	}
	return ConversationSummary{Conversation: c, Other: other}, nil
}
