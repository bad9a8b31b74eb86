package chat

import (
	"strings"
	"time"
)

// Message is an immutable log entry in a conversation. Only the Read flag
// changes after creation (false -> true when the receiver acknowledges the
// conversation).
type Message struct {
	ID             string    `db:"id"`
	ConversationID string    `db:"conversation_id"`
	SenderID       string    `db:"sender_id"`
	ReceiverID     string    `db:"receiver_id"`
	Content        string    `db:"content"`
	Read           bool      `db:"read"`
	CreatedAt      time.Time `db:"created_at"`
}

// NewMessage validates and shapes a message ready to persist. Content is
// trimmed and must be non-empty afterwards; the sender must be a participant
// of the owning conversation and the receiver is always the other participant.
func NewMessage(conv Conversation, senderID, content string, now time.Time) (Message, error) {
	if !conv.HasParticipant(senderID) {
		return Message{}, ErrNotParticipant
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return Message{}, ErrEmptyContent
	}

	if now.IsZero() {
		now = time.Now().UTC()
	}

	return Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		ReceiverID:     conv.OtherParticipant(senderID),
		Content:        trimmed,
		Read:           false,
		CreatedAt:      now,
	}, nil
}
