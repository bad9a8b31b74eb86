package repository

import (
	"context"

	chat "github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/domain"
)

// ChatRepository defines persistence operations for the conversation and
// message stores.
//
// Contracts:
//   - CreateConversation returns chat.ErrDuplicatePair when the store's
//     unique index on the normalized participant pair rejects the insert;
//     callers recover by re-reading the pair (someone else just created it).
//   - Find* return chat.ErrNotFound for unknown ids/pairs.
//   - AppendMessage persists the message and refreshes the owning
//     conversation's last_message/last_message_at projection as one unit.
type ChatRepository interface {
	CreateConversation(ctx context.Context, c chat.Conversation) (chat.Conversation, error)
	FindConversationByID(ctx context.Context, id string) (chat.Conversation, error)
	FindConversationByPair(ctx context.Context, participantA, participantB string) (chat.Conversation, error)
	ListConversationsByUser(ctx context.Context, userID string) ([]chat.Conversation, error)

	AppendMessage(ctx context.Context, m chat.Message) (chat.Message, error)
	ListMessages(ctx context.Context, conversationID string) ([]chat.Message, error)
	MarkMessagesRead(ctx context.Context, conversationID, receiverID string) (int64, error)
}
