package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/domain"
	repository "github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/persistence/repository/port"
)

// JoinConversationInput validates a request to subscribe a user session to a
// conversation channel.
type JoinConversationInput struct {
	ConversationID string
	UserID         string
}

// JoinConversationUseCase verifies the user is a participant before the relay
// admits the join; without this, anyone holding a conversation id could
// eavesdrop on its channel.
type JoinConversationUseCase struct {
	Repo repository.ChatRepository
}

func NewJoinConversationUseCase(repo repository.ChatRepository) *JoinConversationUseCase {
	return &JoinConversationUseCase{Repo: repo}
}

func (uc *JoinConversationUseCase) Execute(ctx context.Context, in JoinConversationInput) error {
	if in.ConversationID == "" || in.UserID == "" {
		return fmt.Errorf("conversation id and user id are required")
	}

	conv, err := uc.Repo.FindConversationByID(ctx, in.ConversationID)
	if errors.Is(err, chat.ErrNotFound) {
		return chat.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !conv.HasParticipant(in.UserID) {
		return chat.ErrNotParticipant
	}
	return nil
}
