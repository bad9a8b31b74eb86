package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/domain"
	repository "github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/persistence/repository/port"
)

// MarkReadInput identifies the conversation the caller is acknowledging.
type MarkReadInput struct {
	CallerID       string
	ConversationID string
}

// MarkReadUseCase flips read on every unread message addressed to the caller
// in the conversation. The update is scoped by receiver id, so messages the
// caller sent are untouched; marking an already-read conversation is a no-op.
type MarkReadUseCase struct {
	Repo repository.ChatRepository
}

func NewMarkReadUseCase(repo repository.ChatRepository) *MarkReadUseCase {
	return &MarkReadUseCase{Repo: repo}
}

func (uc *MarkReadUseCase) Execute(ctx context.Context, in MarkReadInput) (int64, error) {
	if in.CallerID == "" || in.ConversationID == "" {
		return 0, fmt.Errorf("caller id and conversation id are required")
	}

	conv, err := uc.Repo.FindConversationByID(ctx, in.ConversationID)
	if errors.Is(err, chat.ErrNotFound) {
		return 0, chat.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !conv.HasParticipant(in.CallerID) {
		return 0, chat.ErrNotParticipant
	}

	updated, err := uc.Repo.MarkMessagesRead(ctx, in.ConversationID, in.CallerID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return updated, nil
}
