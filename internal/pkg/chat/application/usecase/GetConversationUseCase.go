package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/domain"
	repository "github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/persistence/repository/port"
	"github.com/LavanyaThanigaivel/GigConnect/internal/userdir"
)

// GetConversationInput identifies one conversation for one caller.
type GetConversationInput struct {
	CallerID       string
	ConversationID string
}

// GetConversationUseCase fetches a single conversation summary after checking
// the caller is a participant.
type GetConversationUseCase struct {
	Repo  repository.ChatRepository
	Users userdir.Directory
}

func NewGetConversationUseCase(repo repository.ChatRepository, users userdir.Directory) *GetConversationUseCase {
	return &GetConversationUseCase{Repo: repo, Users: users}
}

func (uc *GetConversationUseCase) Execute(ctx context.Context, in GetConversationInput) (ConversationSummary, error) {
	if in.CallerID == "" || in.ConversationID == "" {
		return ConversationSummary{}, fmt.Errorf("caller id and conversation id are required")
	}

	conv, err := uc.Repo.FindConversationByID(ctx, in.ConversationID)
	if errors.Is(err, chat.ErrNotFound) {
		return ConversationSummary{}, chat.ErrNotFound
	}
	if err != nil {
		return ConversationSummary{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !conv.HasParticipant(in.CallerID) {
		return ConversationSummary{}, chat.ErrNotParticipant
	}

	s, err := summarize(ctx, uc.Users, conv, in.CallerID)
	if err != nil {
		return ConversationSummary{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return s, nil
}
