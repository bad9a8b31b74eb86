package usecase

import (
	"context"
	"fmt"

	repository "github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/persistence/repository/port"
	"github.com/LavanyaThanigaivel/GigConnect/internal/userdir"
)

// ListConversationsInput wraps the caller identity.
type ListConversationsInput struct {
	CallerID string
}

// ListConversationsUseCase returns the caller's conversations, most recently
// active first, each decorated with the other participant's display metadata.
type ListConversationsUseCase struct {
	Repo  repository.ChatRepository
	Users userdir.Directory
}

func NewListConversationsUseCase(repo repository.ChatRepository, users userdir.Directory) *ListConversationsUseCase {
	return &ListConversationsUseCase{Repo: repo, Users: users}
}

func (uc *ListConversationsUseCase) Execute(ctx context.Context, in ListConversationsInput) ([]ConversationSummary, error) {
	if in.CallerID == "" {
		return nil, fmt.Errorf("caller id is required")
	}

	convs, err := uc.Repo.ListConversationsByUser(ctx, in.CallerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	summaries := make([]ConversationSummary, 0, len(convs))
	for _, c := range convs {
		s, err := summarize(ctx, uc.Users, c, in.CallerID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}
