package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/domain"
	repository "github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/persistence/repository/port"
	"github.com/LavanyaThanigaivel/GigConnect/internal/userdir"
)

// ListMessagesInput identifies the conversation whose log the caller wants.
type ListMessagesInput struct {
	CallerID       string
	ConversationID string
}

// ListMessagesUseCase returns the full message log of a conversation, oldest
// first, with sender display names resolved. The caller must be a
// participant.
type ListMessagesUseCase struct {
	Repo  repository.ChatRepository
	Users userdir.Directory
}

func NewListMessagesUseCase(repo repository.ChatRepository, users userdir.Directory) *ListMessagesUseCase {
	return &ListMessagesUseCase{Repo: repo, Users: users}
}

func (uc *ListMessagesUseCase) Execute(ctx context.Context, in ListMessagesInput) ([]DecoratedMessage, error) {
	if in.CallerID == "" || in.ConversationID == "" {
		return nil, fmt.Errorf("caller id and conversation id are required")
	}

	conv, err := uc.Repo.FindConversationByID(ctx, in.ConversationID)
	if errors.Is(err, chat.ErrNotFound) {
		return nil, chat.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !conv.HasParticipant(in.CallerID) {
		return nil, chat.ErrNotParticipant
	}

	msgs, err := uc.Repo.ListMessages(ctx, in.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// Two participants, so at most two directory lookups per listing.
	names := make(map[string]string, 2)
	decorated := make([]DecoratedMessage, 0, len(msgs))
	for _, m := range msgs {
		name, ok := names[m.SenderID]
		if !ok {
			sender, err := uc.Users.FindByID(ctx, m.SenderID)
			switch {
			case errors.Is(err, userdir.ErrNotFound):
				name = ""
			case err != nil:
				return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
			default:
				name = sender.DisplayName()
			}
			names[m.SenderID] = name
		}
		decorated = append(decorated, DecoratedMessage{Message: m, SenderName: name})
	}
	return decorated, nil
}
