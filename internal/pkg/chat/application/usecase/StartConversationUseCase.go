package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	chat "github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/domain"
	repository "github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/persistence/repository/port"
	"github.com/LavanyaThanigaivel/GigConnect/internal/userdir"
)

// StartConversationInput carries the caller identity and the peer to open a
// conversation with.
type StartConversationInput struct {
	CallerID    string
	OtherUserID string
}

// StartConversationOutput reports the resolved conversation and whether this
// call created it.
type StartConversationOutput struct {
	Conversation chat.Conversation
	Created      bool
}

// StartConversationUseCase implements get-or-create for the unique
// conversation of an unordered user pair. The store's unique index on the
// normalized pair is the race guard: a duplicate-pair rejection means the
// other side created it first, so the use case re-reads instead of failing.
type StartConversationUseCase struct {
	Repo  repository.ChatRepository
	Users userdir.Directory
}

func NewStartConversationUseCase(repo repository.ChatRepository, users userdir.Directory) *StartConversationUseCase {
	return &StartConversationUseCase{Repo: repo, Users: users}
}

func (uc *StartConversationUseCase) Execute(ctx context.Context, in StartConversationInput) (StartConversationOutput, error) {
	if in.CallerID == "" {
		return StartConversationOutput{}, fmt.Errorf("caller id is required")
	}
	a, b, err := chat.NormalizePair(in.CallerID, in.OtherUserID)
	if err != nil {
		return StartConversationOutput{}, err
	}

	if _, err := uc.Users.FindByID(ctx, in.OtherUserID); err != nil {
		if errors.Is(err, userdir.ErrNotFound) {
			return StartConversationOutput{}, chat.ErrUnknownUser
		}
		return StartConversationOutput{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	existing, err := uc.Repo.FindConversationByPair(ctx, a, b)
	if err == nil {
		return StartConversationOutput{Conversation: existing}, nil
	}
	if !errors.Is(err, chat.ErrNotFound) {
		return StartConversationOutput{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	conv, err := chat.NewConversation(in.CallerID, in.OtherUserID, time.Now().UTC())
	if err != nil {
		return StartConversationOutput{}, err
	}

	created, err := uc.Repo.CreateConversation(ctx, conv)
	if err == nil {
		return StartConversationOutput{Conversation: created, Created: true}, nil
	}
	if !errors.Is(err, chat.ErrDuplicatePair) {
		return StartConversationOutput{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// Lost the first-contact race; the winner's record is the conversation.
	existing, err = uc.Repo.FindConversationByPair(ctx, a, b)
	if err != nil {
		return StartConversationOutput{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return StartConversationOutput{Conversation: existing}, nil
}
