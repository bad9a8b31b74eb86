package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/application/usecase"
	chat "github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/domain"
	"github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/persistence/repository/adapter"
	repository "github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/persistence/repository/port"
	"github.com/LavanyaThanigaivel/GigConnect/internal/userdir"
)

func testDirectory() *userdir.MemoryDirectory {
	return userdir.NewMemoryDirectory(
		userdir.User{ID: "u1", FirstName: "Asha", LastName: "Nair", UserType: "client"},
		userdir.User{ID: "u2", FirstName: "Ben", LastName: "Okafor", UserType: "freelancer"},
		userdir.User{ID: "u3", FirstName: "Chloe", LastName: "Park", UserType: "freelancer"},
	)
}

func TestStartConversationPairIsUnordered(t *testing.T) {
	repo := adapter.NewMemoryChatRepository()
	uc := usecase.NewStartConversationUseCase(repo, testDirectory())
	ctx := context.Background()

	first, err := uc.Execute(ctx, usecase.StartConversationInput{CallerID: "u1", OtherUserID: "u2"})
	require.NoError(t, err)
	assert.True(t, first.Created)

	second, err := uc.Execute(ctx, usecase.StartConversationInput{CallerID: "u2", OtherUserID: "u1"})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Conversation.ID, second.Conversation.ID)
}

func TestStartConversationIsIdempotent(t *testing.T) {
	repo := adapter.NewMemoryChatRepository()
	uc := usecase.NewStartConversationUseCase(repo, testDirectory())
	ctx := context.Background()

	first, err := uc.Execute(ctx, usecase.StartConversationInput{CallerID: "u1", OtherUserID: "u2"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		again, err := uc.Execute(ctx, usecase.StartConversationInput{CallerID: "u1", OtherUserID: "u2"})
		require.NoError(t, err)
		assert.Equal(t, first.Conversation.ID, again.Conversation.ID)
	}

	convs, err := repo.ListConversationsByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, convs, 1)
}

func TestStartConversationRejectsSelf(t *testing.T) {
	uc := usecase.NewStartConversationUseCase(adapter.NewMemoryChatRepository(), testDirectory())

	_, err := uc.Execute(context.Background(), usecase.StartConversationInput{CallerID: "u1", OtherUserID: "u1"})
	assert.ErrorIs(t, err, chat.ErrSelfConversation)
}

func TestStartConversationUnknownUser(t *testing.T) {
	uc := usecase.NewStartConversationUseCase(adapter.NewMemoryChatRepository(), testDirectory())

	_, err := uc.Execute(context.Background(), usecase.StartConversationInput{CallerID: "u1", OtherUserID: "ghost"})
	assert.ErrorIs(t, err, chat.ErrUnknownUser)
}

// racingRepo simulates losing the first-contact race: the initial pair lookup
// misses even though the conversation exists, so create hits the unique index.
type racingRepo struct {
	repository.ChatRepository
	misses int
}

func (r *racingRepo) FindConversationByPair(ctx context.Context, a, b string) (chat.Conversation, error) {
	if r.misses > 0 {
		r.misses--
		return chat.Conversation{}, chat.ErrNotFound
	}
	return r.ChatRepository.FindConversationByPair(ctx, a, b)
}

func TestStartConversationRecoversFromCreateRace(t *testing.T) {
	inner := adapter.NewMemoryChatRepository()
	ctx := context.Background()

	winner, err := usecase.NewStartConversationUseCase(inner, testDirectory()).
		Execute(ctx, usecase.StartConversationInput{CallerID: "u2", OtherUserID: "u1"})
	require.NoError(t, err)

	uc := usecase.NewStartConversationUseCase(&racingRepo{ChatRepository: inner, misses: 1}, testDirectory())
	out, err := uc.Execute(ctx, usecase.StartConversationInput{CallerID: "u1", OtherUserID: "u2"})
	require.NoError(t, err)

	assert.False(t, out.Created)
	assert.Equal(t, winner.Conversation.ID, out.Conversation.ID)

	convs, err := inner.ListConversationsByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, convs, 1)
}
