package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/application/usecase"
	chat "github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/domain"
	"github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/persistence/repository/adapter"
)

func TestMarkReadOnlyAffectsCallersInbox(t *testing.T) {
	repo := adapter.NewMemoryChatRepository()
	dir := testDirectory()
	send := usecase.NewSendMessageUseCase(repo, dir)
	ctx := context.Background()

	out, err := send.Execute(ctx, usecase.SendMessageInput{
		CallerID: "u1", Target: usecase.ByReceiver{ReceiverID: "u2"}, Content: "from u1",
	})
	require.NoError(t, err)
	convID := out.Conversation.ID

	_, err = send.Execute(ctx, usecase.SendMessageInput{
		CallerID: "u2", Target: usecase.ByConversation{ConversationID: convID}, Content: "from u2",
	})
	require.NoError(t, err)

	mark := usecase.NewMarkReadUseCase(repo)
	updated, err := mark.Execute(ctx, usecase.MarkReadInput{CallerID: "u1", ConversationID: convID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, updated)

	msgs, err := usecase.NewListMessagesUseCase(repo, dir).
		Execute(ctx, usecase.ListMessagesInput{CallerID: "u1", ConversationID: convID})
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	for _, m := range msgs {
		if m.Message.ReceiverID == "u1" {
			assert.True(t, m.Message.Read, "message addressed to u1 should be read")
		} else {
			assert.False(t, m.Message.Read, "message sent by u1 must stay unread")
		}
	}

	// marking again is a no-op
	updated, err = mark.Execute(ctx, usecase.MarkReadInput{CallerID: "u1", ConversationID: convID})
	require.NoError(t, err)
	assert.Zero(t, updated)
}

func TestMarkReadChecks(t *testing.T) {
	repo := adapter.NewMemoryChatRepository()
	ctx := context.Background()

	start := usecase.NewStartConversationUseCase(repo, testDirectory())
	conv, err := start.Execute(ctx, usecase.StartConversationInput{CallerID: "u1", OtherUserID: "u2"})
	require.NoError(t, err)

	mark := usecase.NewMarkReadUseCase(repo)

	_, err = mark.Execute(ctx, usecase.MarkReadInput{CallerID: "u3", ConversationID: conv.Conversation.ID})
	assert.ErrorIs(t, err, chat.ErrNotParticipant)

	_, err = mark.Execute(ctx, usecase.MarkReadInput{CallerID: "u1", ConversationID: "missing"})
	assert.ErrorIs(t, err, chat.ErrNotFound)
}

// Full exchange: first contact, replies, and acknowledgment.
func TestConversationExchangeScenario(t *testing.T) {
	repo := adapter.NewMemoryChatRepository()
	dir := testDirectory()
	ctx := context.Background()

	start := usecase.NewStartConversationUseCase(repo, dir)
	opened, err := start.Execute(ctx, usecase.StartConversationInput{CallerID: "u1", OtherUserID: "u2"})
	require.NoError(t, err)
	assert.True(t, opened.Created)
	assert.Empty(t, opened.Conversation.LastMessage)

	send := usecase.NewSendMessageUseCase(repo, dir)
	first, err := send.Execute(ctx, usecase.SendMessageInput{
		CallerID: "u1",
		Target:   usecase.ByConversation{ConversationID: opened.Conversation.ID},
		Content:  "Are you available?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Are you available?", first.Conversation.LastMessage)

	list := usecase.NewListMessagesUseCase(repo, dir)
	seen, err := list.Execute(ctx, usecase.ListMessagesInput{CallerID: "u2", ConversationID: opened.Conversation.ID})
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, "u2", seen[0].Message.ReceiverID)
	assert.False(t, seen[0].Message.Read)

	_, err = send.Execute(ctx, usecase.SendMessageInput{
		CallerID: "u2",
		Target:   usecase.ByConversation{ConversationID: opened.Conversation.ID},
		Content:  "Yes, what's the budget?",
	})
	require.NoError(t, err)

	seen, err = list.Execute(ctx, usecase.ListMessagesInput{CallerID: "u1", ConversationID: opened.Conversation.ID})
	require.NoError(t, err)
	require.Len(t, seen, 2)
	assert.Equal(t, "Are you available?", seen[0].Message.Content)
	assert.Equal(t, "Yes, what's the budget?", seen[1].Message.Content)

	_, err = usecase.NewMarkReadUseCase(repo).
		Execute(ctx, usecase.MarkReadInput{CallerID: "u1", ConversationID: opened.Conversation.ID})
	require.NoError(t, err)

	seen, err = list.Execute(ctx, usecase.ListMessagesInput{CallerID: "u1", ConversationID: opened.Conversation.ID})
	require.NoError(t, err)
	assert.False(t, seen[0].Message.Read, "u1's own message has no read transition")
	assert.True(t, seen[1].Message.Read, "u2's message to u1 is acknowledged")
}
