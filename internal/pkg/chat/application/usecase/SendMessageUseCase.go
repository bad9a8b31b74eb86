package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	chat "github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/domain"
	repository "github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/persistence/repository/port"
	"github.com/LavanyaThanigaivel/GigConnect/internal/userdir"
)

// SendTarget selects the conversation a message goes to: either an existing
// conversation by id, or a receiver (get-or-create on first contact). Exactly
// one of the two forms is valid per send.
type SendTarget interface {
	sendTarget()
}

// ByConversation targets an existing conversation; the caller must be a
// participant.
type ByConversation struct {
	ConversationID string
}

// ByReceiver targets the unique conversation with another user, creating it
// lazily on first contact.
type ByReceiver struct {
	ReceiverID string
}

func (ByConversation) sendTarget() {}
func (ByReceiver) sendTarget()     {}

// ErrMissingTarget signals that no usable send target was provided.
var ErrMissingTarget = errors.New("chat: a conversation id or receiver id is required")

// SendMessageInput carries the data needed to send a message.
type SendMessageInput struct {
	CallerID string
	Target   SendTarget
	Content  string
}

// SendMessageOutput reports the persisted, decorated message and the owning
// conversation after its projection update.
type SendMessageOutput struct {
	Message      DecoratedMessage
	Conversation chat.Conversation
}

// SendMessageUseCase appends a message to its conversation and refreshes the
// lastMessage projection. The request is complete once the message is
// durable; realtime fan-out is the caller's (best-effort) concern.
type SendMessageUseCase struct {
	Repo  repository.ChatRepository
	Users userdir.Directory
}

func NewSendMessageUseCase(repo repository.ChatRepository, users userdir.Directory) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo, Users: users}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (SendMessageOutput, error) {
	if in.CallerID == "" {
		return SendMessageOutput{}, fmt.Errorf("caller id is required")
	}

	// Content is validated before the target resolves: a ByReceiver send must
	// not get-or-create a conversation that the rejected message never enters.
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return SendMessageOutput{}, chat.ErrEmptyContent
	}

	conv, err := uc.resolveConversation(ctx, in)
	if err != nil {
		return SendMessageOutput{}, err
	}

	msg, err := chat.NewMessage(conv, in.CallerID, content, time.Now().UTC())
	if err != nil {
		return SendMessageOutput{}, err
	}

	saved, err := uc.Repo.AppendMessage(ctx, msg)
	if err != nil {
		return SendMessageOutput{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	conv.LastMessage = saved.Content
	conv.LastMessageAt = saved.CreatedAt
	conv.UpdatedAt = saved.CreatedAt

	senderName := ""
	if sender, err := uc.Users.FindByID(ctx, in.CallerID); err == nil {
		senderName = sender.DisplayName()
	}

	return SendMessageOutput{
		Message:      DecoratedMessage{Message: saved, SenderName: senderName},
		Conversation: conv,
	}, nil
}

func (uc *SendMessageUseCase) resolveConversation(ctx context.Context, in SendMessageInput) (chat.Conversation, error) {
	switch target := in.Target.(type) {
	case ByConversation:
		if target.ConversationID == "" {
			return chat.Conversation{}, ErrMissingTarget
		}
		conv, err := uc.Repo.FindConversationByID(ctx, target.ConversationID)
		if errors.Is(err, chat.ErrNotFound) {
			return chat.Conversation{}, chat.ErrNotFound
		}
		if err != nil {
			return chat.Conversation{}, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if !conv.HasParticipant(in.CallerID) {
			return chat.Conversation{}, chat.ErrNotParticipant
		}
		return conv, nil

	case ByReceiver:
		if target.ReceiverID == "" {
			return chat.Conversation{}, ErrMissingTarget
		}
		start := StartConversationUseCase{Repo: uc.Repo, Users: uc.Users}
		out, err := start.Execute(ctx, StartConversationInput{
			CallerID:    in.CallerID,
			OtherUserID: target.ReceiverID,
		})
		if err != nil {
			return chat.Conversation{}, err
		}
		return out.Conversation, nil

	default:
		return chat.Conversation{}, ErrMissingTarget
	}
}
