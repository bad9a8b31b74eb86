package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/application/usecase"
	chat "github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/domain"
)

// userResponse is the decorated participant metadata on summaries.
type userResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	UserType  string `json:"user_type"`
}

// conversationResponse is the wire shape of a conversation summary.
type conversationResponse struct {
	ID            string       `json:"id"`
	Participants  [2]string    `json:"participants"`
	Other         userResponse `json:"other"`
	LastMessage   string       `json:"last_message"`
	LastMessageAt time.Time    `json:"last_message_at"`
	UnreadCount   int          `json:"unread_count"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// messageResponse is the wire shape of a decorated message.
type messageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	ReceiverID     string    `json:"receiver_id"`
	SenderName     string    `json:"sender_name"`
	Content        string    `json:"content"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"created_at"`
}

// errorResponse carries a short human-readable message plus a category the
// client uses to pick UI treatment (inline validation, redirect, toast).
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func toConversationResponse(s usecase.ConversationSummary) conversationResponse {
	return conversationResponse{
		ID:           s.Conversation.ID,
		Participants: s.Conversation.Participants(),
		Other: userResponse{
			ID:        s.Other.ID,
			FirstName: s.Other.FirstName,
			LastName:  s.Other.LastName,
			UserType:  s.Other.UserType,
		},
		LastMessage:   s.Conversation.LastMessage,
		LastMessageAt: s.Conversation.LastMessageAt,
		UnreadCount:   s.UnreadCount,
		CreatedAt:     s.Conversation.CreatedAt,
		UpdatedAt:     s.Conversation.UpdatedAt,
	}
}

func toMessageResponse(d usecase.DecoratedMessage) messageResponse {
	return messageResponse{
		ID:             d.Message.ID,
		ConversationID: d.Message.ConversationID,
		SenderID:       d.Message.SenderID,
		ReceiverID:     d.Message.ReceiverID,
		SenderName:     d.SenderName,
		Content:        d.Message.Content,
		Read:           d.Message.Read,
		CreatedAt:      d.Message.CreatedAt,
	}
}

// respondError maps domain errors to structured HTTP error responses.
// Unexpected failures collapse to a generic 500 so internals never leak.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrEmptyContent),
		errors.Is(err, chat.ErrSelfConversation),
		errors.Is(err, usecase.ErrMissingTarget):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "validation"})
	case errors.Is(err, chat.ErrUnknownUser),
		errors.Is(err, chat.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error(), Code: "not_found"})
	case errors.Is(err, chat.ErrNotParticipant):
		c.JSON(http.StatusForbidden, errorResponse{Error: err.Error(), Code: "forbidden"})
	case errors.Is(err, usecase.ErrPersistence):
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "unexpected server error", Code: "internal"})
	default:
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "validation"})
	}
}
