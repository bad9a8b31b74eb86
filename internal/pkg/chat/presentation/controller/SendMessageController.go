package controller

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	qport "github.com/LavanyaThanigaivel/GigConnect/internal/infrastructure/queue/port"
	"github.com/LavanyaThanigaivel/GigConnect/internal/middleware"
	"github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/application/task"
	"github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/application/usecase"
	repository "github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/persistence/repository/port"
	"github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/presentation/event"
	"github.com/LavanyaThanigaivel/GigConnect/internal/userdir"
)

// SendMessageController handles the send-message endpoint. The message is
// durable before the handler returns; realtime fan-out rides the task queue
// so a relay hiccup can only delay delivery, never fail the send.
type SendMessageController struct {
	UC     *usecase.SendMessageUseCase
	Queue  qport.Client
	Logger *slog.Logger
}

func NewSendMessageController(repo repository.ChatRepository, users userdir.Directory, queue qport.Client, logger *slog.Logger) *SendMessageController {
	if logger == nil {
		logger = slog.Default()
	}
	return &SendMessageController{
		UC:     usecase.NewSendMessageUseCase(repo, users),
		Queue:  queue,
		Logger: logger,
	}
}

// sendMessageRequest is the DTO for the HTTP request body. Exactly one of
// conversation_id or receiver_id selects the target.
type sendMessageRequest struct {
	ConversationID string `json:"conversation_id"`
	ReceiverID     string `json:"receiver_id"`
	Content        string `json:"content"`
}

type sendMessageResponse struct {
	messageResponse
	Delivery string `json:"delivery"`
}

func (r sendMessageRequest) target() (usecase.SendTarget, error) {
	switch {
	case r.ConversationID != "" && r.ReceiverID != "":
		return nil, usecase.ErrMissingTarget
	case r.ConversationID != "":
		return usecase.ByConversation{ConversationID: r.ConversationID}, nil
	case r.ReceiverID != "":
		return usecase.ByReceiver{ReceiverID: r.ReceiverID}, nil
	default:
		return nil, usecase.ErrMissingTarget
	}
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "validation"})
			return
		}

		target, err := req.target()
		if err != nil {
			respondError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		out, err := h.UC.Execute(ctx, usecase.SendMessageInput{
			CallerID: middleware.CallerID(c),
			Target:   target,
			Content:  req.Content,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		delivery := "queued"
		if err := h.enqueueDelivery(ctx, out); err != nil {
			// Message is already durable; live delivery may lag but the send
			// itself succeeded.
			h.Logger.Warn("send: delivery enqueue failed",
				"conversation_id", out.Conversation.ID, "error", err)
			delivery = "delayed"
		}

		c.JSON(http.StatusCreated, sendMessageResponse{
			messageResponse: toMessageResponse(out.Message),
			Delivery:        delivery,
		})
	}
}

func (h *SendMessageController) enqueueDelivery(ctx context.Context, out usecase.SendMessageOutput) error {
	m := out.Message.Message
	payload, err := json.Marshal(task.DeliverMessagePayload{
		ConversationID: m.ConversationID,
		ReceiverID:     m.ReceiverID,
		Message: event.Message{
			ID:             m.ID,
			ConversationID: m.ConversationID,
			SenderID:       m.SenderID,
			ReceiverID:     m.ReceiverID,
			Content:        m.Content,
			Read:           m.Read,
			CreatedAt:      m.CreatedAt,
		},
		Sender: event.Sender{ID: m.SenderID, DisplayName: out.Message.SenderName},
	})
	if err != nil {
		return err
	}

	_, err = h.Queue.Enqueue(ctx,
		qport.Task{Type: task.DeliverMessageTaskType, Payload: payload},
		qport.EnqueueOption{Queue: "chat", MaxRetry: 3},
	)
	return err
}
