package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LavanyaThanigaivel/GigConnect/internal/middleware"
	"github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/application/usecase"
	repository "github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/persistence/repository/port"
	"github.com/LavanyaThanigaivel/GigConnect/internal/userdir"
)

// ListMessagesController handles fetching the message log of a conversation.
type ListMessagesController struct {
	UC *usecase.ListMessagesUseCase
}

func NewListMessagesController(repo repository.ChatRepository, users userdir.Directory) *ListMessagesController {
	return &ListMessagesController{UC: usecase.NewListMessagesUseCase(repo, users)}
}

func (h *ListMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msgs, err := h.UC.Execute(ctx, usecase.ListMessagesInput{
			CallerID:       middleware.CallerID(c),
			ConversationID: c.Param("conversationId"),
		})
		if err != nil {
			respondError(c, err)
			return
		}

		out := make([]messageResponse, 0, len(msgs))
		for _, m := range msgs {
			out = append(out, toMessageResponse(m))
		}
		c.JSON(http.StatusOK, out)
	}
}
