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

// ListConversationsController handles the conversation listing endpoint (one
// controller per endpoint).
type ListConversationsController struct {
	UC *usecase.ListConversationsUseCase
}

func NewListConversationsController(repo repository.ChatRepository, users userdir.Directory) *ListConversationsController {
	return &ListConversationsController{UC: usecase.NewListConversationsUseCase(repo, users)}
}

func (h *ListConversationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		summaries, err := h.UC.Execute(ctx, usecase.ListConversationsInput{
			CallerID: middleware.CallerID(c),
		})
		if err != nil {
			respondError(c, err)
			return
		}

		out := make([]conversationResponse, 0, len(summaries))
		for _, s := range summaries {
			out = append(out, toConversationResponse(s))
		}
		c.JSON(http.StatusOK, out)
	}
}
