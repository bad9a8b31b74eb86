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

// GetConversationController handles fetching a single conversation summary.
type GetConversationController struct {
	UC *usecase.GetConversationUseCase
}

func NewGetConversationController(repo repository.ChatRepository, users userdir.Directory) *GetConversationController {
	return &GetConversationController{UC: usecase.NewGetConversationUseCase(repo, users)}
}

func (h *GetConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		summary, err := h.UC.Execute(ctx, usecase.GetConversationInput{
			CallerID:       middleware.CallerID(c),
			ConversationID: c.Param("conversationId"),
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toConversationResponse(summary))
	}
}
