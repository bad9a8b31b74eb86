package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LavanyaThanigaivel/GigConnect/internal/middleware"
	"github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/application/usecase"
	repository "github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/persistence/repository/port"
)

// MarkReadController handles acknowledging a conversation: every unread
// message addressed to the caller flips to read.
type MarkReadController struct {
	UC *usecase.MarkReadUseCase
}

func NewMarkReadController(repo repository.ChatRepository) *MarkReadController {
	return &MarkReadController{UC: usecase.NewMarkReadUseCase(repo)}
}

func (h *MarkReadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		updated, err := h.UC.Execute(ctx, usecase.MarkReadInput{
			CallerID:       middleware.CallerID(c),
			ConversationID: c.Param("conversationId"),
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": updated})
	}
}
