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

// StartConversationController handles get-or-create of the conversation with
// another user. 201 when this call created it, 200 when it already existed.
type StartConversationController struct {
	startUC *usecase.StartConversationUseCase
	getUC   *usecase.GetConversationUseCase
}

func NewStartConversationController(repo repository.ChatRepository, users userdir.Directory) *StartConversationController {
	return &StartConversationController{
		startUC: usecase.NewStartConversationUseCase(repo, users),
		getUC:   usecase.NewGetConversationUseCase(repo, users),
	}
}

func (h *StartConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID := middleware.CallerID(c)
		otherUserID := c.Param("userId")

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		out, err := h.startUC.Execute(ctx, usecase.StartConversationInput{
			CallerID:    callerID,
			OtherUserID: otherUserID,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		summary, err := h.getUC.Execute(ctx, usecase.GetConversationInput{
			CallerID:       callerID,
			ConversationID: out.Conversation.ID,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		status := http.StatusOK
		if out.Created {
			status = http.StatusCreated
		}
		c.JSON(status, toConversationResponse(summary))
	}
}
