package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	qport "github.com/LavanyaThanigaivel/GigConnect/internal/infrastructure/queue/port"
	"github.com/LavanyaThanigaivel/GigConnect/internal/infrastructure/realtime"
	"github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/presentation/controller"
	repository "github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/persistence/repository/port"
	"github.com/LavanyaThanigaivel/GigConnect/internal/userdir"
)

// RegisterRoutes registers messaging endpoints under the given router group.
// It constructs per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(
	g *gin.RouterGroup,
	repo repository.ChatRepository,
	users userdir.Directory,
	queue qport.Client,
	router *realtime.Router,
	logger *slog.Logger,
) {
	listConvsCtl := controller.NewListConversationsController(repo, users)
	startConvCtl := controller.NewStartConversationController(repo, users)
	getConvCtl := controller.NewGetConversationController(repo, users)
	listMsgsCtl := controller.NewListMessagesController(repo, users)
	sendMsgCtl := controller.NewSendMessageController(repo, users, queue, logger)
	markReadCtl := controller.NewMarkReadController(repo)
	socketCtl := controller.NewChatSocketController(repo, users, router, logger)

	// GET /api/v1/conversations -> caller's conversation summaries
	g.GET("/conversations", listConvsCtl.Handle())

	// POST /api/v1/conversation/:userId -> get-or-create with another user
	g.POST("/conversation/:userId", startConvCtl.Handle())

	// GET /api/v1/conversation/:conversationId -> one conversation summary
	g.GET("/conversation/:conversationId", getConvCtl.Handle())

	// GET /api/v1/messages/:conversationId -> ordered message log
	g.GET("/messages/:conversationId", listMsgsCtl.Handle())

	// POST /api/v1/messages -> send a message
	g.POST("/messages", sendMsgCtl.Handle())

	// PUT /api/v1/messages/:conversationId/read -> acknowledge a conversation
	g.PUT("/messages/:conversationId/read", markReadCtl.Handle())

	// GET /api/v1/chat/ws -> websocket endpoint for realtime traffic
	g.GET("/chat/ws", socketCtl.Handle())
}
