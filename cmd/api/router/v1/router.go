package v1

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	qport "github.com/LavanyaThanigaivel/GigConnect/internal/infrastructure/queue/port"
	"github.com/LavanyaThanigaivel/GigConnect/internal/infrastructure/realtime"
	"github.com/LavanyaThanigaivel/GigConnect/internal/middleware"
	httpHandler "github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/presentation/http"
	repository "github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/persistence/repository/port"
	"github.com/LavanyaThanigaivel/GigConnect/internal/userdir"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1, every one of
// them behind the JWT middleware.
func RegisterRoutes(
	r *gin.Engine,
	jwtSecret string,
	repo repository.ChatRepository,
	users userdir.Directory,
	queue qport.Client,
	relay *realtime.Router,
	logger *slog.Logger,
) {
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JwtAuth(jwtSecret))
	httpHandler.RegisterRoutes(v1, repo, users, queue, relay, logger)
}
