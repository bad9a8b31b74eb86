package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	v1 "github.com/LavanyaThanigaivel/GigConnect/cmd/api/router/v1"
	"github.com/LavanyaThanigaivel/GigConnect/internal/config"
	cacheAdapter "github.com/LavanyaThanigaivel/GigConnect/internal/infrastructure/cache/adapter"
	"github.com/LavanyaThanigaivel/GigConnect/internal/infrastructure/database"
	queueAdapter "github.com/LavanyaThanigaivel/GigConnect/internal/infrastructure/queue/adapter"
	"github.com/LavanyaThanigaivel/GigConnect/internal/infrastructure/realtime"
	"github.com/LavanyaThanigaivel/GigConnect/internal/observability"
	"github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/application/task"
	repoAdapter "github.com/LavanyaThanigaivel/GigConnect/internal/pkg/chat/persistence/repository/adapter"
	"github.com/LavanyaThanigaivel/GigConnect/internal/userdir"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: .env file not found: %v", err)
	}

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := observability.NewLogger(cfg.Server.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	pool, err := database.NewPool(connectCtx, cfg.Postgres)
	cancel()
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		return
	}
	defer pool.Close()

	cache, err := cacheAdapter.NewRedisCache(ctx, cfg.Redis.URL)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		return
	}
	defer cache.Close()

	queueClient, err := queueAdapter.NewAsynqClient(cfg.Redis.URL)
	if err != nil {
		logger.Error("failed to create queue client", "error", err)
		return
	}
	defer queueClient.Close()

	queueServer, err := queueAdapter.NewAsynqServer(cfg.Redis.URL, cfg.Queue, logger)
	if err != nil {
		logger.Error("failed to create queue server", "error", err)
		return
	}

	relay := realtime.NewRouter()
	defer relay.Close()

	repo := repoAdapter.NewPgChatRepository(pool)
	users := userdir.NewCachedDirectory(userdir.NewPgDirectory(pool), cache, cfg.Redis.UserCacheTTL, logger)

	task.RegisterDeliverMessageTask(queueServer, relay, logger)
	go func() {
		if err := queueServer.Run(ctx); err != nil {
			logger.Error("queue server stopped", "error", err)
		}
	}()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		dbState := "connected"
		if err := pool.Ping(c.Request.Context()); err != nil {
			dbState = "disconnected"
			status = http.StatusServiceUnavailable
		}
		cacheState := "connected"
		if err := cache.Ping(c.Request.Context()); err != nil {
			cacheState = "disconnected"
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "OK", "database": dbState, "cache": cacheState})
	})

	v1.RegisterRoutes(r, cfg.Auth.JWTSecret, repo, users, queueClient, relay, logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Server.Port, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	_ = queueServer.Stop(shutdownCtx)
}
