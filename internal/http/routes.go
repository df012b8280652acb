package http

import (
	"time"

	"apoema_board/internal/config"
	"apoema_board/internal/http/handlers"
	"apoema_board/internal/http/middleware"
	"apoema_board/internal/relay"
	"apoema_board/internal/repository"
	"apoema_board/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, bridge *relay.Bridge, version string, cfg *config.Config) *ws.Hub {
	hub := ws.NewHub(
		repository.NewBoardRepository(db),
		repository.NewColumnRepository(db),
		repository.NewTaskRepository(db),
		bridge,
	)
	hub.StartCleanup()

	h := handlers.NewHandler(db, hub)
	if cfg != nil {
		h.AllowedOrigin = cfg.AllowedOrigin
	}
	healthHandler := handlers.NewHealthHandler(db, version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	apiRateLimit := 60
	apiRateWindow := time.Minute
	mutationRateLimit := 240
	mutationRateWindow := time.Minute
	if cfg != nil {
		apiRateLimit = cfg.APIRateLimit
		apiRateWindow = cfg.APIRateWindow
		mutationRateLimit = cfg.MutationRateLimit
		mutationRateWindow = cfg.MutationRateWindow
	}

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))
	registerAPIRoutes(v1, h, mutationRateLimit, mutationRateWindow)

	// One relay channel per board. Upgrades are limited in-process: no point
	// in a Redis round trip before the connection even exists.
	r.GET("/ws/:board", middleware.SimpleRateLimit(30, time.Minute), h.WS)

	return hub
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, mutationRateLimit int, mutationRateWindow time.Duration) {
	// User directory (read-only, feeds assignee pickers)
	api.GET("/users", h.ListUsers)
	api.GET("/me", middleware.JWT(), h.Me)

	// Per-user mutation limiter for board edits
	mutRL := middleware.MutationRateLimit(mutationRateLimit, mutationRateWindow)

	// Boards
	api.GET("/boards", h.ListBoards)
	api.POST("/boards", middleware.JWT(), mutRL, h.CreateBoard)
	api.GET("/boards/:board", h.GetBoard)
	api.PATCH("/boards/:board", middleware.JWT(), mutRL, h.RenameBoard)
	api.DELETE("/boards/:board", middleware.JWT(), mutRL, h.DeleteBoard)
	api.GET("/boards/:board/summary", h.BoardSummary)

	// Per-user column display order (client-local preference)
	api.GET("/boards/:board/prefs/columns", middleware.JWT(), h.GetColumnOrder)
	api.PUT("/boards/:board/prefs/columns", middleware.JWT(), h.SaveColumnOrder)
	api.POST("/boards/:board/prefs/columns/move", middleware.JWT(), h.MoveColumn)

	// Columns
	api.GET("/boards/:board/columns", h.GetColumns)
	api.POST("/boards/:board/columns", middleware.JWT(), mutRL, h.CreateColumn)
	api.PATCH("/boards/:board/columns/:column", middleware.JWT(), mutRL, h.UpdateColumn)
	api.DELETE("/boards/:board/columns/:column", middleware.JWT(), mutRL, h.DeleteColumn)

	// Tasks
	api.GET("/boards/:board/tasks", h.GetTasks)
	api.POST("/boards/:board/tasks", middleware.JWT(), mutRL, h.CreateTask)
	api.PATCH("/boards/:board/tasks/:task", middleware.JWT(), mutRL, h.UpdateTask)
	api.DELETE("/boards/:board/tasks/:task", middleware.JWT(), mutRL, h.DeleteTask)
	api.POST("/boards/:board/tasks/:task/move", middleware.JWT(), mutRL, h.MoveTask)
}
