package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskboard-api/internal/config"
	"taskboard-api/internal/handler"
	"taskboard-api/internal/metrics"
	"taskboard-api/internal/middleware"
	"taskboard-api/internal/realtime"
	"taskboard-api/internal/repository"
	"taskboard-api/internal/service"
)

// Setup wires repositories, services and handlers into a gin engine. The
// returned hub must be closed on shutdown. redisClient and m may be nil.
func Setup(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, m *metrics.Metrics, logger *zap.Logger) (*gin.Engine, *realtime.Hub) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	if m != nil {
		r.Use(middleware.Metrics(m))
	}

	// Repositories
	boardRepo := repository.NewBoardRepository(db)
	listRepo := repository.NewListRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// Realtime hub; the access service doubles as its subscribe gate
	accessService := service.NewAccessService(boardRepo)
	var recorder realtime.Recorder
	var appendRecorder service.AppendRecorder
	if m != nil {
		recorder = m
		appendRecorder = m
	}
	hub := realtime.NewHub(accessService, redisClient, recorder, logger)

	// Services
	activityService := service.NewActivityService(activityRepo, accessService, hub, appendRecorder, logger)
	boardService := service.NewBoardService(boardRepo, listRepo, taskRepo, activityRepo, accessService, activityService, hub, logger)
	listService := service.NewListService(listRepo, taskRepo, accessService, activityService, hub, logger)
	taskService := service.NewTaskService(taskRepo, listRepo, accessService, activityService, hub, logger)

	// Handlers
	boardHandler := handler.NewBoardHandler(boardService, activityService)
	listHandler := handler.NewListHandler(listService)
	taskHandler := handler.NewTaskHandler(taskService)
	wsHandler := handler.NewWSHandler(hub, cfg.Auth.SecretKey, logger)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	// Probes and metrics (no auth)
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Realtime endpoint; authenticates via token query parameter
	r.GET("/ws", wsHandler.HandleWebSocket)

	api := r.Group("/api")
	api.Use(middleware.Auth(cfg.Auth.SecretKey))
	{
		boards := api.Group("/boards")
		{
			boards.POST("", boardHandler.CreateBoard)
			boards.GET("", boardHandler.GetBoards)
			boards.GET("/:id", boardHandler.GetBoard)
			boards.PUT("/:id", boardHandler.UpdateBoard)
			boards.DELETE("/:id", boardHandler.DeleteBoard)
			boards.POST("/:id/members", boardHandler.AddMember)
			boards.DELETE("/:id/members/:userId", boardHandler.RemoveMember)
			boards.GET("/:id/activities", boardHandler.GetActivities)
		}

		lists := api.Group("/lists")
		{
			lists.POST("", listHandler.CreateList)
			lists.GET("/board/:boardId", listHandler.GetLists)
			// static segment before the :id routes
			lists.PUT("/reorder/positions", listHandler.ReorderLists)
			lists.PUT("/:id", listHandler.UpdateList)
			lists.DELETE("/:id", listHandler.DeleteList)
		}

		tasks := api.Group("/tasks")
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/board/:boardId/search", taskHandler.SearchTasks)
			tasks.GET("/list/:listId", taskHandler.GetTasksByList)
			tasks.PUT("/reorder/positions", taskHandler.ReorderTasks)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.PUT("/:id/move", taskHandler.MoveTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}
	}

	return r, hub
}
