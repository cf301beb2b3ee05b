// internal/routes/routes.go
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"escpos-service/internal/config"
	"escpos-service/internal/database"
	"escpos-service/internal/handler"
	"escpos-service/internal/middleware"
	"escpos-service/internal/service"
	"escpos-service/internal/utils"
)

// Router holds all dependencies for routing
type Router struct {
	config           *config.Config
	logger           *zap.Logger
	db               *database.DB
	decodeService    *service.DecodeService
	captureService   *service.CaptureService
	discoveryService *service.DiscoveryService
	wsHandler        *handler.WebSocketHandler
}

// NewRouter creates a new router instance. db and captureService may be nil
func NewRouter(
	config *config.Config,
	logger *zap.Logger,
	db *database.DB,
	decodeService *service.DecodeService,
	captureService *service.CaptureService,
	discoveryService *service.DiscoveryService,
	wsHandler *handler.WebSocketHandler,
) *Router {
	return &Router{
		config:           config,
		logger:           logger,
		db:               db,
		decodeService:    decodeService,
		captureService:   captureService,
		discoveryService: discoveryService,
		wsHandler:        wsHandler,
	}
}

// SetupRouter creates and configures the Gin router
func (r *Router) SetupRouter() *gin.Engine {
	if r.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	r.addMiddleware(router)
	r.addRoutes(router)

	return router
}

// addMiddleware adds middleware to the router
func (r *Router) addMiddleware(router *gin.Engine) {
	router.Use(middleware.RecoveryMiddleware(r.logger))
	router.Use(middleware.RequestIDMiddleware())

	serviceLogger := utils.NewServiceLogger(r.logger, "http-server")
	router.Use(middleware.LoggingMiddleware(serviceLogger))

	router.Use(middleware.CORSMiddleware(&r.config.Security))
	router.Use(middleware.BodyLimitMiddleware(r.config.Server.MaxRequestSize))

	r.logger.Info("Middleware configured")
}

// addRoutes sets up all application routes
func (r *Router) addRoutes(router *gin.Engine) {
	healthHandler := handler.NewHealthHandler(r.db, r.captureService, r.config, r.logger)
	decodeHandler := handler.NewDecodeHandler(r.decodeService, r.logger)
	jobHandler := handler.NewJobHandler(r.decodeService, r.logger)
	tableHandler := handler.NewTableHandler()
	captureHandler := handler.NewCaptureHandler(r.captureService, r.discoveryService, r.logger)

	r.addHealthRoutes(router, healthHandler)

	apiV1 := router.Group("/api/v1")
	apiV1.POST("/decode", decodeHandler.Decode)
	r.addJobRoutes(apiV1, jobHandler)
	r.addTableRoutes(apiV1, tableHandler)
	r.addCaptureRoutes(apiV1, captureHandler)

	r.addWebSocketRoutes(router, r.wsHandler)
	r.addDocumentationRoutes(router)

	r.logger.Info("All routes configured successfully")
}

// addHealthRoutes sets up health check routes
func (r *Router) addHealthRoutes(router *gin.Engine, handler *handler.HealthHandler) {
	health := router.Group("")
	{
		health.GET("/health", handler.HealthCheck)
		health.GET("/health/db", handler.DatabaseHealthCheck)
		health.GET("/ready", handler.ReadinessCheck)
		health.GET("/live", handler.LivenessCheck)
	}
}

// addJobRoutes sets up stored job routes
func (r *Router) addJobRoutes(api *gin.RouterGroup, handler *handler.JobHandler) {
	jobs := api.Group("/jobs")
	{
		jobs.GET("", handler.ListJobs)
		jobs.GET("/stats", handler.GetJobStats)

		job := jobs.Group("/:id")
		{
			job.GET("", handler.GetJob)
			job.DELETE("", handler.DeleteJob)
			job.GET("/raw", handler.GetJobRaw)
			job.POST("/redecode", handler.RedecodeJob)
		}
	}
	api.GET("/events", handler.ListEvents)
}

// addTableRoutes sets up command table routes
func (r *Router) addTableRoutes(api *gin.RouterGroup, handler *handler.TableHandler) {
	tables := api.Group("/tables")
	{
		tables.GET("", handler.ListTables)
		tables.GET("/:name", handler.GetTable)
	}
}

// addCaptureRoutes sets up capture and port discovery routes
func (r *Router) addCaptureRoutes(api *gin.RouterGroup, handler *handler.CaptureHandler) {
	capture := api.Group("/capture")
	{
		capture.GET("/sources", handler.ListSources)
		capture.GET("/ports", handler.ScanPorts)
		capture.POST("/ports/suggest", handler.SuggestSource)
	}
}

// addWebSocketRoutes sets up WebSocket routes
func (r *Router) addWebSocketRoutes(router *gin.Engine, handler *handler.WebSocketHandler) {
	ws := router.Group("/ws")
	{
		ws.GET("/jobs", handler.HandleJobConnection)
		ws.GET("/stats", handler.GetConnectionStats)
	}
}

// addDocumentationRoutes sets up documentation routes
func (r *Router) addDocumentationRoutes(router *gin.Engine) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	router.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
}
