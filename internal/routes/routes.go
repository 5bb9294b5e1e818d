// internal/routes/routes.go
package routes

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"wavegen/internal/config"
	"wavegen/internal/database"
	"wavegen/internal/handler"
	"wavegen/internal/middleware"
	"wavegen/internal/service"
)

// Router holds all dependencies for routing
type Router struct {
	config           *config.Config
	logger           *zap.Logger
	db               *database.DB
	generatorService *service.GeneratorService
	eventBus         *handler.EventBus
	wsHandler        *handler.WebSocketHandler
}

// NewRouter creates a new router instance. db is nil when the capture
// archive is disabled.
func NewRouter(
	config *config.Config,
	logger *zap.Logger,
	db *database.DB,
	generatorService *service.GeneratorService,
	eventBus *handler.EventBus,
) *Router {
	return &Router{
		config:           config,
		logger:           logger,
		db:               db,
		generatorService: generatorService,
		eventBus:         eventBus,
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

// RunEventStream forwards bus events to WebSocket clients until ctx is done
func (r *Router) RunEventStream(ctx context.Context) error {
	if r.wsHandler == nil {
		<-ctx.Done()
		return nil
	}
	return r.wsHandler.Run(ctx)
}

// addMiddleware adds middleware to the router
func (r *Router) addMiddleware(router *gin.Engine) {
	router.Use(middleware.RecoveryMiddleware(r.logger))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(r.logger))
	router.Use(middleware.CORSMiddleware(&r.config.Server))

	r.logger.Info("Middleware configured")
}

// addRoutes sets up all application routes
func (r *Router) addRoutes(router *gin.Engine) {
	healthHandler := handler.NewHealthHandler(r.db, r.generatorService, r.config, r.logger)
	generatorHandler := handler.NewGeneratorHandler(r.generatorService, r.logger)
	r.wsHandler = handler.NewWebSocketHandler(r.generatorService, r.eventBus, r.config.Server.AllowedOrigins, r.logger)

	// Health checks live at the root for probes
	healthHandler.RegisterRoutes(router.Group(""))

	apiV1 := router.Group("/api/v1")
	generatorHandler.RegisterRoutes(apiV1)

	r.wsHandler.RegisterRoutes(router.Group("/ws"))

	r.addDocumentationRoutes(router)

	r.logger.Info("All routes configured successfully")
}

// addDocumentationRoutes sets up documentation routes
func (r *Router) addDocumentationRoutes(router *gin.Engine) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	router.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
}
