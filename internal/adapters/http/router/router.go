package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mikey/spam-ensemble/internal/adapters/http/handler"
	"github.com/mikey/spam-ensemble/internal/adapters/http/middleware"
)

// Handlers groups everything the router mounts. UI and Metrics are optional.
type Handlers struct {
	API     *handler.APIHandler
	UI      *handler.UIHandler
	Health  *handler.HealthHandler
	Metrics http.Handler
}

// Setup creates and configures the Gin router
func Setup(h Handlers, allowedOrigins []string, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS(allowedOrigins))

	router.NoRoute(handler.NotFound)
	router.NoMethod(handler.MethodNotAllowed)

	router.GET("/health", h.Health.Health)
	if h.Metrics != nil {
		router.GET("/metrics", gin.WrapH(h.Metrics))
	}

	api := router.Group("/api")
	{
		api.POST("/classify", h.API.Classify)
		api.POST("/bulk_classify", h.API.BulkClassify)
	}

	if h.UI != nil {
		router.SetHTMLTemplate(handler.Templates())
		router.GET("/", h.UI.Index)
		ui := router.Group("/ui")
		{
			ui.POST("/classify", h.UI.Classify)
			ui.POST("/bulk", h.UI.Bulk)
		}
	}

	return router
}
