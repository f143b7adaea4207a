package routes

import (
	"net/http"

	"rentify_backend/internal/handlers"
	"rentify_backend/internal/logger"
	"rentify_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	authenticator middleware.Authenticator,
	metricsPath string,
	metricsHandler http.Handler,
) {
	ginRouter.GET("/health", appHandlers.HealthHandler.Health)
	if metricsHandler != nil && metricsPath != "" {
		ginRouter.GET(metricsPath, gin.WrapH(metricsHandler))
		logger.Info("Metrics route registered", "path", metricsPath)
	}

	api := ginRouter.Group("/api/v1")
	{
		SetupPublicRoutes(api, appHandlers, authenticator)
		SetupUserRoutes(api, appHandlers, authenticator)
		SetupAdminRoutes(api, appHandlers, authenticator)
	}
}
