package routes

import (
	"rentify_backend/internal/handlers"
	"rentify_backend/internal/middleware"
	"rentify_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupUserRoutes - маршруты для любого авторизованного пользователя.
func SetupUserRoutes(api *gin.RouterGroup, h *handlers.AppHandlers, authenticator middleware.Authenticator) {
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(authenticator))
	{
		authed.GET("/auth/me", h.AuthHandler.Me)

		// 🏠 Properties
		authed.GET("/properties/mine", h.PropertyHandler.Mine)
		authed.GET("/properties/:id/access", h.PropertyHandler.CheckAccess)
		authed.POST("/properties", middleware.RequireRoles(models.UserRoleOwner, models.UserRoleAdmin), h.PropertyHandler.Create)
		authed.PUT("/properties/:id", h.PropertyHandler.Update)
		authed.DELETE("/properties/:id", h.PropertyHandler.Delete)
		authed.POST("/properties/:id/reports", h.ReportHandler.Create)

		// 💳 Subscriptions
		authed.POST("/subscriptions", h.SubscriptionHandler.Create)
		authed.GET("/subscriptions/my", h.SubscriptionHandler.GetMine)
		authed.PUT("/subscriptions/:id/cancel", h.SubscriptionHandler.Cancel)
	}
}
