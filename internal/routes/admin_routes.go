package routes

import (
	"rentify_backend/internal/handlers"
	"rentify_backend/internal/middleware"
	"rentify_backend/internal/models"

	"github.com/gin-gonic/gin"
)

func SetupAdminRoutes(api *gin.RouterGroup, h *handlers.AppHandlers, authenticator middleware.Authenticator) {
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(authenticator), middleware.RequireRoles(models.UserRoleAdmin))
	{
		// 📋 Users
		admin.GET("/users", h.AdminHandler.ListUsers)
		admin.PUT("/users/:id/role", h.AdminHandler.UpdateUserRole)

		// 🏠 Moderation
		admin.GET("/properties/pending", h.AdminHandler.ListPendingProperties)
		admin.PUT("/properties/:id/approve", h.AdminHandler.ApproveProperty)
		admin.PUT("/properties/:id/feature", h.AdminHandler.FeatureProperty)

		// 💳 Subscriptions
		admin.PUT("/subscriptions/:id/status", h.SubscriptionHandler.UpdateStatus)
		admin.POST("/subscriptions/expire", h.SubscriptionHandler.ExpireLapsed)

		// 🚩 Reports
		admin.GET("/reports", h.ReportHandler.List)
		admin.PUT("/reports/:id", h.ReportHandler.Resolve)
	}
}
