package routes

import (
	"rentify_backend/internal/handlers"
	"rentify_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupPublicRoutes - маршруты без обязательной авторизации.
func SetupPublicRoutes(api *gin.RouterGroup, h *handlers.AppHandlers, authenticator middleware.Authenticator) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.AuthHandler.Register)
		auth.POST("/login", h.AuthHandler.Login)
	}

	api.GET("/plans", h.SubscriptionHandler.ListPlans)
	api.GET("/properties", h.PropertyHandler.Search)
	// анонимный просмотр разрешен, но с токеном контакт может открыться
	api.GET("/properties/:id", middleware.OptionalAuthMiddleware(authenticator), h.PropertyHandler.GetByID)
}
