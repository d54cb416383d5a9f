package routes

import (
	"flymedia_backend/internal/handlers"
	"flymedia_backend/internal/logger"
	"flymedia_backend/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers every HTTP and WebSocket route.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.WebSocketHandler,
) {
	appHandlers.HealthHandler.RegisterRoutes(ginRouter)

	// The upload relay lives at the root: /files, /upload, /uploads/:name.
	appHandlers.UploadHandler.RegisterRoutes(ginRouter)

	api := ginRouter.Group("/api")
	{
		appHandlers.NotificationHandler.RegisterRoutes(api)
		appHandlers.TaskHandler.RegisterRoutes(api)
		appHandlers.AnalyticsHandler.RegisterRoutes(api)
		appHandlers.ProfileHandler.RegisterRoutes(api)
	}

	wsHandler.RegisterRoutes(ginRouter)
	logger.Info("WebSocket route /ws registered")
}
