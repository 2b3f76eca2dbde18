package routes

import (
	"github.com/fnd-app/fnd-api/controllers"
	"github.com/fnd-app/fnd-api/middlewares"
	"github.com/fnd-app/fnd-api/ws"
	"github.com/gin-gonic/gin"
)

func NotificationRoutes(server *gin.Engine) {
	notifications := server.Group("/api/notifications", middlewares.RequireAuth())
	{
		notifications.GET("", controllers.GetNotifications)
		notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
		notifications.PUT("/:id/read", controllers.MarkNotificationRead)
		notifications.DELETE("/:id", controllers.DeleteNotification)
	}

	server.GET("/ws", ws.MainHub.Handler())
}
