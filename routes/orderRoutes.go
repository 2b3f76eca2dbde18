package routes

import (
	"github.com/fnd-app/fnd-api/controllers"
	"github.com/fnd-app/fnd-api/middlewares"
	"github.com/fnd-app/fnd-api/models"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(server *gin.Engine) {
	// Guests may place and look up orders; authenticated users get
	// their server-side cart resolved instead of posting items.
	server.POST("/api/orders", middlewares.OptionalAuth(), controllers.CreateOrder)
	server.GET("/api/orders", middlewares.OptionalAuth(), controllers.GetOrders)
	server.GET("/api/orders/:id", middlewares.OptionalAuth(), controllers.GetOrderByID)

	orders := server.Group("/api/orders", middlewares.RequireAuth())
	{
		orders.PUT("/:id/cancel", controllers.CancelOrder)
		orders.PUT("/:id/status",
			middlewares.RequirePermission("orders:update-status"),
			controllers.UpdateOrderStatus)
		orders.GET("/:id/messages", controllers.GetOrderMessages)
		orders.POST("/:id/messages", controllers.SendMessage)
	}

	staff := server.Group("/api/orders/admin", middlewares.RequireAuth())
	{
		staff.GET("/pending",
			middlewares.RequireRole(models.RoleCuisinier, models.RoleAdmin),
			controllers.GetPendingOrders)
		staff.GET("/ready",
			middlewares.RequireRole(models.RoleLivreur, models.RoleAdmin),
			controllers.GetReadyOrders)
		staff.GET("/all",
			middlewares.RequirePermission("orders:read-all"),
			controllers.GetAllOrders)
		staff.GET("/stats",
			middlewares.RequirePermission("orders:view-stats"),
			controllers.GetOrderStats)
	}
}
