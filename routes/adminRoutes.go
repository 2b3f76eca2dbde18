package routes

import (
	"github.com/fnd-app/fnd-api/controllers"
	"github.com/fnd-app/fnd-api/middlewares"
	"github.com/fnd-app/fnd-api/models"
	"github.com/gin-gonic/gin"
)

func AdminRoutes(server *gin.Engine) {
	stats := server.Group("/api/admin/stats",
		middlewares.RequireAuth(),
		middlewares.RequirePermission("stats:dashboard"))
	{
		stats.GET("/dashboard", controllers.GetDashboardStats)
		stats.GET("/sales", controllers.GetSalesStats)
		stats.GET("/products", controllers.GetProductStats)
		stats.GET("/orders", controllers.GetOrderStats)
		stats.GET("/users", controllers.GetUserStats)
		stats.GET("/finances", controllers.GetFinanceStats)
	}

	server.GET("/api/admin/reports/sales",
		middlewares.RequireAuth(),
		middlewares.RequirePermission("stats:reports"),
		controllers.GetSalesReport)

	staff := server.Group("/api/admin/staff",
		middlewares.RequireAuth(),
		middlewares.RequireRole(models.RoleAdmin))
	{
		staff.GET("", controllers.GetStaff)
		staff.POST("", controllers.CreateStaff)
		staff.PUT("/:id", controllers.UpdateStaff)
		staff.DELETE("/:id", controllers.DeleteStaff)
	}
}
