package routes

import (
	"github.com/fnd-app/fnd-api/controllers"
	"github.com/fnd-app/fnd-api/middlewares"
	"github.com/gin-gonic/gin"
)

func PromoRoutes(server *gin.Engine) {
	server.POST("/api/promos/validate", controllers.ValidatePromoCode)

	promos := server.Group("/api/promos", middlewares.RequireAuth())
	{
		promos.GET("", middlewares.RequirePermission("promos:read"), controllers.GetPromoCodes)
		promos.POST("", middlewares.RequirePermission("promos:create"), controllers.CreatePromoCode)
		promos.PUT("/:code", middlewares.RequirePermission("promos:update"), controllers.UpdatePromoCode)
		promos.DELETE("/:code", middlewares.RequirePermission("promos:delete"), controllers.DeletePromoCode)
	}
}
