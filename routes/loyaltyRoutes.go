package routes

import (
	"github.com/fnd-app/fnd-api/controllers"
	"github.com/fnd-app/fnd-api/middlewares"
	"github.com/gin-gonic/gin"
)

func LoyaltyRoutes(server *gin.Engine) {
	server.GET("/api/loyalty/rules", controllers.GetLoyaltyRules)

	loyalty := server.Group("/api/loyalty", middlewares.RequireAuth())
	{
		loyalty.GET("/points", controllers.GetLoyaltyPoints)
		loyalty.GET("/history", controllers.GetLoyaltyHistory)
		loyalty.POST("/redeem", controllers.RedeemLoyaltyPoints)
	}
}
