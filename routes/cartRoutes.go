package routes

import (
	"github.com/fnd-app/fnd-api/controllers"
	"github.com/fnd-app/fnd-api/middlewares"
	"github.com/gin-gonic/gin"
)

func CartRoutes(server *gin.Engine) {
	cart := server.Group("/api/cart", middlewares.RequireAuth())
	{
		cart.GET("", controllers.GetCart)
		cart.POST("/items", controllers.AddCartItem)
		cart.PUT("/items/:id", controllers.UpdateCartItem)
		cart.DELETE("/items/:id", controllers.RemoveCartItem)
		cart.DELETE("", controllers.ClearCart)
		cart.POST("/validate", controllers.ValidateCart)
		cart.POST("/merge", controllers.MergeCart)
	}
}
