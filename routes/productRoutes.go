package routes

import (
	"github.com/fnd-app/fnd-api/controllers"
	"github.com/fnd-app/fnd-api/middlewares"
	"github.com/gin-gonic/gin"
)

func ProductRoutes(server *gin.Engine) {
	products := server.Group("/api/products")
	{
		products.GET("", controllers.GetProducts)
		products.GET("/popular", controllers.GetPopularProducts)
		products.GET("/categories", controllers.GetCategories)
		products.GET("/:id", controllers.GetProduct)
		products.GET("/:id/reviews", controllers.GetProductReviews)
	}

	manage := server.Group("/api/products", middlewares.RequireAuth())
	{
		manage.POST("", middlewares.RequirePermission("products:create"), controllers.CreateProduct)
		manage.PUT("/:id", middlewares.RequirePermission("products:update"), controllers.UpdateProduct)
		manage.DELETE("/:id", middlewares.RequirePermission("products:delete"), controllers.DeleteProduct)
		manage.POST("/:id/image", middlewares.RequirePermission("products:update"), controllers.UploadProductImage)
	}
}
