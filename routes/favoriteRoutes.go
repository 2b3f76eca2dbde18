package routes

import (
	"github.com/fnd-app/fnd-api/controllers"
	"github.com/fnd-app/fnd-api/middlewares"
	"github.com/gin-gonic/gin"
)

func FavoriteRoutes(server *gin.Engine) {
	favorites := server.Group("/api/favorites", middlewares.RequireAuth())
	{
		favorites.GET("", controllers.GetFavorites)
		favorites.POST("/:productId", controllers.AddFavorite)
		favorites.DELETE("/:productId", controllers.RemoveFavorite)
	}
}
