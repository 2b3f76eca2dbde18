package routes

import (
	"github.com/fnd-app/fnd-api/controllers"
	"github.com/fnd-app/fnd-api/middlewares"
	"github.com/gin-gonic/gin"
)

func ReviewRoutes(server *gin.Engine) {
	server.GET("/api/reviews/stats", controllers.GetReviewStats)

	reviews := server.Group("/api/reviews", middlewares.RequireAuth())
	{
		reviews.POST("", controllers.CreateReview)
		reviews.GET("/mine", controllers.GetReviews)
		reviews.PUT("/:id", controllers.UpdateReview)
		reviews.DELETE("/:id", controllers.DeleteReview)
		reviews.GET("/all",
			middlewares.RequirePermission("reviews:read-all"),
			controllers.GetAllReviews)
		reviews.POST("/:id/respond",
			middlewares.RequirePermission("reviews:respond"),
			controllers.RespondToReview)
	}
}
