package routes

import (
	"github.com/fnd-app/fnd-api/controllers"
	"github.com/fnd-app/fnd-api/middlewares"
	"github.com/gin-gonic/gin"
)

func AuthRoutes(server *gin.Engine) {
	auth := server.Group("/api/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/refresh", controllers.RefreshToken)
		auth.POST("/forgot-password", controllers.ForgotPassword)
		auth.POST("/reset-password", controllers.ResetPassword)
	}

	me := server.Group("/api/auth", middlewares.RequireAuth())
	{
		me.GET("/me", controllers.GetMe)
		me.PUT("/profile", controllers.UpdateProfile)
		me.PUT("/password", controllers.ChangePassword)
	}
}
