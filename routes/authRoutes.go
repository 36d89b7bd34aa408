package routes

import (
	"github.com/gin-gonic/gin"

	"cityfix-be/controllers"
	"cityfix-be/middlewares"
)

// AuthRoutes sets up login, registration, session and profile routes.
func AuthRoutes(r *gin.Engine, ac *controllers.AuthController) {
	r.GET("/", ac.Root)

	auth := r.Group("/auth")
	{
		auth.POST("/register", ac.Register)
		auth.POST("/login", ac.Login)
		auth.GET("/logout", ac.Logout)
		auth.POST("/logout", ac.Logout)
		auth.GET("/status", ac.Status)
	}

	r.GET("/dashboard", middlewares.RequireLogin(), ac.Dashboard)
	r.GET("/profile", middlewares.RequireLogin(), ac.Profile)
	r.POST("/update_profile", middlewares.RequireLogin(), ac.UpdateProfile)
	r.POST("/delete_account", middlewares.RequireLogin(), ac.DeleteAccount)
}
