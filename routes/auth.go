package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	authControllers "github.com/shubham-jagtap07/gtbackend/controllers/auth"
	"github.com/shubham-jagtap07/gtbackend/middleware"
)

func SetupAuthRoutes(api *gin.RouterGroup, db *gorm.DB) {
	auth := api.Group("/auth")
	{
		auth.POST("/login", authControllers.LoginHandler(db))
		auth.GET("/verify", middleware.RequireAdmin(), authControllers.VerifyHandler())
	}
}
