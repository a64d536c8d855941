package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	inquiryControllers "github.com/shubham-jagtap07/gtbackend/controllers/inquiry"
	"github.com/shubham-jagtap07/gtbackend/middleware"
)

func SetupInquiryRoutes(api *gin.RouterGroup, db *gorm.DB) {
	inquiries := api.Group("/inquiries")
	{
		inquiries.POST("", inquiryControllers.CreateInquiryHandler(db))

		inquiries.GET("", middleware.RequireAdmin(), inquiryControllers.ListInquiriesHandler(db))
		inquiries.PUT("/:inquiryID/status", middleware.RequireAdmin(), inquiryControllers.UpdateInquiryStatusHandler(db))
	}
}
