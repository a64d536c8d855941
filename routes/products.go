package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	productControllers "github.com/shubham-jagtap07/gtbackend/controllers/product"
	"github.com/shubham-jagtap07/gtbackend/middleware"
)

func SetupProductRoutes(api *gin.RouterGroup, db *gorm.DB) {
	products := api.Group("/products")
	{
		products.GET("", productControllers.ListProductsHandler(db))
		products.GET("/:productID", productControllers.GetProductHandler(db))

		products.POST("", middleware.RequireAdmin(), productControllers.CreateProductHandler(db))
		products.PUT("/:productID", middleware.RequireAdmin(), productControllers.UpdateProductHandler(db))
		products.DELETE("/:productID", middleware.RequireAdmin(), productControllers.DeleteProductHandler(db))
	}
}
