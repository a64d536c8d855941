package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/shubham-jagtap07/gtbackend/controllers/order"
	"github.com/shubham-jagtap07/gtbackend/middleware"
)

func SetupOrderRoutes(api *gin.RouterGroup, s orderControllers.Store, courier orderControllers.Courier) {
	orders := api.Group("/orders")
	{
		// Create a new order (public checkout); registers with the courier
		orders.POST("", orderControllers.CreateOrderHandler(s, courier))

		// Admin order management
		orders.GET("", middleware.RequireAdmin(), orderControllers.ListOrdersHandler(s))
		orders.GET("/summary", middleware.RequireAdmin(), orderControllers.SummaryHandler(s))
		orders.DELETE("/:orderNumber", middleware.RequireAdmin(), orderControllers.DeleteOrderHandler(s))

		// Courier shipment lifecycle
		orders.POST("/:orderID/create-shipment", middleware.RequireAdmin(), orderControllers.CreateShipmentHandler(s, courier))
		orders.GET("/:orderID/tracking", orderControllers.TrackingHandler(s, courier))
	}
}
