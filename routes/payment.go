package routes

import (
	"github.com/gin-gonic/gin"

	paymentControllers "github.com/shubham-jagtap07/gtbackend/controllers/payment"
)

func SetupPaymentRoutes(api *gin.RouterGroup, s paymentControllers.Store, gateway paymentControllers.Gateway) {
	payment := api.Group("/payment")
	{
		payment.POST("/initiate", paymentControllers.InitiateHandler(s, gateway))

		// Easebuzz delivers the callback as a server-to-server POST or a
		// browser GET redirect; one handler serves both.
		payment.Any("/callback", paymentControllers.CallbackHandler(s, gateway))

		payment.GET("/status/:txnid", paymentControllers.StatusHandler(s))
		payment.POST("/verify", paymentControllers.VerifyHandler(s, gateway))
	}
}
