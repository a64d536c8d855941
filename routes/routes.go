package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shubham-jagtap07/gtbackend/easebuzz"
	"github.com/shubham-jagtap07/gtbackend/shiprocket"
	"github.com/shubham-jagtap07/gtbackend/store"
)

// SetupRoutes is the single entry-point that wires up all API route groups
// under /api.
func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	s := store.New(db)
	courier := shiprocket.NewService(s)
	gateway := easebuzz.NewFromEnv()

	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   "Server is running",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	SetupAuthRoutes(api, db)
	SetupProductRoutes(api, db)
	SetupInquiryRoutes(api, db)
	SetupOrderRoutes(api, s, courier)
	SetupPaymentRoutes(api, s, gateway)
}
