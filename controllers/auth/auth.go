package authControllers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/shubham-jagtap07/gtbackend/models"
)

const (
	maxLoginAttempts = 5
	lockoutDuration  = 30 * time.Minute
	tokenLifetime    = 24 * time.Hour
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// issueJWT signs a session token for an authenticated admin.
func issueJWT(admin *models.Admin) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET is not set")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"admin_id": admin.ID,
		"email":    admin.Email,
		"name":     admin.Name,
		"exp":      time.Now().Add(tokenLifetime).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// LoginHandler verifies admin credentials against the stored bcrypt hash and
// issues a JWT. Five consecutive failures lock the account for 30 minutes.
func LoginHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input data"})
			return
		}

		var admin models.Admin
		err := db.First(&admin, "email = ? AND is_active = ?", req.Email, true).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error during login"})
			return
		}

		if admin.Locked(time.Now()) {
			c.JSON(http.StatusLocked, gin.H{"success": false, "message": "Account is temporarily locked due to multiple failed login attempts"})
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
			updates := map[string]interface{}{"login_attempts": admin.LoginAttempts + 1}
			if admin.LoginAttempts+1 >= maxLoginAttempts {
				updates["locked_until"] = time.Now().Add(lockoutDuration)
			}
			if err := db.Model(&admin).Updates(updates).Error; err != nil {
				log.Printf("❌ Failed to record login attempt for %s: %v", req.Email, err)
			}
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
			return
		}

		// Reset the counter and stamp the login before issuing the token.
		if err := db.Model(&admin).Updates(map[string]interface{}{
			"login_attempts": 0,
			"locked_until":   nil,
			"last_login":     time.Now(),
		}).Error; err != nil {
			log.Printf("❌ Failed to reset login attempts for %s: %v", req.Email, err)
		}

		token, err := issueJWT(&admin)
		if err != nil {
			log.Printf("❌ JWT signing failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server configuration error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Login successful", "data": gin.H{
			"token": token,
			"admin": gin.H{"name": admin.Name, "email": admin.Email},
		}})
	}
}

// VerifyHandler echoes the identity inside a valid bearer token; the auth
// middleware has already rejected anything invalid.
func VerifyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"admin_id": uint(c.GetFloat64("admin_id")),
			"email":    c.GetString("admin_email"),
			"name":     c.GetString("admin_name"),
		}})
	}
}
