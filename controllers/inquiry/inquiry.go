package inquiryControllers

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shubham-jagtap07/gtbackend/models"
)

var phoneRegex = regexp.MustCompile(`^[0-9+\-\s()]{10,15}$`)

type createInquiryRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	City    string `json:"city"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	Source  string `json:"source"`
}

// CreateInquiryHandler captures a storefront contact request (public).
func CreateInquiryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createInquiryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
			return
		}

		if !phoneRegex.MatchString(req.Phone) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Phone number must be 10-15 characters and contain only numbers, +, -, spaces, or parentheses"})
			return
		}
		source := req.Source
		if source != "popup" && source != "contact" {
			source = "contact"
		}

		inquiry := models.Inquiry{
			Name:    req.Name,
			Phone:   req.Phone,
			Email:   req.Email,
			City:    req.City,
			Subject: req.Subject,
			Message: req.Message,
			Source:  source,
			Status:  models.InquiryStatusNew,
		}
		if err := db.Create(&inquiry).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error saving inquiry"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Inquiry submitted", "data": inquiry})
	}
}

// ListInquiriesHandler returns all inquiries, newest first (admin).
func ListInquiriesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var inquiries []models.Inquiry
		if err := db.Order("created_at DESC").Find(&inquiries).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error fetching inquiries"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": inquiries})
	}
}

// UpdateInquiryStatusHandler moves an inquiry through its follow-up states
// (admin).
func UpdateInquiryStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Status models.InquiryStatus `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "status is required"})
			return
		}
		switch req.Status {
		case models.InquiryStatusNew, models.InquiryStatusContacted, models.InquiryStatusClosed:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid status"})
			return
		}

		var inquiry models.Inquiry
		if err := db.First(&inquiry, "id = ?", c.Param("inquiryID")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Inquiry not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error fetching inquiry"})
			return
		}

		if err := db.Model(&inquiry).Update("status", req.Status).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update inquiry"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Inquiry updated", "data": inquiry})
	}
}
