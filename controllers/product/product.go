package productControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/shubham-jagtap07/gtbackend/models"
)

type productRequest struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price" binding:"required"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	ImageURL      string          `json:"image_url"`
	Weight        string          `json:"weight"`
	Category      string          `json:"category"`
	Features      []string        `json:"features"`
	Tags          []string        `json:"tags"`
	Rating        float64         `json:"rating"`
	Reviews       int             `json:"reviews"`
	StockQuantity int             `json:"stock_quantity"`
	IsActive      *bool           `json:"is_active"`
	IsPopular     *bool           `json:"is_popular"`
}

// ListProductsHandler returns active products, popular first (public).
func ListProductsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.
			Where("is_active = ?", true).
			Order("is_popular DESC, created_at DESC").
			Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error fetching products"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": products})
	}
}

// GetProductHandler returns a single product by id (public).
func GetProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("productID")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error fetching product"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": product})
	}
}

// CreateProductHandler adds a product (admin).
func CreateProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		product := models.Product{
			Name:          req.Name,
			Description:   req.Description,
			Price:         req.Price,
			OriginalPrice: req.OriginalPrice,
			ImageURL:      req.ImageURL,
			Weight:        req.Weight,
			Category:      req.Category,
			Features:      datatypes.NewJSONSlice(req.Features),
			Tags:          datatypes.NewJSONSlice(req.Tags),
			Rating:        req.Rating,
			Reviews:       req.Reviews,
			StockQuantity: req.StockQuantity,
			IsActive:      true,
		}
		if req.IsActive != nil {
			product.IsActive = *req.IsActive
		}
		if req.IsPopular != nil {
			product.IsPopular = *req.IsPopular
		}

		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create product"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product created", "data": product})
	}
}

// UpdateProductHandler updates a product from an explicit allow-list of
// fields; request keys never drive column names.
func UpdateProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("productID")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error fetching product"})
			return
		}

		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		updates := map[string]interface{}{
			"name":           req.Name,
			"description":    req.Description,
			"price":          req.Price,
			"original_price": req.OriginalPrice,
			"image_url":      req.ImageURL,
			"weight":         req.Weight,
			"category":       req.Category,
			"features":       datatypes.NewJSONSlice(req.Features),
			"tags":           datatypes.NewJSONSlice(req.Tags),
			"rating":         req.Rating,
			"reviews":        req.Reviews,
			"stock_quantity": req.StockQuantity,
		}
		if req.IsActive != nil {
			updates["is_active"] = *req.IsActive
		}
		if req.IsPopular != nil {
			updates["is_popular"] = *req.IsPopular
		}

		if err := db.Model(&product).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update product"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product updated", "data": product})
	}
}

// DeleteProductHandler soft-deletes a product (admin).
func DeleteProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Delete(&models.Product{}, "id = ?", c.Param("productID"))
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete product"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted"})
	}
}
