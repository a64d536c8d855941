package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	ID            uint                           `gorm:"primaryKey" json:"id"`
	Name          string                         `gorm:"not null" json:"name"`
	Description   string                         `json:"description"`
	Price         decimal.Decimal                `gorm:"type:numeric(10,2);not null" json:"price"`
	OriginalPrice decimal.Decimal                `gorm:"type:numeric(10,2)" json:"original_price"`
	ImageURL      string                         `json:"image_url"`
	Weight        string                         `json:"weight"` // free-form, e.g. "900g" or "1.2kg"
	Category      string                         `json:"category"`
	Features      datatypes.JSONSlice[string]    `json:"features"`
	Tags          datatypes.JSONSlice[string]    `json:"tags"`
	Rating        float64                        `json:"rating"`
	Reviews       int                            `json:"reviews"`
	StockQuantity int                            `json:"stock_quantity"`
	IsActive      bool                           `gorm:"default:true" json:"is_active"`
	IsPopular     bool                           `gorm:"default:false" json:"is_popular"`
	CreatedAt     time.Time                      `json:"created_at"`
	UpdatedAt     time.Time                      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt                 `gorm:"index" json:"-"`
}
