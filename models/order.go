package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type OrderStatus string
type PaymentStatus string
type PaymentMethod string

const (
	// Order statuses
	OrderStatusPending   OrderStatus = "pending"   // Order placed, awaiting payment/confirmation
	OrderStatusConfirmed OrderStatus = "confirmed" // Payment completed
	OrderStatusCancelled OrderStatus = "cancelled" // Payment failed or cancelled by admin
	OrderStatusCompleted OrderStatus = "completed" // Delivered to the customer

	// Payment statuses
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"

	// Payment methods
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodUPI    PaymentMethod = "upi"
	PaymentMethodWallet PaymentMethod = "wallet"
	PaymentMethodOnline PaymentMethod = "online"
)

// LineItem is one ordered product, stored inside the order's items JSON column.
type LineItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Weight   string  `json:"weight,omitempty"`
	Image1   string  `json:"image1,omitempty"`
	Image2   string  `json:"image2,omitempty"`
}

// DeliveryAddress is the structured shipping address JSON column.
type DeliveryAddress struct {
	Street   string `json:"street"`
	Landmark string `json:"landmark,omitempty"`
	City     string `json:"city"`
	Taluka   string `json:"taluka"`
	District string `json:"district"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
}

type Order struct {
	ID            uint                                `gorm:"primaryKey" json:"id"`
	OrderNumber   string                              `gorm:"uniqueIndex;not null" json:"order_number"`
	CustomerName  string                              `gorm:"not null" json:"customer_name"`
	CustomerPhone string                              `gorm:"not null" json:"customer_phone"`
	Items         datatypes.JSONType[[]LineItem]      `json:"items"`
	Subtotal      decimal.Decimal                     `gorm:"type:numeric(10,2)" json:"subtotal"`
	TaxAmount     decimal.Decimal                     `gorm:"type:numeric(10,2)" json:"tax_amount"`
	Discount      decimal.Decimal                     `gorm:"type:numeric(10,2);column:discount_amount" json:"discount_amount"`
	TotalAmount   decimal.Decimal                     `gorm:"type:numeric(10,2)" json:"total_amount"`
	Status        OrderStatus                         `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentStatus PaymentStatus                       `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	PaymentMethod PaymentMethod                       `gorm:"type:VARCHAR(20)" json:"payment_method"`
	OrderType     string                              `gorm:"type:VARCHAR(20);default:'delivery'" json:"order_type"`
	Address       datatypes.JSONType[DeliveryAddress] `gorm:"column:delivery_address" json:"delivery_address"`
	Instructions  *string                             `gorm:"column:special_instructions" json:"special_instructions,omitempty"`

	// Courier correlation, populated only after a successful Shiprocket call.
	ShiprocketOrderID *string `json:"shiprocket_order_id,omitempty"`
	ShipmentID        *string `json:"shipment_id,omitempty"`
	CourierName       *string `json:"courier_name,omitempty"`
	AWBCode           *string `json:"awb_code,omitempty"`
	TrackingStatus    *string `json:"tracking_status,omitempty"`

	// Set while a shipment creation call is in flight; cleared on outcome.
	ShipmentClaimedAt *time.Time `json:"-"`

	OrderDate time.Time `json:"order_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Registered reports whether the order has already been pushed to Shiprocket.
func (o *Order) Registered() bool {
	return o.ShiprocketOrderID != nil && *o.ShiprocketOrderID != ""
}

// Shipped reports whether a physical shipment exists for the order.
func (o *Order) Shipped() bool {
	return o.ShipmentID != nil && *o.ShipmentID != ""
}
