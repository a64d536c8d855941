package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type TransactionStatus string

const (
	TransactionInitiated TransactionStatus = "initiated"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// PaymentTransaction is one attempt to collect payment for an order.
// Exactly one row is created per checkout attempt; the gateway callback
// moves it to a terminal status exactly once.
type PaymentTransaction struct {
	ID                   uint              `gorm:"primaryKey" json:"id"`
	OrderID              uint              `gorm:"index;not null" json:"order_id"`
	TransactionID        string            `gorm:"uniqueIndex;not null" json:"transaction_id"`
	Amount               decimal.Decimal   `gorm:"type:numeric(10,2)" json:"amount"`
	Status               TransactionStatus `gorm:"type:VARCHAR(20);default:'initiated'" json:"status"`
	PaymentGateway       string            `gorm:"type:VARCHAR(30);default:'easebuzz'" json:"payment_gateway"`
	GatewayTransactionID *string           `json:"gateway_transaction_id,omitempty"`
	GatewayResponse      datatypes.JSON    `json:"gateway_response,omitempty"` // raw callback payload, kept for audit
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}
