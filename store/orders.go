package store

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shubham-jagtap07/gtbackend/models"
)

// CreateOrder inserts the order and fills in its generated id. The unique
// index on order_number is the correctness guarantee under concurrent
// checkouts; a collision surfaces as ErrDuplicateOrderNumber so the caller
// can regenerate and retry.
func (s *Store) CreateOrder(order *models.Order) error {
	if err := s.db.Create(order).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateOrderNumber
		}
		return err
	}
	return nil
}

func (s *Store) GetOrderByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (s *Store) GetOrderByNumber(orderNumber string) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, "order_number = ?", orderNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (s *Store) ListOrders(limit int) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.
		Order("order_date DESC, id DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

// OrderSummary holds the admin dashboard counters.
type OrderSummary struct {
	TotalOrders     int64           `json:"total_orders"`
	Revenue         decimal.Decimal `json:"revenue"`
	PendingOrders   int64           `json:"pending_orders"`
	DeliveredOrders int64           `json:"delivered_orders"`
}

func (s *Store) Summary() (*OrderSummary, error) {
	var sum OrderSummary
	row := s.db.Model(&models.Order{}).
		Select(`COUNT(*),
			COALESCE(SUM(total_amount), 0),
			SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END),
			SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END)`).
		Row()
	if err := row.Scan(&sum.TotalOrders, &sum.Revenue, &sum.PendingOrders, &sum.DeliveredOrders); err != nil {
		return nil, err
	}
	return &sum, nil
}

// SetCourierRegistration records the Shiprocket order id. The WHERE guard
// keeps the write at-most-once: a second registration attempt matches no
// rows and is reported as ErrAlreadyRegistered.
func (s *Store) SetCourierRegistration(orderID uint, courierOrderID string) error {
	res := s.db.Model(&models.Order{}).
		Where("id = ? AND shiprocket_order_id IS NULL", orderID).
		Update("shiprocket_order_id", courierOrderID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyRegistered
	}
	return nil
}

// shipmentClaimTTL bounds how long an in-flight claim blocks a retry, so a
// crash between claim and outcome cannot wedge the order forever.
const shipmentClaimTTL = 10 * time.Minute

// ClaimShipment atomically claims the order for shipment creation. The
// WHERE guard keeps the claim at-most-once: any existing courier id,
// shipment id or live claim matches no rows and reports ErrShipmentExists,
// so only one request ever reaches the courier.
func (s *Store) ClaimShipment(orderID uint) error {
	res := s.db.Model(&models.Order{}).
		Where("id = ? AND shiprocket_order_id IS NULL AND shipment_id IS NULL AND (shipment_claimed_at IS NULL OR shipment_claimed_at < ?)",
			orderID, time.Now().Add(-shipmentClaimTTL)).
		Update("shipment_claimed_at", time.Now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrShipmentExists
	}
	return nil
}

// ReleaseShipmentClaim frees the claim after a failed courier call so the
// order can be retried.
func (s *Store) ReleaseShipmentClaim(orderID uint) error {
	return s.db.Model(&models.Order{}).Where("id = ?", orderID).
		Update("shipment_claimed_at", nil).Error
}

// SetShipmentDetails records the identifiers returned by a successful
// shipment creation call and clears the claim. The same NULL guard as
// courier registration keeps the write at-most-once; a lost race surfaces
// as ErrShipmentExists.
func (s *Store) SetShipmentDetails(orderID uint, courierOrderID, shipmentID, courierName, awbCode, trackingStatus string) error {
	updates := map[string]interface{}{
		"shiprocket_order_id": courierOrderID,
		"shipment_id":         shipmentID,
		"tracking_status":     trackingStatus,
		"shipment_claimed_at": nil,
	}
	if courierName != "" {
		updates["courier_name"] = courierName
	}
	if awbCode != "" {
		updates["awb_code"] = awbCode
	}
	res := s.db.Model(&models.Order{}).
		Where("id = ? AND shiprocket_order_id IS NULL AND shipment_id IS NULL", orderID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrShipmentExists
	}
	return nil
}

func (s *Store) UpdateTrackingStatus(orderID uint, status string) error {
	return s.db.Model(&models.Order{}).Where("id = ?", orderID).
		Update("tracking_status", status).Error
}

// SetOrderPaymentOutcome applies the verified gateway callback to the order.
// The write sets absolute values, so replaying the same callback is a no-op.
func (s *Store) SetOrderPaymentOutcome(orderNumber string, status models.OrderStatus, payment models.PaymentStatus) error {
	return s.db.Model(&models.Order{}).
		Where("order_number = ?", orderNumber).
		Updates(map[string]interface{}{
			"status":         status,
			"payment_status": payment,
			"updated_at":     time.Now(),
		}).Error
}

func (s *Store) DeleteOrderByNumber(orderNumber string) error {
	res := s.db.Where("order_number = ?", orderNumber).Delete(&models.Order{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
