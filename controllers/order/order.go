package orderControllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/shubham-jagtap07/gtbackend/models"
	"github.com/shubham-jagtap07/gtbackend/shiprocket"
	"github.com/shubham-jagtap07/gtbackend/store"
)

var (
	ErrAlreadyShipped = errors.New("order already registered with courier")
	ErrNoShipment     = errors.New("no shipment exists for this order")
)

// ValidationError lists the missing required fields of a checkout request.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// Store is the slice of the persistence layer the order flow needs.
type Store interface {
	CreateOrder(*models.Order) error
	GetOrderByID(id uint) (*models.Order, error)
	ListOrders(limit int) ([]models.Order, error)
	Summary() (*store.OrderSummary, error)
	SetCourierRegistration(orderID uint, courierOrderID string) error
	ClaimShipment(orderID uint) error
	ReleaseShipmentClaim(orderID uint) error
	SetShipmentDetails(orderID uint, courierOrderID, shipmentID, courierName, awbCode, trackingStatus string) error
	UpdateTrackingStatus(orderID uint, status string) error
	DeleteOrderByNumber(orderNumber string) error
}

// Courier is the Shiprocket capability the order flow depends on.
type Courier interface {
	RegisterOrder(*models.Order) (*shiprocket.OrderResponse, error)
	CreateShipment(*models.Order) (*shiprocket.OrderResponse, error)
	Track(shipmentID string) (json.RawMessage, error)
}

// -------- Request Structs --------

type CreateOrderRequest struct {
	Name         string  `json:"name"`
	Phone        string  `json:"phone"`
	Street       string  `json:"street"`
	Landmark     string  `json:"landmark"`
	City         string  `json:"city"`
	Taluka       string  `json:"taluka"`
	District     string  `json:"district"`
	State        string  `json:"state"`
	Pincode      string  `json:"pincode"`
	Product      string  `json:"product"`
	Image        string  `json:"image"`
	Image2       string  `json:"image2"`
	Weight       string  `json:"weight"`
	Price        float64 `json:"price"`
	Qty          int     `json:"qty"`
	Payment      string  `json:"payment"`
	Instructions string  `json:"special_instructions"`
}

// -------- Helpers --------

// MapPaymentMethod maps the frontend payment selector onto the DB enum.
func MapPaymentMethod(method string) models.PaymentMethod {
	switch strings.ToLower(method) {
	case "upi":
		return models.PaymentMethodUPI
	case "card":
		return models.PaymentMethodCard
	case "wallet":
		return models.PaymentMethodWallet
	default:
		return models.PaymentMethodCash
	}
}

var orderSeq uint32

// NewOrderNumber generates the externally visible order number,
// ORD<unix-millis><seq>. The sequence keeps concurrent callers inside the
// same millisecond apart; the unique index on order_number remains the
// actual correctness guarantee.
func NewOrderNumber() string {
	seq := atomic.AddUint32(&orderSeq, 1) % 1000
	return fmt.Sprintf("ORD%d%03d", time.Now().UnixMilli(), seq)
}

// Validate returns the list of absent required fields, in a stable order.
func (r *CreateOrderRequest) Validate() *ValidationError {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	check("name", r.Name)
	check("phone", r.Phone)
	check("street", r.Street)
	check("city", r.City)
	check("taluka", r.Taluka)
	check("district", r.District)
	check("pincode", r.Pincode)
	check("product", r.Product)
	if r.Price <= 0 {
		missing = append(missing, "price")
	}
	if r.Qty <= 0 {
		missing = append(missing, "qty")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// BuildOrder turns a validated checkout request into a pending order.
// Current business rule: no tax or discount is computed, both fixed at zero,
// so total = subtotal.
func (r *CreateOrderRequest) BuildOrder(paymentMethod models.PaymentMethod) *models.Order {
	price := decimal.NewFromFloat(r.Price)
	subtotal := price.Mul(decimal.NewFromInt(int64(r.Qty)))
	tax := decimal.Zero
	discount := decimal.Zero
	total := subtotal.Add(tax).Sub(discount)

	image2 := r.Image2
	if image2 == "" {
		image2 = r.Image
	}
	items := []models.LineItem{{
		Name:     r.Product,
		Price:    r.Price,
		Quantity: r.Qty,
		Weight:   r.Weight,
		Image1:   r.Image,
		Image2:   image2,
	}}

	state := r.State
	if state == "" {
		state = "Maharashtra"
	}
	address := models.DeliveryAddress{
		Street:   r.Street,
		Landmark: r.Landmark,
		City:     r.City,
		Taluka:   r.Taluka,
		District: r.District,
		State:    state,
		Pincode:  r.Pincode,
	}

	var instructions *string
	if r.Instructions != "" {
		instructions = &r.Instructions
	}

	return &models.Order{
		OrderNumber:   NewOrderNumber(),
		CustomerName:  r.Name,
		CustomerPhone: r.Phone,
		Items:         datatypes.NewJSONType(items),
		Subtotal:      subtotal,
		TaxAmount:     tax,
		Discount:      discount,
		TotalAmount:   total,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		PaymentMethod: paymentMethod,
		OrderType:     "delivery",
		Address:       datatypes.NewJSONType(address),
		Instructions:  instructions,
		OrderDate:     time.Now(),
	}
}

// -------- Core Logic --------

// CreateOrder validates and persists a new order, then registers it with the
// courier. Courier failure never rolls the order back; it is returned as a
// separate error so the caller can report partial success.
func CreateOrder(s Store, courier Courier, req CreateOrderRequest) (*models.Order, *shiprocket.OrderResponse, error, error) {
	if verr := req.Validate(); verr != nil {
		return nil, nil, nil, verr
	}

	order := req.BuildOrder(MapPaymentMethod(req.Payment))

	// The unique index decides collisions; regenerate and retry a couple of
	// times before giving up.
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		err = s.CreateOrder(order)
		if !errors.Is(err, store.ErrDuplicateOrderNumber) {
			break
		}
		order.OrderNumber = NewOrderNumber()
	}
	if err != nil {
		return nil, nil, nil, err
	}

	registration, courierErr := RegisterWithCourier(s, courier, order)
	return order, registration, courierErr, nil
}

// RegisterWithCourier pushes the order to Shiprocket (order only, no
// shipment) and persists the returned courier order id. Rejects a second
// attempt for an already registered order.
func RegisterWithCourier(s Store, courier Courier, order *models.Order) (*shiprocket.OrderResponse, error) {
	if order.Registered() {
		return nil, store.ErrAlreadyRegistered
	}

	resp, err := courier.RegisterOrder(order)
	if err != nil {
		return nil, err
	}

	courierOrderID := resp.OrderID.String()
	if err := s.SetCourierRegistration(order.ID, courierOrderID); err != nil {
		return nil, err
	}
	order.ShiprocketOrderID = &courierOrderID
	return resp, nil
}

// CreateShipmentForOrder registers the order and creates its shipment in one
// courier call. Any existing courier order id blocks the call: shipment
// creation is mutually exclusive with prior order-only registration. The
// claim taken before the courier call is the correctness guarantee; the
// snapshot check only spares the common case a round trip.
func CreateShipmentForOrder(s Store, courier Courier, orderID uint) (*models.Order, *shiprocket.OrderResponse, error) {
	order, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, nil, err
	}
	if order.Registered() || order.Shipped() {
		return order, nil, ErrAlreadyShipped
	}

	if err := s.ClaimShipment(order.ID); err != nil {
		if errors.Is(err, store.ErrShipmentExists) {
			return order, nil, ErrAlreadyShipped
		}
		return order, nil, err
	}

	resp, err := courier.CreateShipment(order)
	if err != nil {
		if rerr := s.ReleaseShipmentClaim(order.ID); rerr != nil {
			log.Printf("❌ Failed to release shipment claim for order %d: %v", order.ID, rerr)
		}
		return order, nil, err
	}

	courierOrderID := resp.OrderID.String()
	shipmentID := resp.ShipmentID.String()
	if err := s.SetShipmentDetails(order.ID, courierOrderID, shipmentID, resp.CourierName, resp.AWBCode, resp.Status); err != nil {
		if errors.Is(err, store.ErrShipmentExists) {
			return order, resp, ErrAlreadyShipped
		}
		return order, resp, err
	}
	order.ShiprocketOrderID = &courierOrderID
	order.ShipmentID = &shipmentID
	if resp.Status != "" {
		order.TrackingStatus = &resp.Status
	}
	return order, resp, nil
}

// GetTracking returns the live courier tracking payload for an order's
// shipment and refreshes the locally cached status.
func GetTracking(s Store, courier Courier, orderID uint) (*models.Order, json.RawMessage, error) {
	order, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, nil, err
	}
	if !order.Shipped() {
		return order, nil, ErrNoShipment
	}

	payload, err := courier.Track(*order.ShipmentID)
	if err != nil {
		return order, nil, err
	}

	if status := extractTrackingStatus(payload); status != "" {
		if err := s.UpdateTrackingStatus(order.ID, status); err == nil {
			order.TrackingStatus = &status
		}
	}
	return order, payload, nil
}

// extractTrackingStatus pulls the current status out of the tracking
// payload; an unexpected shape just leaves the cached status alone.
func extractTrackingStatus(payload json.RawMessage) string {
	var body struct {
		TrackingData struct {
			ShipmentStatus string `json:"shipment_status"`
			CurrentStatus  string `json:"current_status"`
		} `json:"tracking_data"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	if body.TrackingData.CurrentStatus != "" {
		return body.TrackingData.CurrentStatus
	}
	return body.TrackingData.ShipmentStatus
}
