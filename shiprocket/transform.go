package shiprocket

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shubham-jagtap07/gtbackend/models"
)

// Fixed shipper identity. These are business constants for the pickup
// warehouse, not computed values.
const (
	pickupLocation = "GRADUATE GULACHA CHAHA&LASSI PVTLTD"
	billingName    = "GRADUATE GULACHA CHAHA"
	billingEmail   = "info@gradgulachacha.in"
	billingPhone   = "8459005790"
	billingAddress = "01 AIRPORT ROAD GANESHWADI, OPPOSITE NISARGA DAIRY, SHIRDI, Ahmed Nagar, Maharashtra, India, 423109"
	billingCity    = "Shirdi"
	billingState   = "Maharashtra"
	billingPincode = "423109"

	defaultWeightKg = 1.2
)

// OrderItemPayload is one line in the courier order schema.
type OrderItemPayload struct {
	Name         string  `json:"name"`
	SKU          string  `json:"sku"`
	Units        int     `json:"units"`
	SellingPrice float64 `json:"selling_price"`
	TaxAmount    float64 `json:"tax_amount"`
	Discount     float64 `json:"discount"`
}

// OrderPayload is the Shiprocket adhoc order schema.
type OrderPayload struct {
	OrderID        string `json:"order_id"`
	OrderDate      string `json:"order_date"`
	ChannelID      int    `json:"channel_id"`
	PickupLocation string `json:"pickup_location"`

	BillingCustomerName string `json:"billing_customer_name"`
	BillingLastName     string `json:"billing_last_name"`
	BillingEmail        string `json:"billing_email"`
	BillingPhone        string `json:"billing_phone"`
	BillingAddress      string `json:"billing_address"`
	BillingCity         string `json:"billing_city"`
	BillingState        string `json:"billing_state"`
	BillingCountry      string `json:"billing_country"`
	BillingPincode      string `json:"billing_pincode"`

	ShippingIsBilling    bool   `json:"shipping_is_billing"`
	ShippingCustomerName string `json:"shipping_customer_name"`
	ShippingLastName     string `json:"shipping_last_name"`
	ShippingAddress      string `json:"shipping_address"`
	ShippingCity         string `json:"shipping_city"`
	ShippingState        string `json:"shipping_state"`
	ShippingCountry      string `json:"shipping_country"`
	ShippingPincode      string `json:"shipping_pincode"`
	ShippingPhone        string `json:"shipping_phone"`

	PaymentMethod string             `json:"payment_method"`
	OrderItems    []OrderItemPayload `json:"order_items"`
	SubTotal      float64            `json:"sub_total"`
	OtherCharges  float64            `json:"other_charges"`
	Total         float64            `json:"total"`

	Length          float64 `json:"length"`
	Breadth         float64 `json:"breadth"`
	Height          float64 `json:"height"`
	Weight          float64 `json:"weight"`
	ShippingCharges float64 `json:"shipping_charges"`
	Remarks         string  `json:"remarks"`
}

// NewChannelOrderID builds the courier-side order id. Shiprocket treats it
// as the idempotency key for duplicate detection, so it must be unique per
// call: date plus uuid-derived entropy.
func NewChannelOrderID(now time.Time) string {
	entropy := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("GC-ORDER-%s-%s", now.Format("20060102"), entropy)
}

// FirstName extracts the first whitespace-separated token of a full name,
// falling back to "Customer" for an empty name.
func FirstName(fullName string) string {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "Customer"
	}
	return parts[0]
}

// LastName extracts the final token of a full name. Single-token names get
// an empty last name; middle tokens are dropped.
func LastName(fullName string) string {
	parts := strings.Fields(fullName)
	if len(parts) <= 1 {
		return ""
	}
	return parts[len(parts)-1]
}

// ConvertWeightToKg normalizes a free-form weight string to kilograms.
// "1.2kg" parses as-is, "900g" and bare numerals are grams. Unparseable or
// non-positive input falls back to the default package weight.
func ConvertWeightToKg(weight string) float64 {
	w := strings.ToLower(strings.TrimSpace(weight))
	if w == "" {
		return defaultWeightKg
	}

	var value float64
	var err error
	switch {
	case strings.Contains(w, "kg"):
		value, err = strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(w, "kg", "")), 64)
	case strings.Contains(w, "g"):
		value, err = strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(w, "g", "")), 64)
		value /= 1000
	default:
		value, err = strconv.ParseFloat(w, 64)
		value /= 1000
	}
	if err != nil || value <= 0 {
		return defaultWeightKg
	}
	return value
}

// TransformOrder maps an internal order onto the courier's order schema.
// Pure function; network calls happen elsewhere.
func TransformOrder(order *models.Order) *OrderPayload {
	now := time.Now()
	items := order.Items.Data()
	addr := order.Address.Data()

	orderItems := make([]OrderItemPayload, 0, len(items))
	for _, item := range items {
		units := item.Quantity
		if units <= 0 {
			units = 1
		}
		orderItems = append(orderItems, OrderItemPayload{
			Name:         item.Name,
			SKU:          fmt.Sprintf("GGC-%d", now.UnixMilli()),
			Units:        units,
			SellingPrice: item.Price,
		})
	}

	paymentMethod := "Prepaid"
	if order.PaymentMethod == models.PaymentMethodCash {
		paymentMethod = "COD"
	}

	shippingAddress := strings.TrimSpace(addr.Street)
	if addr.Landmark != "" {
		shippingAddress = strings.TrimPrefix(shippingAddress+", "+addr.Landmark, ", ")
	}

	state := addr.State
	if state == "" {
		state = "Maharashtra"
	}
	city := addr.City
	if city == "" {
		city = "Unknown"
	}
	pincode := addr.Pincode
	if pincode == "" {
		pincode = "000000"
	}
	phone := order.CustomerPhone
	if phone == "" {
		phone = "0000000000"
	}

	var firstItemWeight string
	if len(items) > 0 {
		firstItemWeight = items[0].Weight
	}

	subtotal := order.Subtotal.InexactFloat64()
	total := order.TotalAmount.InexactFloat64()
	if total == 0 {
		total = subtotal
	}

	return &OrderPayload{
		OrderID:        NewChannelOrderID(now),
		OrderDate:      now.Format("2006-01-02 15:04:05"),
		ChannelID:      8207072,
		PickupLocation: pickupLocation,

		BillingCustomerName: billingName,
		BillingLastName:     "- ",
		BillingEmail:        billingEmail,
		BillingPhone:        billingPhone,
		BillingAddress:      billingAddress,
		BillingCity:         billingCity,
		BillingState:        billingState,
		BillingCountry:      "India",
		BillingPincode:      billingPincode,

		ShippingIsBilling:    false,
		ShippingCustomerName: FirstName(order.CustomerName),
		ShippingLastName:     LastName(order.CustomerName),
		ShippingAddress:      shippingAddress,
		ShippingCity:         city,
		ShippingState:        state,
		ShippingCountry:      "India",
		ShippingPincode:      pincode,
		ShippingPhone:        phone,

		PaymentMethod: paymentMethod,
		OrderItems:    orderItems,
		SubTotal:      subtotal,
		Total:         total,

		Length:  30,
		Breadth: 20,
		Height:  10,
		Weight:  ConvertWeightToKg(firstItemWeight),
		Remarks: "Warehouse SPOC: " + billingName + " | " + billingPhone,
	}
}
