package shiprocket

import (
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"

	"github.com/shubham-jagtap07/gtbackend/models"
)

func TestConvertWeightToKg(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"900g", 0.9},
		{"900", 0.9},
		{"1.2kg", 1.2},
		{"2kg", 2},
		{"500 g", 0.5},
		{" 1.5KG ", 1.5},
		{"", 1.2},
		{"invalid", 1.2},
		{"0g", 1.2},
		{"-5", 1.2},
		{"abc kg", 1.2},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, ConvertWeightToKg(tt.in), 1e-9, "weight %q", tt.in)
	}
}

func TestNameSplitting(t *testing.T) {
	tests := []struct {
		full  string
		first string
		last  string
	}{
		{"", "Customer", ""},
		{"   ", "Customer", ""},
		{"Jaywant", "Jaywant", ""},
		{"Jaywant Mhala", "Jaywant", "Mhala"},
		{"Jaywant Namdeora Mhala", "Jaywant", "Mhala"},
		{"  Asha   Rani  Devi ", "Asha", "Devi"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.first, FirstName(tt.full), "first name of %q", tt.full)
		assert.Equal(t, tt.last, LastName(tt.full), "last name of %q", tt.full)
	}
}

func TestNewChannelOrderID(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^GC-ORDER-20250314-[0-9A-F]{6}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewChannelOrderID(now)
		assert.Regexp(t, pattern, id)
		assert.False(t, seen[id], "channel order id %s generated twice", id)
		seen[id] = true
	}
}

func testOrder() *models.Order {
	return &models.Order{
		ID:            1,
		OrderNumber:   "ORD1700000000000",
		CustomerName:  "Jaywant Namdeora Mhala",
		CustomerPhone: "919527243062",
		Items: datatypes.NewJSONType([]models.LineItem{{
			Name:     "Gulacha Chaha Pack",
			Price:    500,
			Quantity: 2,
			Weight:   "900g",
		}}),
		Subtotal:      decimal.NewFromInt(1000),
		TotalAmount:   decimal.NewFromInt(1000),
		PaymentMethod: models.PaymentMethodCash,
		Address: datatypes.NewJSONType(models.DeliveryAddress{
			Street:   "City vista, Fountain road, Kharadi",
			Landmark: "Near IT Park",
			City:     "Pune",
			Taluka:   "Pune",
			District: "Pune",
			State:    "Maharashtra",
			Pincode:  "411014",
		}),
	}
}

func TestTransformOrder(t *testing.T) {
	payload := TransformOrder(testOrder())

	assert.Equal(t, "COD", payload.PaymentMethod)
	assert.Equal(t, "Jaywant", payload.ShippingCustomerName)
	assert.Equal(t, "Mhala", payload.ShippingLastName)
	assert.Equal(t, "City vista, Fountain road, Kharadi, Near IT Park", payload.ShippingAddress)
	assert.Equal(t, "Pune", payload.ShippingCity)
	assert.Equal(t, "411014", payload.ShippingPincode)
	assert.Equal(t, "919527243062", payload.ShippingPhone)
	assert.InDelta(t, 0.9, payload.Weight, 1e-9)
	assert.InDelta(t, 1000, payload.SubTotal, 1e-9)
	assert.InDelta(t, 1000, payload.Total, 1e-9)

	assert.Len(t, payload.OrderItems, 1)
	assert.Equal(t, "Gulacha Chaha Pack", payload.OrderItems[0].Name)
	assert.Equal(t, 2, payload.OrderItems[0].Units)
	assert.InDelta(t, 500, payload.OrderItems[0].SellingPrice, 1e-9)

	// Fixed shipper identity, not derived from the order.
	assert.Equal(t, pickupLocation, payload.PickupLocation)
	assert.Equal(t, billingName, payload.BillingCustomerName)
	assert.Equal(t, 8207072, payload.ChannelID)
}

func TestTransformOrderPrepaidAndDefaults(t *testing.T) {
	order := testOrder()
	order.PaymentMethod = models.PaymentMethodUPI
	order.CustomerName = ""
	order.CustomerPhone = ""
	order.Items = datatypes.NewJSONType([]models.LineItem{})
	order.Address = datatypes.NewJSONType(models.DeliveryAddress{Street: "Main Road"})

	payload := TransformOrder(order)

	assert.Equal(t, "Prepaid", payload.PaymentMethod)
	assert.Equal(t, "Customer", payload.ShippingCustomerName)
	assert.Equal(t, "", payload.ShippingLastName)
	assert.Equal(t, "Unknown", payload.ShippingCity)
	assert.Equal(t, "Maharashtra", payload.ShippingState)
	assert.Equal(t, "000000", payload.ShippingPincode)
	assert.Equal(t, "0000000000", payload.ShippingPhone)
	assert.InDelta(t, 1.2, payload.Weight, 1e-9)
	assert.Empty(t, payload.OrderItems)
}

func TestTransformOrderUniqueChannelIDs(t *testing.T) {
	order := testOrder()
	a := TransformOrder(order)
	b := TransformOrder(order)
	assert.NotEqual(t, a.OrderID, b.OrderID, "channel order id must be unique per call")
}
