package orderControllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shubham-jagtap07/gtbackend/models"
	"github.com/shubham-jagtap07/gtbackend/store"
)

// -------- Handlers --------

// CreateOrderHandler handles POST /api/orders. Courier registration failure
// is reported inside a success response: the order itself was created.
func CreateOrderHandler(s Store, courier Courier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
			return
		}

		order, registration, courierErr, err := CreateOrder(s, courier, req)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": verr.Error()})
				return
			}
			log.Printf("❌ Create order failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
			return
		}

		data := gin.H{
			"order_id":     order.ID,
			"order_number": order.OrderNumber,
		}
		if registration != nil {
			data["shiprocket"] = gin.H{"order_id": registration.OrderID.String()}
		}
		if courierErr != nil {
			log.Printf("⚠️ Order %s created but courier registration failed: %v", order.OrderNumber, courierErr)
			data["shipment_error"] = courierErr.Error()
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order created", "data": data})
	}
}

// ListOrdersHandler flattens the first line item per order for the admin
// table, same shape the dashboard has always consumed.
func ListOrdersHandler(s Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := s.ListOrders(200)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
			return
		}

		rows := make([]gin.H, 0, len(orders))
		for i := range orders {
			rows = append(rows, flattenOrder(&orders[i]))
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": rows})
	}
}

func flattenOrder(o *models.Order) gin.H {
	var first models.LineItem
	if items := o.Items.Data(); len(items) > 0 {
		first = items[0]
	}
	addr := o.Address.Data()

	payment := strings.ToUpper(string(o.PaymentMethod))
	if o.PaymentMethod == models.PaymentMethodCash {
		payment = "COD"
	}

	addressParts := []string{addr.Street, addr.City, addr.Taluka, addr.District, addr.State, addr.Pincode}
	nonEmpty := addressParts[:0]
	for _, p := range addressParts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}

	return gin.H{
		"id":              o.OrderNumber,
		"customer":        o.CustomerName,
		"mobile":          o.CustomerPhone,
		"address":         strings.Join(nonEmpty, ", "),
		"product":         first.Name,
		"quantity":        first.Quantity,
		"weight":          first.Weight,
		"price":           first.Price,
		"total":           o.TotalAmount,
		"payment":         payment,
		"status":          o.Status,
		"payment_status":  o.PaymentStatus,
		"date":            o.OrderDate.Format("2006-01-02"),
		"image1":          first.Image1,
		"image2":          first.Image2,
		"shipment_id":     o.ShipmentID,
		"tracking_status": o.TrackingStatus,
	}
}

// SummaryHandler returns the admin dashboard counters.
func SummaryHandler(s Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sum, err := s.Summary()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": sum})
	}
}

// CreateShipmentHandler handles POST /api/orders/:orderID/create-shipment.
func CreateShipmentHandler(s Store, courier Courier) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid order id"})
			return
		}

		order, resp, err := CreateShipmentForOrder(s, courier, uint(orderID))
		switch {
		case errors.Is(err, store.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
		case errors.Is(err, ErrAlreadyShipped):
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Order is already registered with the courier"})
		case err != nil:
			log.Printf("❌ Shipment creation failed for order %d: %v", orderID, err)
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "Shipment creation failed", "error": err.Error()})
		default:
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Shipment created", "data": gin.H{
				"order_number":        order.OrderNumber,
				"shiprocket_order_id": resp.OrderID.String(),
				"shipment_id":         resp.ShipmentID.String(),
				"status":              resp.Status,
			}})
		}
	}
}

// TrackingHandler handles GET /api/orders/:orderID/tracking.
func TrackingHandler(s Store, courier Courier) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid order id"})
			return
		}

		order, payload, err := GetTracking(s, courier, uint(orderID))
		switch {
		case errors.Is(err, store.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
		case errors.Is(err, ErrNoShipment):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No shipment exists for this order"})
		case err != nil:
			log.Printf("❌ Tracking fetch failed for order %d: %v", orderID, err)
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "Failed to fetch tracking", "error": err.Error()})
		default:
			c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
				"order_number":    order.OrderNumber,
				"shipment_id":     order.ShipmentID,
				"awb_code":        order.AWBCode,
				"courier_name":    order.CourierName,
				"tracking_status": order.TrackingStatus,
				"tracking":        payload,
			}})
		}
	}
}

// DeleteOrderHandler removes an order by its order number (admin only).
func DeleteOrderHandler(s Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderNumber := c.Param("orderNumber")
		if orderNumber == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "orderNumber is required"})
			return
		}
		if err := s.DeleteOrderByNumber(orderNumber); err != nil {
			if errors.Is(err, store.ErrOrderNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order deleted"})
	}
}
