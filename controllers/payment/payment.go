package paymentControllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"os"
	"regexp"

	"github.com/gin-gonic/gin"

	orderControllers "github.com/shubham-jagtap07/gtbackend/controllers/order"
	"github.com/shubham-jagtap07/gtbackend/easebuzz"
	"github.com/shubham-jagtap07/gtbackend/models"
	"github.com/shubham-jagtap07/gtbackend/store"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Store is the slice of the persistence layer the payment flow needs.
type Store interface {
	CreateOrder(*models.Order) error
	GetOrderByID(id uint) (*models.Order, error)
	GetOrderByNumber(orderNumber string) (*models.Order, error)
	SetOrderPaymentOutcome(orderNumber string, status models.OrderStatus, payment models.PaymentStatus) error
	CreateTransaction(*models.PaymentTransaction) error
	GetTransaction(txnID string) (*models.PaymentTransaction, error)
	CompleteTransaction(txnID string, status models.TransactionStatus, gatewayTxnID string, rawResponse []byte) error
}

// Gateway is the Easebuzz capability; implemented by easebuzz.Client.
type Gateway interface {
	Configured() bool
	PrepareParams(easebuzz.PaymentRequest) map[string]string
	VerifyHash(map[string]string) bool
	InitiateLink(map[string]string) (string, error)
	PaymentURL() string
	InitiateURL() string
	StatusHash(txnid string) string
}

type InitiatePaymentRequest struct {
	orderControllers.CreateOrderRequest
	Email string `json:"email"`
}

func frontendURL() string {
	if v := os.Getenv("FRONTEND_URL"); v != "" {
		return v
	}
	return "http://localhost:3000"
}

func backendURL() string {
	if v := os.Getenv("BACKEND_PUBLIC_URL"); v != "" {
		return v
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return "http://localhost:" + port
}

// InitiateHandler handles POST /api/payment/initiate: persists a pending
// order plus an initiated transaction, then asks Easebuzz for the hosted
// payment page access key.
func InitiateHandler(s Store, gw Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !gw.Configured() {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Payment gateway is not configured"})
			return
		}

		var req InitiatePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
			return
		}

		if verr := req.Validate(); verr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": verr.Error()})
			return
		}
		if !emailRegex.MatchString(req.Email) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please provide a valid email address."})
			return
		}

		order := req.BuildOrder(models.PaymentMethodOnline)
		var err error
		for attempt := 0; attempt < 3; attempt++ {
			err = s.CreateOrder(order)
			if !errors.Is(err, store.ErrDuplicateOrderNumber) {
				break
			}
			order.OrderNumber = orderControllers.NewOrderNumber()
		}
		if err != nil {
			log.Printf("❌ Payment initiation: order persist failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to initiate payment. Please try again."})
			return
		}

		// The callback posts back to the backend so the hash can be verified
		// before any redirect to the frontend.
		callback := backendURL() + "/api/payment/callback"
		params := gw.PrepareParams(easebuzz.PaymentRequest{
			Amount:      order.TotalAmount,
			Customer:    req.Name,
			Email:       req.Email,
			Phone:       req.Phone,
			ProductInfo: req.Product,
			OrderNumber: order.OrderNumber,
			SuccessURL:  callback,
			FailureURL:  callback,
		})

		txn := &models.PaymentTransaction{
			OrderID:        order.ID,
			TransactionID:  params["txnid"],
			Amount:         order.TotalAmount,
			Status:         models.TransactionInitiated,
			PaymentGateway: "easebuzz",
		}
		if err := s.CreateTransaction(txn); err != nil {
			log.Printf("❌ Payment initiation: transaction persist failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to initiate payment. Please try again."})
			return
		}

		accessKey, err := gw.InitiateLink(params)
		if err != nil {
			// Fall back to direct form submission against the gateway.
			log.Printf("⚠️ Easebuzz initiateLink failed, falling back to form submission: %v", err)
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment initiated successfully", "data": gin.H{
				"order_number":   order.OrderNumber,
				"payment_url":    gw.InitiateURL(),
				"payment_params": params,
			}})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment initiated successfully", "data": gin.H{
			"order_number": order.OrderNumber,
			"payment_url":  gw.PaymentURL(),
			"access_key":   accessKey,
			"data":         accessKey,
		}})
	}
}

// CallbackParams flattens the gateway callback, which may arrive as a POST
// form or a GET query depending on the flow.
func CallbackParams(c *gin.Context) map[string]string {
	_ = c.Request.ParseForm()
	params := make(map[string]string, len(c.Request.Form))
	for k, v := range c.Request.Form {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	return params
}

// CallbackHandler handles ANY /api/payment/callback. Verification failure
// rejects the callback without touching state; a verified callback applies
// the outcome idempotently and redirects the customer to the frontend.
func CallbackHandler(s Store, gw Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		params := CallbackParams(c)

		if !gw.VerifyHash(params) {
			log.Printf("❌ Payment callback hash verification failed (txnid=%s)", params["txnid"])
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payment response"})
			return
		}

		txnid := params["txnid"]
		orderNumber := params["udf1"]
		gatewayTxnID := params["easepayid"]

		// A correctly signed callback can still reference an order this
		// system never issued (replay from another merchant environment
		// sharing the salt); refuse it before touching state.
		if _, err := s.GetOrderByNumber(orderNumber); err != nil {
			if errors.Is(err, store.ErrOrderNotFound) {
				log.Printf("❌ Payment callback for unknown order %q (txnid=%s)", orderNumber, txnid)
				c.Redirect(http.StatusFound, frontendURL()+"/payment/failure?error=unknown_order")
				return
			}
			log.Printf("❌ Payment callback: order lookup failed: %v", err)
			c.Redirect(http.StatusFound, frontendURL()+"/payment/failure?error=callback_failed")
			return
		}

		orderStatus := models.OrderStatusPending
		paymentStatus := models.PaymentStatusPending
		txnStatus := models.TransactionInitiated
		switch params["status"] {
		case "success":
			orderStatus = models.OrderStatusConfirmed
			paymentStatus = models.PaymentStatusCompleted
			txnStatus = models.TransactionCompleted
		case "failure":
			orderStatus = models.OrderStatusCancelled
			paymentStatus = models.PaymentStatusFailed
			txnStatus = models.TransactionFailed
		}

		raw, _ := json.Marshal(params)
		if err := s.SetOrderPaymentOutcome(orderNumber, orderStatus, paymentStatus); err != nil {
			log.Printf("❌ Payment callback: order update failed: %v", err)
			// Never leak internal error detail into the redirect target.
			c.Redirect(http.StatusFound, frontendURL()+"/payment/failure?error=callback_failed")
			return
		}
		if err := s.CompleteTransaction(txnid, txnStatus, gatewayTxnID, raw); err != nil {
			log.Printf("❌ Payment callback: transaction update failed: %v", err)
			c.Redirect(http.StatusFound, frontendURL()+"/payment/failure?error=callback_failed")
			return
		}

		target := "/payment/failure"
		if params["status"] == "success" {
			target = "/payment/success"
		}
		c.Redirect(http.StatusFound, frontendURL()+target+
			"?order="+url.QueryEscape(orderNumber)+
			"&txn="+url.QueryEscape(txnid))
	}
}

// StatusHandler handles GET /api/payment/status/:txnid.
func StatusHandler(s Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		txn, err := s.GetTransaction(c.Param("txnid"))
		if err != nil {
			if errors.Is(err, store.ErrTransactionNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Transaction not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to check payment status"})
			return
		}

		data := gin.H{
			"transaction_id": txn.TransactionID,
			"amount":         txn.Amount,
			"status":         txn.Status,
			"created_at":     txn.CreatedAt,
		}
		if order, err := s.GetOrderByID(txn.OrderID); err == nil {
			data["order_number"] = order.OrderNumber
			data["order_status"] = order.Status
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
	}
}

// VerifyHandler handles POST /api/payment/verify: returns the locally
// recorded outcome plus the signed retrieve-request hash for a manual
// reconciliation call against the gateway.
func VerifyHandler(s Store, gw Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			TxnID string `json:"txnid"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.TxnID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Transaction ID is required"})
			return
		}

		txn, err := s.GetTransaction(req.TxnID)
		if err != nil {
			if errors.Is(err, store.ErrTransactionNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Transaction not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to verify payment"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"transaction_id":   txn.TransactionID,
			"status":           txn.Status,
			"amount":           txn.Amount,
			"gateway_response": txn.GatewayResponse,
			"status_hash":      gw.StatusHash(txn.TransactionID),
		}})
	}
}
