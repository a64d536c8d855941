package paymentControllers

import (
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubham-jagtap07/gtbackend/easebuzz"
	"github.com/shubham-jagtap07/gtbackend/models"
	"github.com/shubham-jagtap07/gtbackend/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakePayStore keeps orders and transactions in memory.
type fakePayStore struct {
	nextID uint
	orders map[string]*models.Order // keyed by order number
	txns   map[string]*models.PaymentTransaction
}

func newFakePayStore() *fakePayStore {
	return &fakePayStore{
		orders: map[string]*models.Order{},
		txns:   map[string]*models.PaymentTransaction{},
	}
}

func (f *fakePayStore) CreateOrder(o *models.Order) error {
	if _, ok := f.orders[o.OrderNumber]; ok {
		return store.ErrDuplicateOrderNumber
	}
	f.nextID++
	o.ID = f.nextID
	f.orders[o.OrderNumber] = o
	return nil
}

func (f *fakePayStore) GetOrderByID(id uint) (*models.Order, error) {
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, store.ErrOrderNotFound
}

func (f *fakePayStore) GetOrderByNumber(orderNumber string) (*models.Order, error) {
	o, ok := f.orders[orderNumber]
	if !ok {
		return nil, store.ErrOrderNotFound
	}
	return o, nil
}

func (f *fakePayStore) SetOrderPaymentOutcome(orderNumber string, status models.OrderStatus, payment models.PaymentStatus) error {
	if o, ok := f.orders[orderNumber]; ok {
		o.Status = status
		o.PaymentStatus = payment
	}
	return nil
}

func (f *fakePayStore) CreateTransaction(txn *models.PaymentTransaction) error {
	f.txns[txn.TransactionID] = txn
	return nil
}

func (f *fakePayStore) GetTransaction(txnID string) (*models.PaymentTransaction, error) {
	txn, ok := f.txns[txnID]
	if !ok {
		return nil, store.ErrTransactionNotFound
	}
	return txn, nil
}

func (f *fakePayStore) CompleteTransaction(txnID string, status models.TransactionStatus, gatewayTxnID string, raw []byte) error {
	if txn, ok := f.txns[txnID]; ok {
		txn.Status = status
		if gatewayTxnID != "" {
			txn.GatewayTransactionID = &gatewayTxnID
		}
		txn.GatewayResponse = raw
	}
	return nil
}

func testGateway() *easebuzz.Client {
	return &easebuzz.Client{Key: "MERCHANT_KEY", Salt: "MERCHANT_SALT", BaseURL: "https://testpay.easebuzz.in/"}
}

// signedCallback builds a gateway callback with a valid reverse-order hash.
func signedCallback(gw *easebuzz.Client, status, orderNumber, txnid string) url.Values {
	p := map[string]string{
		"key": gw.Key, "txnid": txnid, "amount": "1000.00",
		"productinfo": "Gulacha Chaha Pack", "firstname": "Jaywant",
		"email": "jaywant@example.com", "status": status,
		"udf1": orderNumber, "udf2": "919527243062",
		"easepayid": "E123456789",
	}
	fields := []string{
		gw.Salt, p["status"],
		p["udf10"], p["udf9"], p["udf8"], p["udf7"], p["udf6"],
		p["udf5"], p["udf4"], p["udf3"], p["udf2"], p["udf1"],
		p["email"], p["firstname"], p["productinfo"], p["amount"], p["txnid"], p["key"],
	}
	sum := sha512.Sum512([]byte(strings.Join(fields, "|")))
	p["hash"] = hex.EncodeToString(sum[:])

	form := url.Values{}
	for k, v := range p {
		form.Set(k, v)
	}
	return form
}

func seedPendingOrder(s *fakePayStore, orderNumber, txnid string) {
	order := &models.Order{
		OrderNumber:   orderNumber,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
	}
	_ = s.CreateOrder(order)
	_ = s.CreateTransaction(&models.PaymentTransaction{
		OrderID:       order.ID,
		TransactionID: txnid,
		Amount:        decimal.NewFromInt(1000),
		Status:        models.TransactionInitiated,
	})
}

func postCallback(t *testing.T, s Store, gw Gateway, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/payment/callback", strings.NewReader(form.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	CallbackHandler(s, gw)(c)
	// Without an engine driving the request, gin's buffered writer never
	// flushes a status set by http.Redirect on bodiless POST responses.
	c.Writer.WriteHeaderNow()
	return w
}

func TestCallbackSuccess(t *testing.T) {
	s := newFakePayStore()
	gw := testGateway()
	seedPendingOrder(s, "ORD1700000000000", "TXN1")

	w := postCallback(t, s, gw, signedCallback(gw, "success", "ORD1700000000000", "TXN1"))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/payment/success")

	order := s.orders["ORD1700000000000"]
	assert.Equal(t, models.OrderStatusConfirmed, order.Status)
	assert.Equal(t, models.PaymentStatusCompleted, order.PaymentStatus)

	txn := s.txns["TXN1"]
	assert.Equal(t, models.TransactionCompleted, txn.Status)
	require.NotNil(t, txn.GatewayTransactionID)
	assert.Equal(t, "E123456789", *txn.GatewayTransactionID)
	assert.NotEmpty(t, txn.GatewayResponse, "raw gateway payload stored for audit")
}

func TestCallbackFailureStatus(t *testing.T) {
	s := newFakePayStore()
	gw := testGateway()
	seedPendingOrder(s, "ORD1700000000001", "TXN2")

	w := postCallback(t, s, gw, signedCallback(gw, "failure", "ORD1700000000001", "TXN2"))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/payment/failure")
	assert.Equal(t, models.OrderStatusCancelled, s.orders["ORD1700000000001"].Status)
	assert.Equal(t, models.PaymentStatusFailed, s.orders["ORD1700000000001"].PaymentStatus)
	assert.Equal(t, models.TransactionFailed, s.txns["TXN2"].Status)
}

func TestCallbackIdempotent(t *testing.T) {
	s := newFakePayStore()
	gw := testGateway()
	seedPendingOrder(s, "ORD1700000000000", "TXN1")
	form := signedCallback(gw, "success", "ORD1700000000000", "TXN1")

	first := postCallback(t, s, gw, form)
	second := postCallback(t, s, gw, form)

	assert.Equal(t, http.StatusFound, first.Code)
	assert.Equal(t, http.StatusFound, second.Code, "duplicate delivery must not error")
	assert.Equal(t, models.OrderStatusConfirmed, s.orders["ORD1700000000000"].Status)
	assert.Equal(t, models.TransactionCompleted, s.txns["TXN1"].Status)
}

func TestCallbackTamperedPayloadRejected(t *testing.T) {
	s := newFakePayStore()
	gw := testGateway()
	seedPendingOrder(s, "ORD1700000000000", "TXN1")

	form := signedCallback(gw, "success", "ORD1700000000000", "TXN1")
	form.Set("amount", "9000.00")

	w := postCallback(t, s, gw, form)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.OrderStatusPending, s.orders["ORD1700000000000"].Status, "state untouched on hash mismatch")
	assert.Equal(t, models.TransactionInitiated, s.txns["TXN1"].Status)
}

func TestCallbackUnknownOrderRejected(t *testing.T) {
	s := newFakePayStore()
	gw := testGateway()
	seedPendingOrder(s, "ORD1700000000000", "TXN1")

	// Signed correctly, but udf1 names an order this system never issued.
	w := postCallback(t, s, gw, signedCallback(gw, "success", "ORD9999999999999", "TXN1"))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "error=unknown_order")
	assert.Equal(t, models.OrderStatusPending, s.orders["ORD1700000000000"].Status)
	assert.Equal(t, models.TransactionInitiated, s.txns["TXN1"].Status, "transaction untouched for unknown order")
}

func TestCallbackViaGetQuery(t *testing.T) {
	s := newFakePayStore()
	gw := testGateway()
	seedPendingOrder(s, "ORD1700000000000", "TXN1")
	form := signedCallback(gw, "success", "ORD1700000000000", "TXN1")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/payment/callback?"+form.Encode(), nil)
	CallbackHandler(s, gw)(c)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, models.OrderStatusConfirmed, s.orders["ORD1700000000000"].Status)
}

// fakeGateway scripts the initiate flow without touching the network.
type fakeGateway struct {
	*easebuzz.Client
	initiateErr error
}

func (f *fakeGateway) InitiateLink(map[string]string) (string, error) {
	if f.initiateErr != nil {
		return "", f.initiateErr
	}
	return "ACCESS_KEY_123", nil
}

func initiateBody() map[string]interface{} {
	return map[string]interface{}{
		"name": "Jaywant Mhala", "phone": "919527243062", "email": "jaywant@example.com",
		"street": "Kharadi", "city": "Pune", "taluka": "Pune", "district": "Pune",
		"pincode": "411014", "product": "Gulacha Chaha Pack", "price": 500, "qty": 2,
	}
}

func postInitiate(t *testing.T, s Store, gw Gateway, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/payment/initiate", strings.NewReader(string(data)))
	c.Request.Header.Set("Content-Type", "application/json")
	InitiateHandler(s, gw)(c)
	return w
}

func TestInitiateCreatesOrderAndTransaction(t *testing.T) {
	s := newFakePayStore()
	gw := &fakeGateway{Client: testGateway()}

	w := postInitiate(t, s, gw, initiateBody())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			OrderNumber string `json:"order_number"`
			AccessKey   string `json:"access_key"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "ACCESS_KEY_123", resp.Data.AccessKey)

	order, ok := s.orders[resp.Data.OrderNumber]
	require.True(t, ok, "order persisted")
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, models.PaymentMethodOnline, order.PaymentMethod)
	assert.Equal(t, "1000", order.TotalAmount.String())

	require.Len(t, s.txns, 1)
	for _, txn := range s.txns {
		assert.Equal(t, models.TransactionInitiated, txn.Status)
		assert.Equal(t, order.ID, txn.OrderID)
	}
}

func TestInitiateValidation(t *testing.T) {
	s := newFakePayStore()
	gw := &fakeGateway{Client: testGateway()}

	body := initiateBody()
	body["email"] = "not-an-email"
	w := postInitiate(t, s, gw, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, s.orders, "no order persisted on invalid email")

	body = initiateBody()
	delete(body, "phone")
	delete(body, "pincode")
	w = postInitiate(t, s, gw, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "phone")
	assert.Contains(t, w.Body.String(), "pincode")
}

func TestStatusHandler(t *testing.T) {
	s := newFakePayStore()
	seedPendingOrder(s, "ORD1700000000000", "TXN1")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/payment/status/TXN1", nil)
	c.Params = gin.Params{{Key: "txnid", Value: "TXN1"}}
	StatusHandler(s)(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ORD1700000000000")

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/payment/status/NOPE", nil)
	c.Params = gin.Params{{Key: "txnid", Value: "NOPE"}}
	StatusHandler(s)(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
