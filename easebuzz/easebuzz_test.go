package easebuzz

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient() *Client {
	return &Client{Key: "MERCHANT_KEY", Salt: "MERCHANT_SALT", BaseURL: testBase}
}

func TestPrepareParams(t *testing.T) {
	c := testClient()
	params := c.PrepareParams(PaymentRequest{
		Amount:      decimal.NewFromInt(1000),
		Customer:    "Jaywant Mhala!",
		Email:       "jaywant@example.com",
		Phone:       "919527243062",
		ProductInfo: "Gulacha Chaha Pack",
		OrderNumber: "ORD1700000000000",
		SuccessURL:  "http://localhost:8080/api/payment/callback",
		FailureURL:  "http://localhost:8080/api/payment/callback",
	})

	assert.Equal(t, "MERCHANT_KEY", params["key"])
	assert.Equal(t, "1000.00", params["amount"], "amount must carry exactly two decimal places")
	assert.Equal(t, "Jaywant Mhala", params["firstname"], "special characters stripped")
	assert.Equal(t, "Gulacha Chaha Pack", params["productinfo"])
	assert.Regexp(t, regexp.MustCompile(`^TXN\d+[0-9A-F]{9}$`), params["txnid"])

	// The callback is the only place that links gateway state back to the
	// order, so the order number and phone must travel in the UDFs.
	assert.Equal(t, "ORD1700000000000", params["udf1"])
	assert.Equal(t, "919527243062", params["udf2"])
	for i := 3; i <= 10; i++ {
		assert.Equal(t, "", params[fmt.Sprintf("udf%d", i)])
	}

	// Hash over the pipe-delimited forward order, byte for byte.
	expected := strings.Join([]string{
		"MERCHANT_KEY", params["txnid"], "1000.00", "Gulacha Chaha Pack",
		"Jaywant Mhala", "jaywant@example.com",
		"ORD1700000000000", "919527243062", "", "", "", "", "", "", "", "",
		"MERCHANT_SALT",
	}, "|")
	sum := sha512.Sum512([]byte(expected))
	assert.Equal(t, hex.EncodeToString(sum[:]), params["hash"])
}

func TestNewTxnIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewTxnID()
		assert.False(t, seen[id], "txnid %s generated twice", id)
		seen[id] = true
	}
}

func callbackPayload(c *Client) map[string]string {
	p := map[string]string{
		"key":         c.Key,
		"txnid":       "TXN1700000000000ABCDEF123",
		"amount":      "1000.00",
		"productinfo": "Gulacha Chaha Pack",
		"firstname":   "Jaywant Mhala",
		"email":       "jaywant@example.com",
		"status":      "success",
		"udf1":        "ORD1700000000000",
		"udf2":        "919527243062",
		"udf3":        "", "udf4": "", "udf5": "", "udf6": "", "udf7": "",
		"udf8": "", "udf9": "", "udf10": "",
		"easepayid": "E123456789",
	}
	fields := []string{
		c.Salt, p["status"],
		p["udf10"], p["udf9"], p["udf8"], p["udf7"], p["udf6"],
		p["udf5"], p["udf4"], p["udf3"], p["udf2"], p["udf1"],
		p["email"], p["firstname"], p["productinfo"], p["amount"], p["txnid"], p["key"],
	}
	sum := sha512.Sum512([]byte(strings.Join(fields, "|")))
	p["hash"] = hex.EncodeToString(sum[:])
	return p
}

func TestVerifyHash(t *testing.T) {
	c := testClient()
	assert.True(t, c.VerifyHash(callbackPayload(c)))
}

func TestVerifyHashRejectsTampering(t *testing.T) {
	c := testClient()
	for _, field := range []string{"amount", "status", "txnid", "udf1", "email", "firstname", "hash"} {
		p := callbackPayload(c)
		p[field] = p[field] + "x"
		assert.False(t, c.VerifyHash(p), "tampered %s must fail verification", field)
	}
}

func TestVerifyHashMissingHash(t *testing.T) {
	c := testClient()
	p := callbackPayload(c)
	delete(p, "hash")
	assert.False(t, c.VerifyHash(p))
}

func TestStatusHash(t *testing.T) {
	c := testClient()
	sum := sha512.Sum512([]byte("MERCHANT_KEY|TXN1|MERCHANT_SALT"))
	assert.Equal(t, hex.EncodeToString(sum[:]), c.StatusHash("TXN1"))
}

func TestInitiateLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "/payment/initiateLink", r.URL.Path)
		assert.Equal(t, "MERCHANT_KEY", r.Form.Get("key"))
		w.Write([]byte(`{"status":1,"data":"ACCESS_KEY_123"}`))
	}))
	defer srv.Close()

	c := testClient()
	c.BaseURL = srv.URL + "/"
	c.httpClient = srv.Client()

	accessKey, err := c.InitiateLink(map[string]string{"key": "MERCHANT_KEY", "txnid": "TXN1"})
	require.NoError(t, err)
	assert.Equal(t, "ACCESS_KEY_123", accessKey)
}

func TestInitiateLinkGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":0,"error_desc":"Invalid merchant key"}`))
	}))
	defer srv.Close()

	c := testClient()
	c.BaseURL = srv.URL + "/"
	c.httpClient = srv.Client()

	_, err := c.InitiateLink(map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid merchant key")
}
