// Package easebuzz wraps the Easebuzz payment gateway contract: building the
// signed initiate-payment parameter set, verifying signed callbacks and
// calling the initiateLink API. The hash strings are byte-for-byte contracts
// with the gateway; do not reorder fields.
package easebuzz

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	productionBase = "https://pay.easebuzz.in/"
	testBase       = "https://testpay.easebuzz.in/"
)

var (
	nameSanitizer    = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	productSanitizer = regexp.MustCompile(`[^a-zA-Z0-9\s\-.]`)
)

// Client holds the merchant credentials. Key and salt are shared secrets
// with the gateway; the same pair must be used for request and callback
// hashes.
type Client struct {
	Key     string
	Salt    string
	BaseURL string

	httpClient *http.Client
}

// NewFromEnv picks test or production credentials based on PAYMENT_ENV.
// Missing credentials surface per request via Configured, the way a missing
// gateway config has always been reported.
func NewFromEnv() *Client {
	key := os.Getenv("EASEBUZZ_TEST_KEY")
	salt := os.Getenv("EASEBUZZ_TEST_SALT")
	base := testBase
	if os.Getenv("PAYMENT_ENV") == "production" {
		key = os.Getenv("EASEBUZZ_PROD_KEY")
		salt = os.Getenv("EASEBUZZ_PROD_SALT")
		base = productionBase
	}
	return &Client{
		Key:        key,
		Salt:       salt,
		BaseURL:    base,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Configured reports whether merchant credentials are present.
func (c *Client) Configured() bool {
	return c.Key != "" && c.Salt != ""
}

// PaymentRequest is the order-side input for building initiate parameters.
type PaymentRequest struct {
	Amount      decimal.Decimal
	Customer    string
	Email       string
	Phone       string
	ProductInfo string
	OrderNumber string
	SuccessURL  string
	FailureURL  string
}

// NewTxnID generates a unique transaction id, timestamp plus entropy so two
// concurrent checkouts never collide.
func NewTxnID() string {
	entropy := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return strings.ToUpper(fmt.Sprintf("TXN%d%s", time.Now().UnixMilli(), entropy))
}

// PrepareParams builds the full ordered parameter set for the initiate call,
// including the forward hash. The amount travels with exactly two decimal
// places; udf1 carries the order number and udf2 the phone so the callback
// can be linked back to the order.
func (c *Client) PrepareParams(req PaymentRequest) map[string]string {
	params := map[string]string{
		"key":         c.Key,
		"txnid":       NewTxnID(),
		"amount":      req.Amount.StringFixed(2),
		"productinfo": strings.TrimSpace(productSanitizer.ReplaceAllString(req.ProductInfo, "")),
		"firstname":   strings.TrimSpace(nameSanitizer.ReplaceAllString(req.Customer, "")),
		"email":       req.Email,
		"phone":       req.Phone,
		"surl":        req.SuccessURL,
		"furl":        req.FailureURL,
		"udf1":        req.OrderNumber,
		"udf2":        req.Phone,
		"udf3":        "",
		"udf4":        "",
		"udf5":        "",
		"udf6":        "",
		"udf7":        "",
		"udf8":        "",
		"udf9":        "",
		"udf10":       "",
	}
	params["hash"] = c.RequestHash(params)
	return params
}

// RequestHash computes the forward hash:
// key|txnid|amount|productinfo|firstname|email|udf1..udf10|salt
func (c *Client) RequestHash(p map[string]string) string {
	fields := []string{
		p["key"], p["txnid"], p["amount"], p["productinfo"], p["firstname"], p["email"],
		p["udf1"], p["udf2"], p["udf3"], p["udf4"], p["udf5"],
		p["udf6"], p["udf7"], p["udf8"], p["udf9"], p["udf10"],
		c.Salt,
	}
	return sha512Hex(strings.Join(fields, "|"))
}

// VerifyHash recomputes the response hash in the gateway's reverse order:
// salt|status|udf10..udf1|email|firstname|productinfo|amount|txnid|key
// and compares it against the supplied hash in constant time. Fails closed
// on a missing hash.
func (c *Client) VerifyHash(p map[string]string) bool {
	supplied := p["hash"]
	if supplied == "" {
		return false
	}
	fields := []string{
		c.Salt, p["status"],
		p["udf10"], p["udf9"], p["udf8"], p["udf7"], p["udf6"],
		p["udf5"], p["udf4"], p["udf3"], p["udf2"], p["udf1"],
		p["email"], p["firstname"], p["productinfo"], p["amount"], p["txnid"], p["key"],
	}
	expected := sha512Hex(strings.Join(fields, "|"))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(supplied)) == 1
}

// StatusHash signs a transaction status retrieve request: key|txnid|salt.
func (c *Client) StatusHash(txnid string) string {
	return sha512Hex(c.Key + "|" + txnid + "|" + c.Salt)
}

// PaymentURL is the hosted payment page base.
func (c *Client) PaymentURL() string {
	return c.BaseURL + "pay"
}

// InitiateURL is the initiateLink API endpoint, returned to the frontend
// when the fallback direct form submission is needed.
func (c *Client) InitiateURL() string {
	return c.BaseURL + "payment/initiateLink"
}

type initiateResponse struct {
	Status    int             `json:"status"`
	Data      json.RawMessage `json:"data"`
	ErrorDesc string          `json:"error_desc"`
}

// InitiateLink calls the Easebuzz initiateLink API with the prepared
// form-encoded parameters and returns the access key for the hosted payment
// page.
func (c *Client) InitiateLink(params map[string]string) (string, error) {
	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}

	resp, err := c.httpClient.Post(
		c.BaseURL+"payment/initiateLink",
		"application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return "", fmt.Errorf("failed to reach easebuzz: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("easebuzz API error (%d): %s", resp.StatusCode, string(body))
	}

	var out initiateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to parse easebuzz response: %w", err)
	}
	if out.Status != 1 {
		return "", fmt.Errorf("easebuzz error: %s", out.ErrorDesc)
	}

	// data is the access key, delivered as a bare JSON string.
	var accessKey string
	if err := json.Unmarshal(out.Data, &accessKey); err != nil {
		return "", fmt.Errorf("easebuzz returned unexpected access key payload: %s", string(out.Data))
	}
	if accessKey == "" {
		return "", fmt.Errorf("easebuzz returned empty access key")
	}
	return accessKey, nil
}

func sha512Hex(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}
