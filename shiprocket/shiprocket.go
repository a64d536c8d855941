// Package shiprocket owns the Shiprocket API session lifecycle and the
// internal-order to courier-order transform. The rest of the system never
// sees courier field naming or token handling.
package shiprocket

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/shubham-jagtap07/gtbackend/models"
)

const defaultBaseURL = "https://apiv2.shiprocket.in/v1/external"

// Shiprocket states tokens are valid for 10 days; cache for 9 to leave a
// safety margin.
const tokenTTL = 9 * 24 * time.Hour

var (
	// ErrTokenAcquisition means login to the courier failed; every
	// subsequent call depends on it, so it is surfaced, never swallowed.
	ErrTokenAcquisition = errors.New("shiprocket: failed to acquire auth token")

	// ErrTimeout marks a bounded-timeout expiry on a courier call, kept
	// distinct from other API failures so callers can treat it as retryable.
	ErrTimeout = errors.New("shiprocket: request timed out")
)

// APIError carries the upstream status and body for diagnostics.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shiprocket API error (%d): %s", e.StatusCode, e.Body)
}

// TokenStore is the persistence capability behind the shared token cache.
// Implemented by the store package; most recent non-expired row wins.
type TokenStore interface {
	CurrentToken() (*models.CourierToken, error)
	SaveToken(token string, expiresAt time.Time) error
	PurgeExpiredTokens() error
}

type Service struct {
	baseURL  string
	email    string
	password string
	tokens   TokenStore

	httpClient *http.Client
}

// NewService reads courier credentials from the environment. The HTTP client
// carries an explicit timeout so a slow courier call fails instead of
// blocking the request indefinitely.
func NewService(tokens TokenStore) *Service {
	base := os.Getenv("SHIPROCKET_BASE_URL")
	if base == "" {
		base = defaultBaseURL
	}
	return &Service{
		baseURL:    base,
		email:      os.Getenv("SHIPROCKET_EMAIL"),
		password:   os.Getenv("SHIPROCKET_PASSWORD"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

type loginResponse struct {
	Token string `json:"token"`
}

// GetValidToken returns a cached token when one is still valid, otherwise
// logs in, caches the fresh token and opportunistically purges expired rows.
func (s *Service) GetValidToken() (string, error) {
	if tok, err := s.tokens.CurrentToken(); err == nil {
		return tok.Token, nil
	}

	creds, _ := json.Marshal(map[string]string{
		"email":    s.email,
		"password": s.password,
	})
	resp, err := s.httpClient.Post(s.baseURL+"/auth/login", "application/json", bytes.NewReader(creds))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenAcquisition, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", ErrTokenAcquisition, resp.StatusCode, string(body))
	}

	var login loginResponse
	if err := json.Unmarshal(body, &login); err != nil || login.Token == "" {
		return "", fmt.Errorf("%w: no token in response", ErrTokenAcquisition)
	}

	if err := s.tokens.SaveToken(login.Token, time.Now().Add(tokenTTL)); err != nil {
		// A save failure only costs a re-login next time.
		log.Printf("⚠️ Shiprocket: failed to cache token: %v", err)
	}
	_ = s.tokens.PurgeExpiredTokens()

	return login.Token, nil
}

// OrderResponse is the subset of the create-order response this system
// depends on.
type OrderResponse struct {
	OrderID     json.Number `json:"order_id"`
	ShipmentID  json.Number `json:"shipment_id"`
	Status      string      `json:"status"`
	AWBCode     string      `json:"awb_code"`
	CourierName string      `json:"courier_name"`
}

// RegisterOrder transforms the order and registers it with Shiprocket
// without creating a shipment.
func (s *Service) RegisterOrder(order *models.Order) (*OrderResponse, error) {
	return s.createAdhoc(TransformOrder(order))
}

// CreateShipment registers the order and creates the shipment in one call;
// the response carries both the courier order id and the shipment id.
func (s *Service) CreateShipment(order *models.Order) (*OrderResponse, error) {
	return s.createAdhoc(TransformOrder(order))
}

func (s *Service) createAdhoc(payload *OrderPayload) (*OrderResponse, error) {
	token, err := s.GetValidToken()
	if err != nil {
		return nil, err
	}

	body, err := s.post("/orders/create/adhoc", token, payload)
	if err != nil {
		return nil, err
	}

	var out OrderResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("shiprocket: invalid create order response: %w", err)
	}
	if out.OrderID.String() == "" {
		return nil, &APIError{StatusCode: http.StatusOK, Body: string(body)}
	}
	return &out, nil
}

// Track fetches the raw tracking payload for a shipment.
func (s *Service) Track(shipmentID string) (json.RawMessage, error) {
	token, err := s.GetValidToken()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodGet, s.baseURL+"/courier/track/shipment/"+shipmentID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, wrapTransportErr(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return json.RawMessage(body), nil
}

func (s *Service) post(path, token string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, wrapTransportErr(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

func wrapTransportErr(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("shiprocket: request failed: %w", err)
}
