package payment

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"laundry-service/internal/models"

	"github.com/shopspring/decimal"
)

const (
	payPath    = "/pg/v1/pay"
	statusPath = "/pg/v1/status"

	// CodePaymentSuccess is the gateway code for a completed payment.
	CodePaymentSuccess = "PAYMENT_SUCCESS"
)

// PhonePeConfig holds the merchant credentials and gateway host.
type PhonePeConfig struct {
	MerchantID string
	SaltKey    string
	SaltIndex  string
	BaseURL    string
}

// GatewayError is a failed or malformed exchange with the gateway.
// StatusCode is the provider's HTTP status, or 502 when none was received.
type GatewayError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *GatewayError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("phonepe: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("phonepe: %d: %s", e.StatusCode, e.Message)
}

// PayRequest describes a single pay-page transaction.
type PayRequest struct {
	MerchantTransactionID string
	MerchantUserID        string
	Amount                int64 // paise
	RedirectURL           string
	CallbackURL           string
	MobileNumber          string
}

type payInstrument struct {
	Type string `json:"type"`
}

type payPayload struct {
	MerchantID            string        `json:"merchantId"`
	MerchantTransactionID string        `json:"merchantTransactionId"`
	MerchantUserID        string        `json:"merchantUserId"`
	Amount                int64         `json:"amount"`
	RedirectURL           string        `json:"redirectUrl"`
	RedirectMode          string        `json:"redirectMode"`
	CallbackURL           string        `json:"callbackUrl"`
	MobileNumber          string        `json:"mobileNumber"`
	PaymentInstrument     payInstrument `json:"paymentInstrument"`
}

type payResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		InstrumentResponse struct {
			RedirectInfo struct {
				URL string `json:"url"`
			} `json:"redirectInfo"`
		} `json:"instrumentResponse"`
	} `json:"data"`
}

// TransactionStatus is the gateway's view of a transaction, returned by both
// the status endpoint and the server-to-server callback.
type TransactionStatus struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		MerchantID            string `json:"merchantId"`
		MerchantTransactionID string `json:"merchantTransactionId"`
		TransactionID         string `json:"transactionId"`
		Amount                int64  `json:"amount"`
		State                 string `json:"state"`
		ResponseCode          string `json:"responseCode"`
	} `json:"data"`
}

// Paid reports whether the gateway considers the transaction complete.
func (s *TransactionStatus) Paid() bool {
	return s.Success && s.Code == CodePaymentSuccess
}

// PhonePeClient signs and sends requests to the PhonePe PG API.
type PhonePeClient struct {
	cfg        PhonePeConfig
	httpClient *http.Client
}

// NewPhonePeClient creates a client. A nil httpClient gets a 10 second timeout.
func NewPhonePeClient(cfg PhonePeConfig, httpClient *http.Client) *PhonePeClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &PhonePeClient{cfg: cfg, httpClient: httpClient}
}

func (c *PhonePeClient) MerchantID() string {
	return c.cfg.MerchantID
}

// Checksum computes the X-VERIFY header: hex(sha256(body + path + saltKey)) + "###" + saltIndex.
// body is the base64 payload for POSTs and empty for status checks.
func Checksum(body, path, saltKey, saltIndex string) string {
	sum := sha256.Sum256([]byte(body + path + saltKey))
	return hex.EncodeToString(sum[:]) + "###" + saltIndex
}

// ToPaise converts a rupee amount to integer paise, rounding half away from zero.
func ToPaise(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// EncodePayload returns the base64 request body for req.
func (c *PhonePeClient) EncodePayload(req PayRequest) (string, error) {
	raw, err := json.Marshal(payPayload{
		MerchantID:            c.cfg.MerchantID,
		MerchantTransactionID: req.MerchantTransactionID,
		MerchantUserID:        req.MerchantUserID,
		Amount:                req.Amount,
		RedirectURL:           req.RedirectURL,
		RedirectMode:          "POST",
		CallbackURL:           req.CallbackURL,
		MobileNumber:          req.MobileNumber,
		PaymentInstrument:     payInstrument{Type: "PAY_PAGE"},
	})
	if err != nil {
		return "", fmt.Errorf("phonepe: encode payload: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Pay starts a pay-page transaction and returns the URL to send the browser to.
func (c *PhonePeClient) Pay(ctx context.Context, req PayRequest) (string, error) {
	payload, err := c.EncodePayload(req)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(map[string]string{"request": payload})
	if err != nil {
		return "", fmt.Errorf("phonepe: encode body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+payPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("phonepe: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-VERIFY", Checksum(payload, payPath, c.cfg.SaltKey, c.cfg.SaltIndex))

	var out payResponse
	status, err := c.do(httpReq, &out)
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 || !out.Success {
		if status < 400 {
			status = http.StatusBadGateway
		}
		return "", &GatewayError{StatusCode: status, Code: out.Code, Message: out.Message}
	}
	url := out.Data.InstrumentResponse.RedirectInfo.URL
	if url == "" {
		return "", &GatewayError{StatusCode: http.StatusBadGateway, Code: out.Code, Message: "response has no redirect url"}
	}
	return url, nil
}

// Status fetches the current state of a transaction. A decodable response is
// returned even when the gateway reports failure; callers check Paid. A 5xx
// from the gateway is a GatewayError carrying that status.
func (c *PhonePeClient) Status(ctx context.Context, merchantTransactionID string) (*TransactionStatus, error) {
	path := fmt.Sprintf("%s/%s/%s", statusPath, c.cfg.MerchantID, merchantTransactionID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("phonepe: build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-VERIFY", Checksum("", path, c.cfg.SaltKey, c.cfg.SaltIndex))
	httpReq.Header.Set("X-MERCHANT-ID", c.cfg.MerchantID)

	var out TransactionStatus
	status, err := c.do(httpReq, &out)
	if err != nil {
		return nil, err
	}
	if status >= http.StatusInternalServerError {
		return nil, &GatewayError{StatusCode: status, Code: out.Code, Message: out.Message}
	}
	return &out, nil
}

// VerifyCallback checks the X-VERIFY header of a server-to-server callback
// and decodes its base64 response.
func (c *PhonePeClient) VerifyCallback(response, xVerify string) (*TransactionStatus, error) {
	want := Checksum(response, "", c.cfg.SaltKey, c.cfg.SaltIndex)
	if subtle.ConstantTimeCompare([]byte(want), []byte(xVerify)) != 1 {
		return nil, models.ErrChecksumMismatch
	}
	raw, err := base64.StdEncoding.DecodeString(response)
	if err != nil {
		return nil, fmt.Errorf("phonepe: decode callback: %w", err)
	}
	var out TransactionStatus
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("phonepe: decode callback: %w", err)
	}
	return &out, nil
}

// do sends req and decodes the JSON body into out. Transport failures and
// undecodable bodies become 502 gateway errors.
func (c *PhonePeClient) do(req *http.Request, out interface{}) (int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &GatewayError{StatusCode: http.StatusBadGateway, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, &GatewayError{StatusCode: http.StatusBadGateway, Message: err.Error()}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		status := resp.StatusCode
		if status < 400 {
			status = http.StatusBadGateway
		}
		return 0, &GatewayError{StatusCode: status, Message: "malformed gateway response"}
	}
	return resp.StatusCode, nil
}
