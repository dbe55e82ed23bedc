package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// Order is a gateway payment order awaiting capture.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Refund is the result of a gateway refund call.
type Refund struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
	Status string `json:"status"`
}

// Client is the payment-gateway surface the payment controller depends on.
type Client interface {
	CreateOrder(amount int64, currency, receipt string, notes map[string]interface{}) (*Order, error)
	Refund(paymentID string, amount int64, notes map[string]interface{}) (*Refund, error)
	KeySecret() string
}

// RazorpayClient wraps the Razorpay SDK. Build one at process start and
// inject it; it must never be reconstructed per request.
type RazorpayClient struct {
	api    *razorpay.Client
	secret string
}

func NewRazorpayClient(keyID, keySecret string) *RazorpayClient {
	return &RazorpayClient{
		api:    razorpay.NewClient(keyID, keySecret),
		secret: keySecret,
	}
}

func (c *RazorpayClient) KeySecret() string {
	return c.secret
}

func (c *RazorpayClient) CreateOrder(amount int64, currency, receipt string, notes map[string]interface{}) (*Order, error) {
	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		data["notes"] = notes
	}

	body, err := c.api.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("create razorpay order: %w", err)
	}

	return &Order{
		ID:       asString(body["id"]),
		Amount:   asInt64(body["amount"]),
		Currency: asString(body["currency"]),
	}, nil
}

func (c *RazorpayClient) Refund(paymentID string, amount int64, notes map[string]interface{}) (*Refund, error) {
	data := map[string]interface{}{}
	if len(notes) > 0 {
		data["notes"] = notes
	}

	body, err := c.api.Payment.Refund(paymentID, int(amount), data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay refund: %w", err)
	}

	return &Refund{
		ID:     asString(body["id"]),
		Amount: asInt64(body["amount"]),
		Status: asString(body["status"]),
	}, nil
}

// VerifySignature checks the gateway checkout signature: hex-encoded
// HMAC-SHA256 over "orderID|paymentID" keyed with the key secret.
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int:
		return int64(n)
	case int64:
		return n
	}
	return 0
}
