package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func signFor(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	const (
		orderID   = "order_LK9WxyzA1B2C3D"
		paymentID = "pay_LK9XabcD4E5F6G"
		secret    = "test_key_secret"
	)
	sig := signFor(orderID, paymentID, secret)

	if !VerifySignature(orderID, paymentID, sig, secret) {
		t.Fatal("valid signature must verify")
	}
}

func TestVerifySignatureRejectsMutatedPaymentID(t *testing.T) {
	const (
		orderID   = "order_LK9WxyzA1B2C3D"
		paymentID = "pay_LK9XabcD4E5F6G"
		secret    = "test_key_secret"
	)
	sig := signFor(orderID, paymentID, secret)

	mutated := "pay_LK9XabcD4E5F6H"
	if VerifySignature(orderID, mutated, sig, secret) {
		t.Fatal("single-character mutation of payment id must fail verification")
	}
}

func TestVerifySignatureRejectsWrongSecret(t *testing.T) {
	const (
		orderID   = "order_LK9WxyzA1B2C3D"
		paymentID = "pay_LK9XabcD4E5F6G"
	)
	sig := signFor(orderID, paymentID, "test_key_secret")

	if VerifySignature(orderID, paymentID, sig, "other_secret") {
		t.Fatal("signature computed with another secret must fail verification")
	}
}

func TestVerifySignatureRejectsEmptySignature(t *testing.T) {
	if VerifySignature("order_x", "pay_y", "", "secret") {
		t.Fatal("empty signature must fail verification")
	}
}
