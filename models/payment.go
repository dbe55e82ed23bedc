package models

import (
	"time"

	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "pending"
	PaymentCompleted     PaymentStatus = "completed"
	PaymentRefundPending PaymentStatus = "refund_pending"
	PaymentRefunded      PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	MethodOnline  PaymentMethod = "online"
	MethodOffline PaymentMethod = "offline"
	MethodCard    PaymentMethod = "card"
	MethodGPay    PaymentMethod = "gpay"
	MethodPaytm   PaymentMethod = "paytm"
	MethodPhonePe PaymentMethod = "phonepe"
)

// ValidMethod reports whether m is a known payment method.
func ValidMethod(m PaymentMethod) bool {
	switch m {
	case MethodOnline, MethodOffline, MethodCard, MethodGPay, MethodPaytm, MethodPhonePe:
		return true
	}
	return false
}

// InstantMethod reports whether m is a wallet-style redirect method that the
// client reports as already settled, with no gateway signature to verify.
func InstantMethod(m PaymentMethod) bool {
	return m == MethodGPay || m == MethodPaytm || m == MethodPhonePe
}

// Payment is the single owning record for an appointment's payment state.
// Amount is always in paise.
type Payment struct {
	gorm.Model
	AppointmentID uint          `json:"appointment_id" gorm:"uniqueIndex;not null"`
	Status        PaymentStatus `json:"status" gorm:"default:'pending'"`
	Method        PaymentMethod `json:"method"`
	Amount        int64         `json:"amount"`
	Gateway       string        `json:"gateway"`
	OrderID       string        `json:"order_id"`
	PaymentID     string        `json:"payment_id"`
	Signature     string        `json:"-"`
	RefundID      string        `json:"refund_id,omitempty"`
	InitiatedAt   *time.Time    `json:"initiated_at,omitempty"`
	CapturedAt    *time.Time    `json:"captured_at,omitempty"`
	Meta          string        `json:"meta,omitempty"`
}
