package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prescripto/prescripto-api/db"
	"github.com/prescripto/prescripto-api/gateway"
	"github.com/prescripto/prescripto-api/middleware"
	"github.com/prescripto/prescripto-api/models"
	"github.com/prescripto/prescripto-api/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultFee is the fallback consultation fee in paise when neither the
// payment record nor the doctor carries one.
const DefaultFee int64 = 50000

// PaymentController normalizes the three payment paths (gateway-verified
// online, wallet-style instant, pay-at-clinic) into lifecycle transitions.
// The gateway client is injected once at startup.
type PaymentController struct {
	Gateway gateway.Client
}

func NewPaymentController(g gateway.Client) *PaymentController {
	return &PaymentController{Gateway: g}
}

type payOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// CreatePayOrder creates a gateway order for an appointment so the client
// can open the checkout.
func (pc *PaymentController) CreatePayOrder(c *fiber.Ctx) error {
	var req payOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if req.Currency == "" {
		req.Currency = "INR"
	}

	appointment, ok := pc.fetchOwnAppointment(c)
	if !ok {
		return nil
	}
	if appointment.Payment.Status == models.PaymentCompleted {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Appointment is already paid",
		})
	}

	amount := clampAmount(req.Amount, appointment.Payment.Amount, appointment.Doctor.Fee)
	receipt := fmt.Sprintf("appt-%d-%s", appointment.ID, uuid.NewString()[:8])

	order, err := pc.Gateway.CreateOrder(amount, req.Currency, receipt, map[string]interface{}{
		"appointment_id": appointment.ID,
	})
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(utils.ErrorResponse{
			Message: "Failed to create payment order",
			Error:   err.Error(),
		})
	}

	now := time.Now()
	updates := map[string]interface{}{
		"gateway":      "razorpay",
		"order_id":     order.ID,
		"amount":       amount,
		"initiated_at": &now,
	}
	if err := db.DB.Model(&models.Payment{}).
		Where("appointment_id = ?", appointment.ID).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to record payment order",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"order":    order,
		"currency": order.Currency,
	})
}

type processPaymentRequest struct {
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	Amount        int64                `json:"amount"`
	Currency      string               `json:"currency"`

	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// ProcessPayment settles an appointment through one of the three payment
// paths and applies the resulting lifecycle transition.
func (pc *PaymentController) ProcessPayment(c *fiber.Ctx) error {
	var req processPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if !models.ValidMethod(req.PaymentMethod) {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: fmt.Sprintf("Unknown payment method %q", req.PaymentMethod),
		})
	}

	online := req.PaymentMethod == models.MethodOnline || req.PaymentMethod == models.MethodCard
	if online && (req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "") {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Missing gateway fields for online payment",
		})
	}

	id := c.Params("id")
	var appointment models.Appointment

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Doctor").First(&appointment, id).Error; err != nil {
			return err
		}
		if err := tx.Where("appointment_id = ?", appointment.ID).
			First(&appointment.Payment).Error; err != nil {
			return err
		}

		if middleware.Role(c) != models.RoleAdmin && appointment.UserID != middleware.UserID(c) {
			return errNotYourAppointment
		}
		if appointment.Status == models.StatusCancelled || appointment.Status == models.StatusCompleted {
			return models.ErrAppointmentSettled
		}
		if appointment.Payment.Status == models.PaymentCompleted {
			return errAlreadyPaid
		}

		amount := clampAmount(req.Amount, appointment.Payment.Amount, appointment.Doctor.Fee)
		now := time.Now()
		payment := &appointment.Payment
		payment.Method = req.PaymentMethod
		payment.Amount = amount

		switch {
		case req.PaymentMethod == models.MethodOffline:
			// Pay at clinic: nothing moves now, the method tag is all we
			// track. The appointment stays in its pre-payment state.
			payment.Status = models.PaymentPending

		case models.InstantMethod(req.PaymentMethod):
			// Wallet redirect flows confirm client-side; there is no
			// signature to verify. Mark the capture as client-trusted so
			// ops can tell these apart from gateway-verified ones.
			payment.Status = models.PaymentCompleted
			payment.CapturedAt = &now
			payment.Meta = `{"verified":"client"}`

		default:
			if !gateway.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID,
				req.RazorpaySignature, pc.Gateway.KeySecret()) {
				return errSignatureMismatch
			}
			payment.Status = models.PaymentCompleted
			payment.Gateway = "razorpay"
			payment.OrderID = req.RazorpayOrderID
			payment.PaymentID = req.RazorpayPaymentID
			payment.Signature = req.RazorpaySignature
			payment.CapturedAt = &now
			payment.Meta = `{"verified":"gateway"}`
		}

		if err := tx.Save(payment).Error; err != nil {
			return err
		}

		if payment.Status == models.PaymentCompleted &&
			appointment.Status != models.StatusConfirmed {
			return appointment.UpdateStatus(tx, models.StatusConfirmed)
		}
		return nil
	})
	if err != nil {
		return paymentError(c, err)
	}

	if appointment.Payment.Status == models.PaymentCompleted {
		notifyStatusChange(&appointment)
	}

	return c.JSON(fiber.Map{
		"success":           true,
		"status":            appointment.Status,
		"payment_status":    appointment.Payment.Status,
		"payment_method":    appointment.Payment.Method,
		"amount":            appointment.Payment.Amount,
		"receipt_available": appointment.Payment.Status == models.PaymentCompleted,
	})
}

// GetPaymentStatus reports the payment sub-state of an appointment.
func (pc *PaymentController) GetPaymentStatus(c *fiber.Ctx) error {
	appointment, ok := pc.fetchOwnAppointment(c)
	if !ok {
		return nil
	}
	return c.JSON(fiber.Map{
		"payment_status": appointment.Payment.Status,
		"payment_method": appointment.Payment.Method,
		"amount":         appointment.Payment.Amount,
	})
}

// GetReceipt streams the PDF receipt for a completed payment. The booking
// patient, the assigned doctor and admins may fetch it.
func (pc *PaymentController) GetReceipt(c *fiber.Ctx) error {
	id := c.Params("id")
	var appointment models.Appointment
	if err := db.DB.Preload("Doctor").Preload("Payment").
		First(&appointment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Appointment not found",
			Error:   err.Error(),
		})
	}

	if !canSeeReceipt(c, &appointment) {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "You are not allowed to view this receipt",
		})
	}
	if appointment.Payment.Status != models.PaymentCompleted &&
		appointment.Payment.Status != models.PaymentRefundPending &&
		appointment.Payment.Status != models.PaymentRefunded {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Payment is not completed",
		})
	}

	pdf, err := utils.GenerateReceiptPDF(&appointment, &appointment.Doctor)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to generate receipt",
			Error:   err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="receipt-%d.pdf"`, appointment.ID))
	return c.Send(pdf)
}

type refundRequest struct {
	AppointmentID uint `json:"appointment_id"`
}

// RefundPayment is the admin/ops-triggered refund path: a full-amount
// gateway refund for a completed payment. On gateway failure nothing is
// mutated.
func (pc *PaymentController) RefundPayment(c *fiber.Ctx) error {
	var req refundRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	var payment models.Payment
	if err := db.DB.Where("appointment_id = ?", req.AppointmentID).
		First(&payment).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "No payment found for appointment",
		})
	}
	if payment.PaymentID == "" ||
		(payment.Status != models.PaymentCompleted && payment.Status != models.PaymentRefundPending) {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "No completed gateway payment to refund",
		})
	}

	refund, err := pc.Gateway.Refund(payment.PaymentID, payment.Amount, map[string]interface{}{
		"appointment_id": req.AppointmentID,
		"reason":         "appointment cancelled",
	})
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(utils.ErrorResponse{
			Message: "Gateway refund failed",
			Error:   err.Error(),
		})
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Payment{}).Where("id = ?", payment.ID).Updates(map[string]interface{}{
			"status":    models.PaymentRefunded,
			"refund_id": refund.ID,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Appointment{}).
			Where("id = ?", payment.AppointmentID).
			Update("status", models.StatusCancelled).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Refund succeeded at gateway but recording it failed",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"refund":  refund,
	})
}

var (
	errAlreadyPaid       = errors.New("appointment is already paid")
	errSignatureMismatch = errors.New("payment verification failed")
)

// clampAmount never trusts a caller-supplied amount blindly: non-positive
// values fall back to the recorded amount, then the doctor's fee, then the
// default fee.
func clampAmount(requested int64, fallbacks ...int64) int64 {
	if requested > 0 {
		return requested
	}
	for _, fb := range fallbacks {
		if fb > 0 {
			return fb
		}
	}
	return DefaultFee
}

// fetchOwnAppointment loads the appointment and enforces ownership. When it
// returns ok=false the response has already been written.
func (pc *PaymentController) fetchOwnAppointment(c *fiber.Ctx) (*models.Appointment, bool) {
	id := c.Params("id")
	var appointment models.Appointment
	if err := db.DB.Preload("Doctor").Preload("Payment").
		First(&appointment, id).Error; err != nil {
		_ = c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Appointment not found",
			Error:   err.Error(),
		})
		return nil, false
	}
	if middleware.Role(c) != models.RoleAdmin && appointment.UserID != middleware.UserID(c) {
		_ = c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "This appointment does not belong to you",
		})
		return nil, false
	}
	return &appointment, true
}

func canSeeReceipt(c *fiber.Ctx, appointment *models.Appointment) bool {
	role := middleware.Role(c)
	if role == models.RoleAdmin {
		return true
	}
	if appointment.UserID == middleware.UserID(c) {
		return true
	}
	if role == models.RoleDoctor {
		doctor, err := doctorForUser(middleware.UserID(c))
		return err == nil && doctor.ID == appointment.DoctorID
	}
	return false
}

func paymentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errNotYourAppointment):
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: err.Error(),
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Appointment not found",
		})
	case errors.Is(err, errSignatureMismatch):
		// Tell the user verification failed; never claim the charge was
		// reversed.
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Payment verification failed",
		})
	case errors.Is(err, errAlreadyPaid),
		errors.Is(err, models.ErrAppointmentSettled),
		errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrPaymentRequired):
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Payment cannot be processed",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
		Message: "Failed to process payment",
		Error:   err.Error(),
	})
}
