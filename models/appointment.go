package models

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusBooked    AppointmentStatus = "booked"
	StatusApproved  AppointmentStatus = "approved"
	StatusUnpaid    AppointmentStatus = "unpaid"
	StatusPaid      AppointmentStatus = "paid"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

var (
	ErrInvalidStatus      = errors.New("invalid appointment status")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrPaymentRequired    = errors.New("payment must be completed before confirmation")
	ErrAppointmentSettled = errors.New("appointment is already completed or cancelled")
)

// ValidStatus reports whether s is one of the known appointment statuses.
func ValidStatus(s AppointmentStatus) bool {
	switch s {
	case StatusPending, StatusBooked, StatusApproved, StatusUnpaid,
		StatusPaid, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Appointment struct {
	gorm.Model
	DoctorID uint   `json:"doctor_id" gorm:"index;not null"`
	Doctor   Doctor `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	UserID   uint   `json:"user_id" gorm:"index;not null"`
	User     User   `json:"user,omitempty" gorm:"foreignKey:UserID"`

	// Patient details are snapshotted at booking time so later profile
	// edits do not alter historical appointments.
	PatientName  string `json:"patient_name"`
	PatientEmail string `json:"patient_email"`
	PatientPhone string `json:"patient_phone"`
	Reason       string `json:"reason"`
	Notes        string `json:"notes"`

	// Date is a plain "2006-01-02" string and Time a slot label such as
	// "9:00 AM"; both are matched exactly against the doctor's template.
	Date string `json:"date" gorm:"index;not null"`
	Time string `json:"time" gorm:"not null"`

	Status AppointmentStatus `json:"status" gorm:"index;default:'booked'"`

	Payment Payment `json:"payment,omitempty" gorm:"foreignKey:AppointmentID"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = StatusBooked
	}
	return nil
}

// CanTransition reports whether moving from the current status to newStatus
// is legal, ignoring payment preconditions (see UpdateStatus).
func (a *Appointment) CanTransition(newStatus AppointmentStatus) bool {
	switch a.Status {
	case StatusPending:
		return newStatus == StatusApproved || newStatus == StatusCancelled
	case StatusBooked, StatusUnpaid:
		return newStatus == StatusConfirmed || newStatus == StatusCancelled
	case StatusApproved, StatusPaid:
		return newStatus == StatusConfirmed || newStatus == StatusCancelled
	case StatusConfirmed:
		return newStatus == StatusCompleted || newStatus == StatusCancelled
	case StatusCompleted, StatusCancelled:
		return false
	}
	return false
}

// PlanTransition validates a status transition and computes the payment
// status the appointment must end up with. Cancelling a paid appointment
// always yields refund_pending; a cancelled appointment must never keep a
// completed payment, since refund_pending is what the ops refund workflow
// scans for.
func (a *Appointment) PlanTransition(newStatus AppointmentStatus) (PaymentStatus, error) {
	if !ValidStatus(newStatus) {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, newStatus)
	}
	if a.Status == StatusCompleted || a.Status == StatusCancelled {
		return "", fmt.Errorf("%w: no transitions from %s", ErrAppointmentSettled, a.Status)
	}
	if !a.CanTransition(newStatus) {
		return "", fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, newStatus)
	}

	if newStatus == StatusConfirmed &&
		a.Payment.Status != PaymentCompleted && a.Payment.Method != MethodOffline {
		return "", ErrPaymentRequired
	}

	if newStatus == StatusCancelled && a.Payment.Status == PaymentCompleted {
		return PaymentRefundPending, nil
	}
	return a.Payment.Status, nil
}

// UpdateStatus validates and applies a status transition, persisting the
// appointment and, where the transition demands it, its payment record in
// the caller's transaction.
func (a *Appointment) UpdateStatus(tx *gorm.DB, newStatus AppointmentStatus) error {
	paymentStatus, err := a.PlanTransition(newStatus)
	if err != nil {
		return err
	}

	if paymentStatus != a.Payment.Status {
		a.Payment.Status = paymentStatus
		if err := tx.Model(&Payment{}).Where("appointment_id = ?", a.ID).
			Update("status", paymentStatus).Error; err != nil {
			return err
		}
	}

	a.Status = newStatus
	return tx.Model(&Appointment{}).Where("id = ?", a.ID).
		Update("status", newStatus).Error
}
