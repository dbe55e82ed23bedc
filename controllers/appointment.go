package controllers

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/prescripto/prescripto-api/db"
	"github.com/prescripto/prescripto-api/middleware"
	"github.com/prescripto/prescripto-api/models"
	"github.com/prescripto/prescripto-api/redis"
	"github.com/prescripto/prescripto-api/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookAppointmentRequest is the patient-facing booking payload. Patient
// fields are snapshotted onto the appointment as-is.
type BookAppointmentRequest struct {
	DoctorID        uint   `json:"doctor_id"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	PatientName     string `json:"patient_name"`
	PatientEmail    string `json:"patient_email"`
	PatientPhone    string `json:"patient_phone"`
	Reason          string `json:"reason"`
	Notes           string `json:"notes"`
	RequireApproval bool   `json:"require_approval"`
}

// CreateAppointment books a slot for the authenticated patient. The
// availability check and the insert run under a per-slot Redis lock, with a
// partial unique index on the appointments table as the storage-level
// backstop against double booking.
func CreateAppointment(c *fiber.Ctx) error {
	var req BookAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	if req.DoctorID == 0 || req.Date == "" || req.Time == "" || req.PatientName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Missing required fields",
		})
	}

	var doctor models.Doctor
	if err := db.DB.First(&doctor, req.DoctorID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Doctor not found",
			Error:   err.Error(),
		})
	}

	appointment := models.Appointment{
		DoctorID:     req.DoctorID,
		UserID:       middleware.UserID(c),
		PatientName:  req.PatientName,
		PatientEmail: req.PatientEmail,
		PatientPhone: req.PatientPhone,
		Reason:       req.Reason,
		Notes:        req.Notes,
		Date:         req.Date,
		Time:         req.Time,
		Status:       models.StatusBooked,
	}
	if req.RequireApproval {
		// Approve-first flow: the doctor signs off before payment.
		appointment.Status = models.StatusPending
	}

	err := redis.WithSlotLock(c.Context(), req.DoctorID, req.Date, req.Time, func(ctx context.Context) error {
		return db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := utils.CheckAvailability(tx, req.DoctorID, req.Date, req.Time); err != nil {
				return err
			}

			if err := tx.Create(&appointment).Error; err != nil {
				return err
			}

			// The payment record is created up front so payment state
			// always has exactly one owner.
			payment := models.Payment{
				AppointmentID: appointment.ID,
				Status:        models.PaymentPending,
				Amount:        doctor.Fee,
			}
			if err := tx.Create(&payment).Error; err != nil {
				return err
			}
			appointment.Payment = payment
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, redis.ErrLockNotAcquired) {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Slot is being booked by someone else, please retry",
			})
		}
		return availabilityError(c, err)
	}

	utils.SendEmailAsync(appointment.PatientEmail, "Appointment Booked", fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your appointment has been booked.</p>
		<ul>
			<li><strong>Doctor:</strong> %s</li>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time:</strong> %s</li>
			<li><strong>Status:</strong> %s</li>
		</ul>
		<p>Best regards,<br>Your Appointment Team</p>
	`, appointment.PatientName, doctor.Name, appointment.Date, appointment.Time, appointment.Status))

	return c.Status(fiber.StatusCreated).JSON(appointment)
}

// GetUserAppointments lists the caller's own appointments with doctor
// details inlined.
func GetUserAppointments(c *fiber.Ctx) error {
	var appointments []models.Appointment
	if err := db.DB.Preload("Doctor").Preload("Payment").
		Where("user_id = ?", middleware.UserID(c)).
		Order("date DESC").Find(&appointments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointments",
			Error:   err.Error(),
		})
	}
	return c.JSON(appointments)
}

// GetDoctorAppointments lists appointments assigned to the caller's doctor
// profile.
func GetDoctorAppointments(c *fiber.Ctx) error {
	doctor, err := doctorForUser(middleware.UserID(c))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Doctor profile not found",
			Error:   err.Error(),
		})
	}

	var appointments []models.Appointment
	if err := db.DB.Preload("Payment").
		Where("doctor_id = ?", doctor.ID).
		Order("date DESC").Find(&appointments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointments",
			Error:   err.Error(),
		})
	}
	return c.JSON(appointments)
}

type statusUpdateRequest struct {
	Status models.AppointmentStatus `json:"status"`
}

// doctorSettableStatuses is the subset of statuses the doctor-facing
// endpoint may request.
var doctorSettableStatuses = map[models.AppointmentStatus]bool{
	models.StatusPending:   true,
	models.StatusApproved:  true,
	models.StatusConfirmed: true,
	models.StatusCompleted: true,
	models.StatusCancelled: true,
}

// UpdateAppointmentStatus lets the assigned doctor (or an admin) move an
// appointment through its lifecycle. Cancelling a paid appointment flags the
// payment refund_pending inside the same transaction.
func UpdateAppointmentStatus(c *fiber.Ctx) error {
	var req statusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if !doctorSettableStatuses[req.Status] {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: fmt.Sprintf("Status %q cannot be set here", req.Status),
		})
	}

	id := c.Params("id")
	var appointment models.Appointment
	refundFlagged := false

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&appointment, id).Error; err != nil {
			return err
		}
		if err := tx.Where("appointment_id = ?", appointment.ID).
			First(&appointment.Payment).Error; err != nil {
			return err
		}

		if middleware.Role(c) != models.RoleAdmin {
			doctor, err := doctorForUser(middleware.UserID(c))
			if err != nil || doctor.ID != appointment.DoctorID {
				return errNotAssignedDoctor
			}
		}

		wasPaid := appointment.Payment.Status == models.PaymentCompleted
		if err := appointment.UpdateStatus(tx, req.Status); err != nil {
			return err
		}
		refundFlagged = req.Status == models.StatusCancelled && wasPaid
		return nil
	})
	if err != nil {
		return lifecycleError(c, err)
	}

	message := fmt.Sprintf("Appointment %s", appointment.Status)
	if refundFlagged {
		message = "Appointment cancelled. The refund will be processed manually within 24-48 hours."
	}
	notifyStatusChange(&appointment)

	return c.JSON(fiber.Map{
		"success":        true,
		"message":        message,
		"status":         appointment.Status,
		"payment_status": appointment.Payment.Status,
	})
}

// CancelAppointment lets the booking patient cancel their own appointment.
func CancelAppointment(c *fiber.Ctx) error {
	id := c.Params("id")
	var appointment models.Appointment
	refundFlagged := false

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&appointment, id).Error; err != nil {
			return err
		}
		if err := tx.Where("appointment_id = ?", appointment.ID).
			First(&appointment.Payment).Error; err != nil {
			return err
		}

		if middleware.Role(c) != models.RoleAdmin && appointment.UserID != middleware.UserID(c) {
			return errNotYourAppointment
		}

		wasPaid := appointment.Payment.Status == models.PaymentCompleted
		if err := appointment.UpdateStatus(tx, models.StatusCancelled); err != nil {
			return err
		}
		refundFlagged = wasPaid
		return nil
	})
	if err != nil {
		return lifecycleError(c, err)
	}

	message := "Appointment cancelled"
	if refundFlagged {
		message = "Appointment cancelled. The refund will be processed manually within 24-48 hours."
	}
	notifyStatusChange(&appointment)

	return c.JSON(fiber.Map{
		"success":        true,
		"message":        message,
		"status":         appointment.Status,
		"payment_status": appointment.Payment.Status,
	})
}

var (
	errNotAssignedDoctor  = errors.New("only the assigned doctor may change this appointment")
	errNotYourAppointment = errors.New("this appointment does not belong to you")
)

func doctorForUser(userID uint) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := db.DB.Where("user_id = ?", userID).First(&doctor).Error; err != nil {
		return nil, err
	}
	return &doctor, nil
}

func availabilityError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, utils.ErrDoctorNotFound):
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Doctor not found",
		})
	case errors.Is(err, utils.ErrSlotTaken):
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Slot is already booked",
		})
	case errors.Is(err, utils.ErrSlotNotOffered),
		errors.Is(err, utils.ErrDoctorOffDuty),
		errors.Is(err, utils.ErrOutsideWindow),
		errors.Is(err, utils.ErrInvalidDate):
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Slot is not bookable",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
		Message: "Failed to create appointment",
		Error:   err.Error(),
	})
}

func lifecycleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errNotAssignedDoctor), errors.Is(err, errNotYourAppointment):
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: err.Error(),
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Appointment not found",
		})
	case errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrAppointmentSettled),
		errors.Is(err, models.ErrPaymentRequired):
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid status change",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
		Message: "Failed to update appointment",
		Error:   err.Error(),
	})
}

func notifyStatusChange(appointment *models.Appointment) {
	if appointment.PatientEmail == "" {
		return
	}
	utils.SendEmailAsync(appointment.PatientEmail,
		fmt.Sprintf("Appointment %s", appointment.Status),
		fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your appointment on %s at %s is now <strong>%s</strong>.</p>
		<p>Best regards,<br>Your Appointment Team</p>
	`, appointment.PatientName, appointment.Date, appointment.Time, appointment.Status))
}
