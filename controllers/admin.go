package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prescripto/prescripto-api/db"
	"github.com/prescripto/prescripto-api/models"
	"github.com/prescripto/prescripto-api/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// GetAllAppointments lists every appointment with doctor and payment
// details for the admin console.
func GetAllAppointments(c *fiber.Ctx) error {
	var appointments []models.Appointment
	if err := db.DB.Preload("Doctor").Preload("Payment").Preload("User").
		Order("date DESC").Find(&appointments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointments",
			Error:   err.Error(),
		})
	}
	for i := range appointments {
		appointments[i].User.Password = ""
	}
	return c.JSON(appointments)
}

// GetDashboard returns headline counts plus the latest bookings.
func GetDashboard(c *fiber.Ctx) error {
	var doctorCount, patientCount, appointmentCount int64
	db.DB.Model(&models.Doctor{}).Count(&doctorCount)
	db.DB.Model(&models.User{}).Where("role = ?", models.RolePatient).Count(&patientCount)
	db.DB.Model(&models.Appointment{}).Count(&appointmentCount)

	var latest []models.Appointment
	if err := db.DB.Preload("Doctor").Preload("Payment").
		Order("created_at DESC").Limit(5).Find(&latest).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch dashboard data",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"doctors":             doctorCount,
		"patients":            patientCount,
		"appointments":        appointmentCount,
		"latest_appointments": latest,
	})
}

type createDoctorRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Phone          string `json:"phone"`
	Specialization string `json:"specialization"`
	Degree         string `json:"degree"`
	Experience     int    `json:"experience"`
	About          string `json:"about"`
	Address        string `json:"address"`
	Fee            int64  `json:"fee"`
}

// CreateDoctor provisions a doctor account and profile in one step.
func CreateDoctor(c *fiber.Ctx) error {
	var req createDoctorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Missing required fields",
		})
	}

	var existing models.User
	if db.DB.Where("email = ?", req.Email).First(&existing).RowsAffected > 0 {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "A user with this email already exists",
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to hash password",
		})
	}

	var doctor models.Doctor
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			Name:     req.Name,
			Email:    req.Email,
			Password: string(hashed),
			Phone:    req.Phone,
			Role:     models.RoleDoctor,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		doctor = models.Doctor{
			UserID:         user.ID,
			Name:           req.Name,
			Specialization: req.Specialization,
			Degree:         req.Degree,
			Experience:     req.Experience,
			About:          req.About,
			Address:        req.Address,
			Fee:            req.Fee,
			Available:      true,
		}
		return tx.Create(&doctor).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create doctor",
			Error:   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(doctor)
}
