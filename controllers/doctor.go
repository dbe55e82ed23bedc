package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/prescripto/prescripto-api/db"
	"github.com/prescripto/prescripto-api/middleware"
	"github.com/prescripto/prescripto-api/models"
	"github.com/prescripto/prescripto-api/utils"
	"gorm.io/gorm"
)

// GetDoctors lists available doctors for the public booking page.
func GetDoctors(c *fiber.Ctx) error {
	var doctors []models.Doctor
	query := db.DB.Where("available = ?", true)
	if spec := c.Query("specialization"); spec != "" {
		query = query.Where("specialization = ?", spec)
	}
	if err := query.Find(&doctors).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch doctors",
			Error:   err.Error(),
		})
	}
	return c.JSON(doctors)
}

// GetDoctorSlots returns the open slot labels for a doctor on a date.
func GetDoctorSlots(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "date query parameter is required",
		})
	}

	var doctor models.Doctor
	if err := db.DB.Preload("WorkingDays.TimeSlots").
		First(&doctor, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Doctor not found",
			Error:   err.Error(),
		})
	}

	slots, err := utils.OpenSlots(db.DB, &doctor, date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to compute slots",
			Error:   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"date":  date,
		"slots": slots,
	})
}

type doctorProfileRequest struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Degree         string `json:"degree"`
	Experience     int    `json:"experience"`
	About          string `json:"about"`
	Address        string `json:"address"`
	Fee            int64  `json:"fee"`
	Available      *bool  `json:"available"`
}

// UpdateDoctorProfile updates the caller's doctor profile.
func UpdateDoctorProfile(c *fiber.Ctx) error {
	var req doctorProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	doctor, err := doctorForUser(middleware.UserID(c))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Doctor profile not found",
			Error:   err.Error(),
		})
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Specialization != "" {
		updates["specialization"] = req.Specialization
	}
	if req.Degree != "" {
		updates["degree"] = req.Degree
	}
	if req.Experience > 0 {
		updates["experience"] = req.Experience
	}
	if req.About != "" {
		updates["about"] = req.About
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if req.Fee > 0 {
		updates["fee"] = req.Fee
	}
	if req.Available != nil {
		updates["available"] = *req.Available
	}

	if err := db.DB.Model(doctor).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update profile",
			Error:   err.Error(),
		})
	}
	return c.JSON(doctor)
}

type workingDayRequest struct {
	Day       string   `json:"day"`
	IsWorking bool     `json:"is_working"`
	TimeSlots []string `json:"time_slots"`
}

// UpdateAvailability replaces the caller's weekly availability template.
func UpdateAvailability(c *fiber.Ctx) error {
	var req []workingDayRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	doctor, err := doctorForUser(middleware.UserID(c))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Doctor profile not found",
			Error:   err.Error(),
		})
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var dayIDs []uint
		if err := tx.Model(&models.WorkingDay{}).
			Where("doctor_id = ?", doctor.ID).Pluck("id", &dayIDs).Error; err != nil {
			return err
		}
		if len(dayIDs) > 0 {
			if err := tx.Where("working_day_id IN ?", dayIDs).
				Delete(&models.TimeSlot{}).Error; err != nil {
				return err
			}
			if err := tx.Where("doctor_id = ?", doctor.ID).
				Delete(&models.WorkingDay{}).Error; err != nil {
				return err
			}
		}

		for _, wd := range req {
			day := models.WorkingDay{
				DoctorID:  doctor.ID,
				Day:       wd.Day,
				IsWorking: wd.IsWorking,
			}
			for _, slot := range wd.TimeSlots {
				day.TimeSlots = append(day.TimeSlots, models.TimeSlot{Time: slot})
			}
			if err := tx.Create(&day).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update availability",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Availability updated",
	})
}

// UploadProfileImage stores a doctor profile picture on Cloudinary.
func UploadProfileImage(c *fiber.Ctx) error {
	doctor, err := doctorForUser(middleware.UserID(c))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Doctor profile not found",
			Error:   err.Error(),
		})
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "image file is required",
			Error:   err.Error(),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to open uploaded file",
			Error:   err.Error(),
		})
	}
	defer file.Close()

	url, err := utils.UploadDoctorImage(c.Context(), file, fmt.Sprintf("doctor-%d", doctor.ID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to upload image",
			Error:   err.Error(),
		})
	}

	if err := db.DB.Model(doctor).Update("image_url", url).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to save image URL",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"image_url": url,
	})
}
