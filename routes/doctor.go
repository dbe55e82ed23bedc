package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prescripto/prescripto-api/controllers"
	"github.com/prescripto/prescripto-api/middleware"
	"github.com/prescripto/prescripto-api/models"
)

// SetupDoctorRoutes configures public doctor discovery and the
// doctor-facing profile routes.
func SetupDoctorRoutes(app *fiber.App) {
	doctor := app.Group("/doctors")

	doctor.Get("/", controllers.GetDoctors)
	doctor.Get("/:id/slots", controllers.GetDoctorSlots)

	doctor.Put("/profile", middleware.Protected(), middleware.RequireRole(models.RoleDoctor), controllers.UpdateDoctorProfile)
	doctor.Put("/availability", middleware.Protected(), middleware.RequireRole(models.RoleDoctor), controllers.UpdateAvailability)
	doctor.Post("/profile/image", middleware.Protected(), middleware.RequireRole(models.RoleDoctor), controllers.UploadProfileImage)
}
