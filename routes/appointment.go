package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prescripto/prescripto-api/controllers"
	"github.com/prescripto/prescripto-api/middleware"
	"github.com/prescripto/prescripto-api/models"
)

// SetupAppointmentRoutes configures booking, lifecycle and payment routes.
func SetupAppointmentRoutes(app *fiber.App, pc *controllers.PaymentController) {
	appointment := app.Group("/appointments", middleware.Protected())

	appointment.Post("/", middleware.RequireRole(models.RolePatient), controllers.CreateAppointment)
	appointment.Get("/user", middleware.RequireRole(models.RolePatient), controllers.GetUserAppointments)
	appointment.Get("/doctor", middleware.RequireRole(models.RoleDoctor), controllers.GetDoctorAppointments)
	appointment.Put("/status/:id", middleware.RequireRole(models.RoleDoctor, models.RoleAdmin), controllers.UpdateAppointmentStatus)
	appointment.Delete("/:id", middleware.RequireRole(models.RolePatient, models.RoleAdmin), controllers.CancelAppointment)

	appointment.Post("/:id/pay-order", middleware.RequireRole(models.RolePatient, models.RoleAdmin), pc.CreatePayOrder)
	appointment.Post("/:id/pay", middleware.RequireRole(models.RolePatient, models.RoleAdmin), pc.ProcessPayment)
	appointment.Get("/:id/payment-status", pc.GetPaymentStatus)
	appointment.Get("/:id/receipt", pc.GetReceipt)
}
