package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prescripto/prescripto-api/controllers"
	"github.com/prescripto/prescripto-api/middleware"
	"github.com/prescripto/prescripto-api/models"
)

// SetupAdminRoutes configures the admin console and ops endpoints.
func SetupAdminRoutes(app *fiber.App, pc *controllers.PaymentController) {
	admin := app.Group("/admin", middleware.Protected(), middleware.RequireRole(models.RoleAdmin))

	admin.Get("/appointments", controllers.GetAllAppointments)
	admin.Get("/dashboard", controllers.GetDashboard)
	admin.Post("/doctors", controllers.CreateDoctor)

	app.Post("/payments/refund", middleware.Protected(), middleware.RequireRole(models.RoleAdmin), pc.RefundPayment)
}
