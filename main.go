package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/prescripto/prescripto-api/controllers"
	"github.com/prescripto/prescripto-api/cron"
	"github.com/prescripto/prescripto-api/db"
	"github.com/prescripto/prescripto-api/gateway"
	"github.com/prescripto/prescripto-api/redis"
	"github.com/prescripto/prescripto-api/routes"
)

func main() {
	app := fiber.New()
	if os.Getenv("RUN_MIGRATIONS") == "true" {
		db.Migrate()
	} else {
		db.Init()
	}
	redis.InitRedis()

	// The gateway client is built once here and injected; handlers never
	// construct their own.
	gw := gateway.NewRazorpayClient(
		os.Getenv("RAZORPAY_KEY_ID"),
		os.Getenv("RAZORPAY_KEY_SECRET"),
	)
	pc := controllers.NewPaymentController(gw)

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Hello, World!")
	})
	routes.SetupAuthRoutes(app)
	routes.SetupDoctorRoutes(app)
	routes.SetupAppointmentRoutes(app, pc)
	routes.SetupAdminRoutes(app, pc)

	cron.StartCronJobs()

	if err := app.Listen(":8000"); err != nil {
		log.Fatal(err)
	}
}
