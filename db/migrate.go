package db

import (
	"fmt"
	"log"

	"github.com/prescripto/prescripto-api/models"
)

func Migrate() {
	// Initialize DB connection
	Init()

	err := DB.AutoMigrate(
		&models.User{},
		&models.Doctor{},
		&models.WorkingDay{},
		&models.TimeSlot{},
		&models.Appointment{},
		&models.Payment{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	// Storage-level backstop against double booking: at most one
	// non-cancelled appointment may hold a doctor/date/time slot.
	err = DB.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_slot_active
		ON appointments (doctor_id, date, time)
		WHERE status <> 'cancelled' AND deleted_at IS NULL
	`).Error
	if err != nil {
		log.Fatal("Failed to create slot uniqueness index: ", err)
	}

	fmt.Println("✅ Migrations applied successfully!")
}
