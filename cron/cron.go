package cron

import (
	"fmt"
	"log"
	"time"

	"github.com/prescripto/prescripto-api/db"
	"github.com/prescripto/prescripto-api/models"
	"github.com/prescripto/prescripto-api/utils"
	"github.com/robfig/cron/v3"
)

// StartCronJobs initializes and starts the cron scheduler for appointment reminders
func StartCronJobs() {
	c := cron.New()
	// Run every minute to check for appointments in the next hour
	_, err := c.AddFunc("* * * * *", sendAppointmentReminders)
	if err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}
	c.Start()
	log.Println("Cron job scheduler started for appointment reminders")
}

// sendAppointmentReminders checks for confirmed appointments starting in
// about an hour and emails the patient.
func sendAppointmentReminders() {
	now := time.Now()
	today := now.Format(utils.DateLayout)

	var appointments []models.Appointment
	err := db.DB.Preload("Doctor").
		Where("status = ? AND date = ?", models.StatusConfirmed, today).
		Find(&appointments).Error
	if err != nil {
		log.Printf("Error fetching appointments for reminders: %v", err)
		return
	}

	for _, appointment := range appointments {
		slotTime, err := utils.SlotTimeOnDate(appointment.Date, appointment.Time)
		if err != nil {
			log.Printf("Skipping reminder for appointment %d: %v", appointment.ID, err)
			continue
		}

		wallClock := time.Date(slotTime.Year(), slotTime.Month(), slotTime.Day(),
			slotTime.Hour(), slotTime.Minute(), 0, 0, now.Location())
		lead := wallClock.Sub(now)
		if lead < 55*time.Minute || lead > 65*time.Minute {
			continue
		}

		if err := sendReminderEmail(&appointment); err != nil {
			log.Printf("Failed to send reminder for appointment %d: %v", appointment.ID, err)
			continue
		}
		log.Printf("Sent reminder for appointment %d to %s", appointment.ID, appointment.PatientEmail)
	}
}

// sendReminderEmail constructs and sends the reminder email
func sendReminderEmail(appointment *models.Appointment) error {
	subject := "Reminder: Upcoming Appointment"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder for your upcoming appointment scheduled in one hour.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Doctor:</strong> %s</li>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time:</strong> %s</li>
		</ul>
		<p>Please arrive on time. If you need to reschedule or cancel, contact us as soon as possible.</p>
		<p>Best regards,</p>
		<p>Your Appointment Team</p>
	`, appointment.PatientName, appointment.Doctor.Name, appointment.Date, appointment.Time)

	return utils.SendEmail(appointment.PatientEmail, subject, body)
}
