package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/prescripto/prescripto-api/models"
	"gorm.io/gorm"
)

const (
	// DateLayout is the exact format of an appointment date string.
	DateLayout = "2006-01-02"
	// MaxAdvanceDays is how far ahead a slot may be booked.
	MaxAdvanceDays = 30
)

var (
	ErrDoctorNotFound = errors.New("doctor not found")
	ErrDoctorOffDuty  = errors.New("doctor is not available")
	ErrOutsideWindow  = errors.New("date is outside the booking window")
	ErrSlotNotOffered = errors.New("slot is not in the doctor's schedule")
	ErrSlotTaken      = errors.New("slot is already booked")
	ErrInvalidDate    = errors.New("invalid date format")
)

// SlotDay resolves a date string to its weekday name ("Monday", ...).
func SlotDay(date string) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return t.Weekday().String(), nil
}

// SlotTimeOnDate combines a date string and a slot label like "9:00 AM"
// into a concrete instant.
func SlotTimeOnDate(date, slot string) (time.Time, error) {
	t, err := time.Parse(DateLayout+" 3:04 PM", date+" "+slot)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid slot label %q: %w", slot, err)
	}
	return t, nil
}

// WithinBookingWindow reports whether date falls between today and
// MaxAdvanceDays from now, inclusive.
func WithinBookingWindow(date string, now time.Time) bool {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !t.Before(today) && !t.After(today.AddDate(0, 0, MaxAdvanceDays))
}

// TemplateAllows reports whether the working-day entry offers the slot label.
func TemplateAllows(wd *models.WorkingDay, slot string) bool {
	if wd == nil || !wd.IsWorking {
		return false
	}
	for _, ts := range wd.TimeSlots {
		if ts.Time == slot {
			return true
		}
	}
	return false
}

// SlotTaken reports whether any non-cancelled appointment in the list
// occupies the slot label.
func SlotTaken(appointments []models.Appointment, slot string) bool {
	for _, a := range appointments {
		if a.Status != models.StatusCancelled && a.Time == slot {
			return true
		}
	}
	return false
}

// CheckAvailability decides whether {doctorID, date, slot} is bookable: the
// doctor's weekly template must offer the slot and no non-cancelled
// appointment may already hold it. The appointment scan is authoritative;
// the template only defines candidate slots. Run it on the transaction that
// creates the appointment so the re-check sees pending writes.
func CheckAvailability(tx *gorm.DB, doctorID uint, date, slot string) error {
	if !WithinBookingWindow(date, time.Now()) {
		return ErrOutsideWindow
	}

	day, err := SlotDay(date)
	if err != nil {
		return err
	}

	var doctor models.Doctor
	if err := tx.Preload("WorkingDays.TimeSlots").First(&doctor, doctorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDoctorNotFound
		}
		return err
	}
	if !doctor.Available {
		return ErrDoctorOffDuty
	}
	if !TemplateAllows(doctor.WorkingDayFor(day), slot) {
		return ErrSlotNotOffered
	}

	var existing []models.Appointment
	if err := tx.Where("doctor_id = ? AND date = ? AND status <> ?",
		doctorID, date, models.StatusCancelled).Find(&existing).Error; err != nil {
		return err
	}
	if SlotTaken(existing, slot) {
		return ErrSlotTaken
	}
	return nil
}

// OpenSlots returns the doctor's slot labels for a date with every slot held
// by a non-cancelled appointment filtered out.
func OpenSlots(tx *gorm.DB, doctor *models.Doctor, date string) ([]string, error) {
	day, err := SlotDay(date)
	if err != nil {
		return nil, err
	}
	wd := doctor.WorkingDayFor(day)
	if wd == nil || !wd.IsWorking {
		return []string{}, nil
	}

	var existing []models.Appointment
	if err := tx.Where("doctor_id = ? AND date = ? AND status <> ?",
		doctor.ID, date, models.StatusCancelled).Find(&existing).Error; err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(existing))
	for _, a := range existing {
		taken[a.Time] = true
	}

	open := make([]string, 0, len(wd.TimeSlots))
	for _, ts := range wd.TimeSlots {
		if !taken[ts.Time] {
			open = append(open, ts.Time)
		}
	}
	return open, nil
}
