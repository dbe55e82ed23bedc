package models

import (
	"gorm.io/gorm"
)

type Doctor struct {
	gorm.Model
	UserID         uint   `json:"user_id" gorm:"uniqueIndex"`
	User           User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Degree         string `json:"degree"`
	Experience     int    `json:"experience"`
	About          string `json:"about"`
	Address        string `json:"address"`
	// Fee is the consultation fee in paise.
	Fee       int64  `json:"fee"`
	ImageURL  string `json:"image_url"`
	Available bool   `json:"available" gorm:"default:true"`

	WorkingDays []WorkingDay `json:"working_days,omitempty" gorm:"foreignKey:DoctorID"`
}

// WorkingDay is one entry of a doctor's weekly availability template.
// Day holds the weekday name as produced by time.Weekday.String().
type WorkingDay struct {
	gorm.Model
	DoctorID  uint       `json:"doctor_id" gorm:"index"`
	Day       string     `json:"day"`
	IsWorking bool       `json:"is_working"`
	TimeSlots []TimeSlot `json:"time_slots,omitempty" gorm:"foreignKey:WorkingDayID"`
}

// TimeSlot is a bookable slot label within a working day, e.g. "9:00 AM".
// Occupancy is never stored here; it is derived from non-cancelled
// appointments for the doctor and date.
type TimeSlot struct {
	gorm.Model
	WorkingDayID uint   `json:"working_day_id" gorm:"index"`
	Time         string `json:"time"`
}

// WorkingDayFor returns the template entry matching the given weekday name,
// or nil when the doctor has none.
func (d *Doctor) WorkingDayFor(day string) *WorkingDay {
	for i := range d.WorkingDays {
		if d.WorkingDays[i].Day == day {
			return &d.WorkingDays[i]
		}
	}
	return nil
}
