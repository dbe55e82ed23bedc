package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/prescripto/prescripto-api/models"
)

func TestSlotDay(t *testing.T) {
	day, err := SlotDay("2024-06-10")
	if err != nil {
		t.Fatalf("SlotDay: %v", err)
	}
	if day != "Monday" {
		t.Errorf("2024-06-10 is a Monday, got %s", day)
	}

	if _, err := SlotDay("10-06-2024"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate for wrong layout, got %v", err)
	}
}

func TestWithinBookingWindow(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		date string
		want bool
	}{
		{"2024-06-01", true},
		{"2024-06-10", true},
		{"2024-07-01", true},  // exactly 30 days out
		{"2024-07-02", false}, // past the window
		{"2024-05-31", false}, // yesterday
		{"not-a-date", false},
	}
	for _, tc := range cases {
		if got := WithinBookingWindow(tc.date, now); got != tc.want {
			t.Errorf("WithinBookingWindow(%q) = %v, want %v", tc.date, got, tc.want)
		}
	}
}

func TestTemplateAllows(t *testing.T) {
	wd := &models.WorkingDay{
		Day:       "Monday",
		IsWorking: true,
		TimeSlots: []models.TimeSlot{
			{Time: "9:00 AM"},
			{Time: "9:30 AM"},
		},
	}

	if !TemplateAllows(wd, "9:00 AM") {
		t.Error("offered slot should be allowed")
	}
	if TemplateAllows(wd, "10:00 AM") {
		t.Error("slot absent from template should not be allowed")
	}

	wd.IsWorking = false
	if TemplateAllows(wd, "9:00 AM") {
		t.Error("non-working day should not allow any slot")
	}
	if TemplateAllows(nil, "9:00 AM") {
		t.Error("missing template entry should not allow any slot")
	}
}

func TestSlotTaken(t *testing.T) {
	appointments := []models.Appointment{
		{Time: "9:00 AM", Status: models.StatusBooked},
		{Time: "9:30 AM", Status: models.StatusCancelled},
	}

	if !SlotTaken(appointments, "9:00 AM") {
		t.Error("booked slot should be taken")
	}
	if SlotTaken(appointments, "9:30 AM") {
		t.Error("cancelled appointment must not hold its slot")
	}
	if SlotTaken(appointments, "10:00 AM") {
		t.Error("free slot should not be taken")
	}
}

func TestSlotTimeOnDate(t *testing.T) {
	got, err := SlotTimeOnDate("2024-06-10", "9:00 AM")
	if err != nil {
		t.Fatalf("SlotTimeOnDate: %v", err)
	}
	want := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := SlotTimeOnDate("2024-06-10", "25:00"); err == nil {
		t.Error("expected error for malformed slot label")
	}
}
