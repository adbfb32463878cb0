package domain

import (
	"time"

	"github.com/tourvia/TRV-BookingService/pkg/types"
)

// TemplateSlot is one departure slot of a tour template. The template is
// the default daily schedule; per-date deviations live in the availability
// ledger.
type TemplateSlot struct {
	Time     types.TimeString
	Capacity int
}

// Tour is a bookable tour with its availability template: the weekdays it
// runs on and the slots it departs at. AvailableDays holds weekday indexes
// (0 = Sunday .. 6 = Saturday).
type Tour struct {
	ID            int64
	Name          string
	AdminIDs      []int64
	AvailableDays []int
	Slots         []TemplateSlot

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin reports whether the user manages this tour
func (t *Tour) IsAdmin(userID int64) bool {
	for _, id := range t.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// IsDayAvailable reports whether the tour runs on the given weekday
func (t *Tour) IsDayAvailable(weekday time.Weekday) bool {
	for _, d := range t.AvailableDays {
		if d == int(weekday) {
			return true
		}
	}
	return false
}

// HasSlots reports whether the template defines at least one slot
func (t *Tour) HasSlots() bool {
	return len(t.Slots) > 0
}

// HasTemplate reports whether the tour has a usable availability template.
// A tour without weekdays or without slots cannot produce a calendar.
func (t *Tour) HasTemplate() bool {
	return len(t.AvailableDays) > 0 && t.HasSlots()
}

// SlotByTime returns the template slot starting at the given time
func (t *Tour) SlotByTime(tm types.TimeString) (TemplateSlot, bool) {
	for _, s := range t.Slots {
		if s.Time == tm {
			return s, true
		}
	}
	return TemplateSlot{}, false
}
