package domain

import "github.com/tourvia/TRV-BookingService/pkg/types"

// OpenSlot represents a still-bookable time slot on a specific date
type OpenSlot struct {
	Time      types.TimeString
	Remaining int
	Capacity  int
}

// IsFullyAvailable returns true if no capacity has been consumed
func (s *OpenSlot) IsFullyAvailable() bool {
	return s.Remaining == s.Capacity
}

// OccupancyRate returns the occupancy rate as a percentage (0-100)
func (s *OpenSlot) OccupancyRate() float64 {
	if s.Capacity == 0 {
		return 0
	}
	occupied := s.Capacity - s.Remaining
	return float64(occupied) / float64(s.Capacity) * 100
}

// MonthAvailability is the resolved availability of a tour for one calendar
// month: per-date open slots in template order, plus the dates whose every
// slot is consumed or stop-sold. Dates the tour does not run on appear in
// neither collection.
type MonthAvailability struct {
	AvailableSlotsByDate map[string][]OpenSlot `json:"availableSlotsByDate"`
	FullyBookedDates     []string              `json:"fullyBookedDates"`
}

// NewMonthAvailability creates an empty month availability result
func NewMonthAvailability() *MonthAvailability {
	return &MonthAvailability{
		AvailableSlotsByDate: make(map[string][]OpenSlot),
		FullyBookedDates:     make([]string, 0),
	}
}
