package domain

import (
	"time"

	"github.com/tourvia/TRV-BookingService/pkg/types"
)

// LedgerSlot is one slot of a materialized availability day.
// Capacity is copied from the template when the row is created; Booked is
// maintained by booking mutations; Blocked and ExtraCapacity are admin
// overrides applied on top of the template.
type LedgerSlot struct {
	Time          types.TimeString
	Capacity      int
	Booked        int
	Blocked       bool
	BlockReason   *string
	ExtraCapacity int
}

// EffectiveCapacity returns the capacity including admin extra capacity
func (s *LedgerSlot) EffectiveCapacity() int {
	return s.Capacity + s.ExtraCapacity
}

// Remaining returns the raw remaining capacity of the slot.
// A blocked slot has no remaining capacity. The value may be negative when
// the ledger is inconsistent; callers clamp and report the anomaly.
func (s *LedgerSlot) Remaining() int {
	if s.Blocked {
		return 0
	}
	return s.EffectiveCapacity() - s.Booked
}

// AvailabilityDay is the persisted per-tour, per-date availability ledger
// entry. The (TourID, Date) pair is unique. Rows are created lazily on the
// first booking mutation for a date, or explicitly by admin capacity edits,
// and take precedence over the derived template+aggregate calculation.
type AvailabilityDay struct {
	ID       int64
	TourID   int64
	Date     time.Time
	StopSale bool
	Slots    []LedgerSlot

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SlotByTime returns the ledger slot starting at the given time
func (d *AvailabilityDay) SlotByTime(tm types.TimeString) (LedgerSlot, bool) {
	for _, s := range d.Slots {
		if s.Time == tm {
			return s, true
		}
	}
	return LedgerSlot{}, false
}
