package domain

import "time"

// StopSaleRule is an administrative blackout window blocking sales for a
// tour over an inclusive date range, regardless of remaining capacity.
// An empty OptionIDs set means the rule applies to every booking option.
// The (TourID, StartDate, EndDate, OptionIDs) combination is unique.
type StopSaleRule struct {
	ID        int64
	TourID    int64
	OptionIDs []string
	StartDate time.Time
	EndDate   time.Time
	Reason    string
	CreatedBy int64
	CreatedAt time.Time
}

// AppliesToAllOptions returns true if the rule is not scoped to options
func (r *StopSaleRule) AppliesToAllOptions() bool {
	return len(r.OptionIDs) == 0
}

// Matches returns true if the rule blocks sales for the given date and
// option. A nil optionID means the query is not option-scoped; such a query
// is blocked only by rules that apply to all options.
func (r *StopSaleRule) Matches(date time.Time, optionID *string) bool {
	day := DateOnly(date)
	if day.Before(DateOnly(r.StartDate)) || day.After(DateOnly(r.EndDate)) {
		return false
	}

	if r.AppliesToAllOptions() {
		return true
	}
	if optionID == nil {
		return false
	}

	for _, id := range r.OptionIDs {
		if id == *optionID {
			return true
		}
	}
	return false
}

// StopSaleLogStatus status recorded in a stop-sale audit entry
type StopSaleLogStatus string

const (
	StopSaleActive  StopSaleLogStatus = "active"
	StopSaleRemoved StopSaleLogStatus = "removed"
)

// StopSaleLogEntry is an append-only audit record of a stop-sale rule
// transition: who applied or removed the rule and when.
type StopSaleLogEntry struct {
	ID        int64
	RuleID    int64
	TourID    int64
	ActorID   int64
	Status    StopSaleLogStatus
	StartDate time.Time
	EndDate   time.Time
	Reason    string
	CreatedAt time.Time
}
