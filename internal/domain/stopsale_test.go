package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tourvia/TRV-BookingService/pkg/ptr"
)

func TestStopSaleRule_Matches(t *testing.T) {
	rule := &StopSaleRule{
		TourID:    1,
		StartDate: time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{name: "day before range", date: time.Date(2026, 7, 9, 0, 0, 0, 0, time.UTC), want: false},
		{name: "first day inclusive", date: time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC), want: true},
		{name: "middle of range", date: time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC), want: true},
		{name: "last day inclusive", date: time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC), want: true},
		{name: "day after range", date: time.Date(2026, 7, 21, 0, 0, 0, 0, time.UTC), want: false},
		{name: "time of day is ignored", date: time.Date(2026, 7, 20, 23, 59, 0, 0, time.UTC), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rule.Matches(tt.date, nil))
		})
	}
}

func TestStopSaleRule_MatchesOptionScope(t *testing.T) {
	day := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)

	allOptions := &StopSaleRule{
		StartDate: day,
		EndDate:   day,
	}
	scoped := &StopSaleRule{
		OptionIDs: []string{"premium", "vip"},
		StartDate: day,
		EndDate:   day,
	}

	assert.True(t, allOptions.AppliesToAllOptions())
	assert.False(t, scoped.AppliesToAllOptions())

	// Правило на весь тур блокирует любые запросы
	assert.True(t, allOptions.Matches(day, nil))
	assert.True(t, allOptions.Matches(day, ptr.Ptr("standard")))

	// Скоупленное правило блокирует только свои опции
	assert.True(t, scoped.Matches(day, ptr.Ptr("premium")))
	assert.True(t, scoped.Matches(day, ptr.Ptr("vip")))
	assert.False(t, scoped.Matches(day, ptr.Ptr("standard")))

	// Запрос без опции не блокируется скоупленным правилом
	assert.False(t, scoped.Matches(day, nil))
}
