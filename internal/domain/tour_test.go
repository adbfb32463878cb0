package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTour_IsDayAvailable(t *testing.T) {
	tour := &Tour{AvailableDays: []int{1, 3, 5}}

	assert.True(t, tour.IsDayAvailable(time.Monday))
	assert.True(t, tour.IsDayAvailable(time.Friday))
	assert.False(t, tour.IsDayAvailable(time.Sunday))
	assert.False(t, tour.IsDayAvailable(time.Saturday))
}

func TestTour_HasTemplate(t *testing.T) {
	tour := &Tour{
		AvailableDays: []int{1},
		Slots:         []TemplateSlot{{Time: "10:00", Capacity: 10}},
	}
	assert.True(t, tour.HasTemplate())

	assert.False(t, (&Tour{Slots: []TemplateSlot{{Time: "10:00", Capacity: 10}}}).HasTemplate())
	assert.False(t, (&Tour{AvailableDays: []int{1}}).HasTemplate())
}

func TestTour_IsAdmin(t *testing.T) {
	tour := &Tour{AdminIDs: []int64{50, 51}}

	assert.True(t, tour.IsAdmin(50))
	assert.False(t, tour.IsAdmin(7))
	assert.False(t, (&Tour{}).IsAdmin(50))
}

func TestTour_SlotByTime(t *testing.T) {
	tour := &Tour{
		Slots: []TemplateSlot{
			{Time: "10:00", Capacity: 10},
			{Time: "14:00", Capacity: 8},
		},
	}

	slot, ok := tour.SlotByTime("10:00")
	assert.True(t, ok)
	assert.Equal(t, 10, slot.Capacity)

	_, ok = tour.SlotByTime("12:00")
	assert.False(t, ok)
}
