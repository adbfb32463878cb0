package domain

import "time"

// Time format constants
const (
	TimeFormat  = "15:04"      // HH:MM
	DateFormat  = "2006-01-02" // YYYY-MM-DD
	MonthFormat = "2006-01"    // YYYY-MM
)

// Business validation constants
const (
	MinWeekdayIndex = 0 // Sunday
	MaxWeekdayIndex = 6 // Saturday

	MaxGuestsPerBooking = 50
	MaxNotesLength      = 500
	MaxReasonLength     = 500
)

// CountedStatuses статусы бронирований, учитываемые при подсчёте занятости слотов
var CountedStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// DateOnly обнуляет время, оставляя только дату в UTC
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateKey возвращает каноничный строковый ключ даты (YYYY-MM-DD, UTC)
func DateKey(t time.Time) string {
	return t.UTC().Format(DateFormat)
}
