package domain

import (
	"time"

	"github.com/tourvia/TRV-BookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// Booking represents a tour reservation for a specific date and slot time.
// Bookings are never deleted; cancellation is a status transition so the
// history stays reconstructable.
type Booking struct {
	ID        int64
	Reference string // user-facing UUID
	TourID    int64
	UserID    int64

	// Date calendar date of the tour, stored at UTC midnight
	Date      time.Time
	StartTime types.TimeString

	Adults   int
	Children int
	Infants  int
	// Guests total party size counted against slot capacity
	Guests int

	Status BookingStatus
	Notes  *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking counts against slot capacity
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// TourBookingsFilter фильтр для получения бронирований тура
type TourBookingsFilter struct {
	TourID           int64          // Обязательный параметр
	StartDate        *time.Time     // Начало периода (опционально)
	EndDate          *time.Time     // Конец периода (опционально)
	Status           *BookingStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool           // Включать ли отменённые бронирования
}
