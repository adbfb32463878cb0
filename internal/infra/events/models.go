package events

import "time"

// Типы доменных событий сервиса бронирования
const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
	EventStopSaleApplied  = "stop_sale.applied"
	EventStopSaleRemoved  = "stop_sale.removed"
)

// BookingEvent событие изменения бронирования
type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  int64     `json:"bookingId"`
	Reference  string    `json:"reference"`
	TourID     int64     `json:"tourId"`
	UserID     int64     `json:"userId"`
	Date       string    `json:"date"`
	StartTime  string    `json:"startTime"`
	Guests     int       `json:"guests"`
	OccurredAt time.Time `json:"occurredAt"`
}

// StopSaleEvent событие применения или снятия stop-sale
type StopSaleEvent struct {
	Type       string    `json:"type"`
	RuleID     int64     `json:"ruleId"`
	TourID     int64     `json:"tourId"`
	ActorID    int64     `json:"actorId"`
	StartDate  string    `json:"startDate"`
	EndDate    string    `json:"endDate"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurredAt"`
}
