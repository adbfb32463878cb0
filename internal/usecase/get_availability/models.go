package get_availability

import (
	"github.com/tourvia/TRV-BookingService/internal/domain"
)

// Request модель запроса месячной доступности тура
type Request struct {
	TourID   int64   // ID тура
	Month    string  // Месяц в формате YYYY-MM
	OptionID *string // Опция бронирования, nil - без привязки к опции
}

// Response модель ответа с доступностью по дням месяца
type Response struct {
	TourID       int64                     // ID тура
	Month        string                    // Запрошенный месяц
	Availability *domain.MonthAvailability // Открытые слоты и полностью занятые даты
}
