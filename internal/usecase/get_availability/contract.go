package get_availability

import (
	"context"
	"time"

	"github.com/tourvia/TRV-BookingService/internal/domain"
)

// TourRepository интерфейс репозитория туров
type TourRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Tour, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// SumGuestsByDateRange агрегирует гостей активных бронирований по дате и слоту
	SumGuestsByDateRange(ctx context.Context, tourID int64, from, to time.Time) (map[string]map[string]int, error)
}

// LedgerRepository интерфейс репозитория леджера доступности
type LedgerRepository interface {
	GetByTourAndDateRange(ctx context.Context, tourID int64, from, to time.Time) ([]*domain.AvailabilityDay, error)
}

// StopSaleRepository интерфейс репозитория правил stop-sale
type StopSaleRepository interface {
	ListActiveByTourAndRange(ctx context.Context, tourID int64, from, to time.Time) ([]*domain.StopSaleRule, error)
}

// AvailabilityCache интерфейс кэша рассчитанной доступности
type AvailabilityCache interface {
	GetMonthAvailability(ctx context.Context, tourID int64, month string, optionID *string) (*domain.MonthAvailability, error)
	SetMonthAvailability(ctx context.Context, tourID int64, month string, optionID *string, availability *domain.MonthAvailability) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
