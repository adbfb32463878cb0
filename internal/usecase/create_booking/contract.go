package create_booking

import (
	"context"
	"time"

	"github.com/tourvia/TRV-BookingService/internal/domain"
	"github.com/tourvia/TRV-BookingService/pkg/types"
)

// TourRepository интерфейс репозитория туров
type TourRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Tour, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// LedgerRepository интерфейс репозитория леджера доступности
type LedgerRepository interface {
	EnsureDay(ctx context.Context, tourID int64, date time.Time, template []domain.TemplateSlot) error
	ReserveCapacity(ctx context.Context, tourID int64, date time.Time, slotTime types.TimeString, guests int) error
}

// StopSaleRepository интерфейс репозитория правил stop-sale
type StopSaleRepository interface {
	ListActiveByTourAndRange(ctx context.Context, tourID int64, from, to time.Time) ([]*domain.StopSaleRule, error)
}

// AvailabilityCache интерфейс кэша рассчитанной доступности
type AvailabilityCache interface {
	InvalidateMonth(ctx context.Context, tourID int64, month string) error
}

// EventPublisher интерфейс публикации доменных событий
type EventPublisher interface {
	Publish(ctx context.Context, key string, event interface{}) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
