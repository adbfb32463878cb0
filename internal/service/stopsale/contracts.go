package stopsale

import (
	"context"
	"time"

	"github.com/tourvia/TRV-BookingService/internal/domain"
)

// StopSaleRepository интерфейс репозитория правил stop-sale
type StopSaleRepository interface {
	Create(ctx context.Context, rule *domain.StopSaleRule) (*domain.StopSaleRule, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.StopSaleRule, error)
	ListByTour(ctx context.Context, tourID int64) ([]*domain.StopSaleRule, error)
	AppendLog(ctx context.Context, entry *domain.StopSaleLogEntry) error
	ListLogByTour(ctx context.Context, tourID int64) ([]*domain.StopSaleLogEntry, error)
}

// TourRepository интерфейс репозитория туров
type TourRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Tour, error)
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
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
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
