package schedule

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

// LedgerRepository интерфейс репозитория леджера доступности
type LedgerRepository interface {
	EnsureDay(ctx context.Context, tourID int64, date time.Time, template []domain.TemplateSlot) error
	SetSlotOverride(ctx context.Context, tourID int64, date time.Time, slotTime types.TimeString, blocked bool, blockReason *string, extraCapacity int) error
}

// AvailabilityCache интерфейс кэша рассчитанной доступности
type AvailabilityCache interface {
	InvalidateMonth(ctx context.Context, tourID int64, month string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
