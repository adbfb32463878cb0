package cache

import (
	"context"

	"github.com/tourvia/TRV-BookingService/internal/domain"
)

// NoopCache заглушка для окружений без Redis
// Каждый запрос доступности считается заново
type NoopCache struct{}

// NewNoopCache создает кэш, который ничего не хранит
func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

func (c *NoopCache) GetMonthAvailability(_ context.Context, _ int64, _ string, _ *string) (*domain.MonthAvailability, error) {
	return nil, nil
}

func (c *NoopCache) SetMonthAvailability(_ context.Context, _ int64, _ string, _ *string, _ *domain.MonthAvailability) error {
	return nil
}

func (c *NoopCache) InvalidateMonth(_ context.Context, _ int64, _ string) error {
	return nil
}
