package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tourvia/TRV-BookingService/internal/domain"
)

// Поле хэша для запросов без указания опции бронирования
const allOptionsField = "*all*"

// AvailabilityCache кэш рассчитанной месячной доступности поверх Redis
// Все варианты опций одного месяца живут в одном хэше, поэтому
// инвалидация месяца - это один DEL
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
	logger Logger
}

// NewAvailabilityCache создает кэш доступности
func NewAvailabilityCache(client *redis.Client, ttl time.Duration, logger Logger) *AvailabilityCache {
	return &AvailabilityCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// GetMonthAvailability читает закэшированную доступность месяца
// Промах кэша и любые ошибки Redis дают (nil, nil): кэш не должен
// ронять запрос доступности
func (c *AvailabilityCache) GetMonthAvailability(ctx context.Context, tourID int64, month string, optionID *string) (*domain.MonthAvailability, error) {
	raw, err := c.client.HGet(ctx, monthKey(tourID, month), optionField(optionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		c.logger.Warn("AvailabilityCache.GetMonthAvailability: redis error: %v", err)
		return nil, nil
	}

	var availability domain.MonthAvailability
	if err := json.Unmarshal([]byte(raw), &availability); err != nil {
		c.logger.Warn("AvailabilityCache.GetMonthAvailability: corrupted entry for tour %d month %s: %v", tourID, month, err)
		return nil, nil
	}

	c.logger.Debug("AvailabilityCache.GetMonthAvailability: hit for tour %d month %s", tourID, month)
	return &availability, nil
}

// SetMonthAvailability сохраняет рассчитанную доступность месяца
func (c *AvailabilityCache) SetMonthAvailability(ctx context.Context, tourID int64, month string, optionID *string, availability *domain.MonthAvailability) error {
	payload, err := json.Marshal(availability)
	if err != nil {
		return fmt.Errorf("SetMonthAvailability - marshal availability: %w", err)
	}

	key := monthKey(tourID, month)

	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, optionField(optionID), payload)
	pipe.Expire(ctx, key, c.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn("AvailabilityCache.SetMonthAvailability: redis error: %v", err)
	}

	return nil
}

// InvalidateMonth сбрасывает кэш месяца целиком, включая все варианты опций
func (c *AvailabilityCache) InvalidateMonth(ctx context.Context, tourID int64, month string) error {
	if err := c.client.Del(ctx, monthKey(tourID, month)).Err(); err != nil {
		c.logger.Warn("AvailabilityCache.InvalidateMonth: redis error: %v", err)
	}

	return nil
}

func monthKey(tourID int64, month string) string {
	return fmt.Sprintf("avail:tour:%d:%s", tourID, month)
}

func optionField(optionID *string) string {
	if optionID == nil {
		return allOptionsField
	}
	return *optionID
}
