package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss возвращается, когда ключа нет в кэше
var ErrCacheMiss = errors.New("availability cache miss")

// Cache кэш рассчитанной доступности дня в Redis.
//
// Ключ включает тенанта, услугу и дату: длительность услуги влияет на
// результат расчета, поэтому кэшировать доступность без услуги нельзя.
// Инвалидация при создании или отмене бронирования удаляет ключи всех
// услуг тенанта на дату.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New создает кэш доступности поверх клиента Redis
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get возвращает закэшированный payload доступности дня
func (c *Cache) Get(ctx context.Context, tenantID, serviceID uuid.UUID, date time.Time) ([]byte, error) {
	payload, err := c.client.Get(ctx, dayKey(tenantID, serviceID, date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("availability cache: Get: %w", err)
	}
	return payload, nil
}

// Set сохраняет payload доступности дня с TTL кэша
func (c *Cache) Set(ctx context.Context, tenantID, serviceID uuid.UUID, date time.Time, payload []byte) error {
	if err := c.client.Set(ctx, dayKey(tenantID, serviceID, date), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("availability cache: Set: %w", err)
	}
	return nil
}

// InvalidateDay удаляет закэшированную доступность всех услуг тенанта на дату
func (c *Cache) InvalidateDay(ctx context.Context, tenantID uuid.UUID, date time.Time) error {
	pattern := fmt.Sprintf("availability:%s:*:%s", tenantID, date.Format("2006-01-02"))
	return c.deleteByPattern(ctx, "InvalidateDay", pattern)
}

// InvalidateTenant удаляет всю закэшированную доступность тенанта.
// Используется при изменении расписания, которое затрагивает все даты.
func (c *Cache) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	pattern := fmt.Sprintf("availability:%s:*", tenantID)
	return c.deleteByPattern(ctx, "InvalidateTenant", pattern)
}

func (c *Cache) deleteByPattern(ctx context.Context, method, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("availability cache: %s - scan keys: %w", method, err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("availability cache: %s - delete keys: %w", method, err)
	}

	return nil
}

func dayKey(tenantID, serviceID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("availability:%s:%s:%s", tenantID, serviceID, date.Format("2006-01-02"))
}
