package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/barberhub/booking-service/internal/domain"
)

// TenantRepository интерфейс репозитория тенантов
type TenantRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
}

// CalendarRepository интерфейс репозитория календарной конфигурации
type CalendarRepository interface {
	GetBusinessHours(ctx context.Context, tenantID uuid.UUID) ([]*domain.BusinessHour, error)
	UpsertBusinessHour(ctx context.Context, hour *domain.BusinessHour) error

	ListSpecialDays(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]*domain.SpecialDay, error)
	UpsertSpecialDay(ctx context.Context, day *domain.SpecialDay) error
	DeleteSpecialDay(ctx context.Context, tenantID, id uuid.UUID) error

	ListManualBlocks(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]*domain.ManualBlock, error)
	CreateManualBlock(ctx context.Context, block *domain.ManualBlock) error
	DeleteManualBlock(ctx context.Context, tenantID, id uuid.UUID) error

	GetBusinessBreaks(ctx context.Context, tenantID uuid.UUID) ([]*domain.BusinessBreak, error)
	CreateBusinessBreak(ctx context.Context, brk *domain.BusinessBreak) error
	DeleteBusinessBreak(ctx context.Context, tenantID, id uuid.UUID) error

	GetTenantSetting(ctx context.Context, tenantID uuid.UUID) (*domain.TenantSetting, error)
	UpsertTenantSetting(ctx context.Context, setting *domain.TenantSetting) error
}

// AvailabilityCache интерфейс кэша доступности. Изменение расписания
// затрагивает все даты, поэтому кэш тенанта сбрасывается целиком.
type AvailabilityCache interface {
	InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реализация TimeProvider на основе системных часов
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
