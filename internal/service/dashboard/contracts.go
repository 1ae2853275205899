package dashboard

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

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CountActiveOnDate(ctx context.Context, tenantID uuid.UUID, date time.Time) (int, error)
	CountByStatusSince(ctx context.Context, tenantID uuid.UUID, status domain.BookingStatus, since time.Time) (int, error)
	TotalRevenueSince(ctx context.Context, tenantID uuid.UUID, since time.Time) (float64, error)
}

// CustomerRepository интерфейс репозитория клиентов
type CustomerRepository interface {
	CountByTenant(ctx context.Context, tenantID uuid.UUID) (int, error)
}

// CalendarRepository интерфейс репозитория календарной конфигурации
type CalendarRepository interface {
	GetBusinessHours(ctx context.Context, tenantID uuid.UUID) ([]*domain.BusinessHour, error)
	GetSpecialDay(ctx context.Context, tenantID uuid.UUID, date time.Time) (*domain.SpecialDay, error)
	ListManualBlocks(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]*domain.ManualBlock, error)
	GetTenantSetting(ctx context.Context, tenantID uuid.UUID) (*domain.TenantSetting, error)
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
