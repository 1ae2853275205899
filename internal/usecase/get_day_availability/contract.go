package get_day_availability

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

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error)
}

// CalendarRepository интерфейс репозитория календарной конфигурации тенанта
type CalendarRepository interface {
	GetBusinessHours(ctx context.Context, tenantID uuid.UUID) ([]*domain.BusinessHour, error)
	GetSpecialDay(ctx context.Context, tenantID uuid.UUID, date time.Time) (*domain.SpecialDay, error)
	ListManualBlocks(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]*domain.ManualBlock, error)
	GetBusinessBreaks(ctx context.Context, tenantID uuid.UUID) ([]*domain.BusinessBreak, error)
	GetTenantSetting(ctx context.Context, tenantID uuid.UUID) (*domain.TenantSetting, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByTenantWithFilter(ctx context.Context, filter domain.TenantBookingsFilter) ([]*domain.Booking, error)
}

// AvailabilityCache кэш рассчитанной доступности дня.
// Ошибки кэша не фатальны - промах или сбой означает пересчет.
type AvailabilityCache interface {
	Get(ctx context.Context, tenantID, serviceID uuid.UUID, date time.Time) ([]byte, error)
	Set(ctx context.Context, tenantID, serviceID uuid.UUID, date time.Time, payload []byte) error
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
