package create_booking

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

// CustomerRepository интерфейс репозитория клиентов
type CustomerRepository interface {
	GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*domain.Customer, error)
	Create(ctx context.Context, customer *domain.Customer) error
}

// CalendarRepository интерфейс репозитория календарной конфигурации
type CalendarRepository interface {
	GetTenantSetting(ctx context.Context, tenantID uuid.UUID) (*domain.TenantSetting, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByTenantWithFilter(ctx context.Context, filter domain.TenantBookingsFilter) ([]*domain.Booking, error)
	CountActiveOnDate(ctx context.Context, tenantID uuid.UUID, date time.Time) (int, error)
}

// TransactionManager интерфейс менеджера транзакций.
// Проверка конфликта и вставка выполняются одной serializable-транзакцией.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// AvailabilityCache кэш доступности; инвалидируется после записи
type AvailabilityCache interface {
	InvalidateDay(ctx context.Context, tenantID uuid.UUID, date time.Time) error
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
