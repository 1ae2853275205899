package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tenant единичный бизнес-аккаунт (например, один барбершоп) с изолированными данными
type Tenant struct {
	ID        uuid.UUID
	Name      string
	Subdomain string
	IsActive  bool
	CreatedAt time.Time
}

// Service услуга тенанта; длительность определяет ширину слота и конфликтов
type Service struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	Name            string
	Price           float64
	DurationMinutes int
	IsActive        bool
	CreatedAt       time.Time
}

// IsBookable returns true if the service can be offered to customers
func (s *Service) IsBookable(tenantID uuid.UUID) bool {
	return s.IsActive && s.TenantID == tenantID
}

// Customer клиент тенанта; email уникален в пределах тенанта без учета регистра
type Customer struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
}
