package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/barberhub/booking-service/internal/domain"
	"github.com/barberhub/booking-service/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	TenantID      uuid.UUID
	ServiceID     uuid.UUID
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Date          time.Time        // Дата бронирования (без времени)
	Time          types.TimeString // Время начала
	Notes         *string
}

// Response созданное бронирование
type Response struct {
	Booking *domain.Booking
}
