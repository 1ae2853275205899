package update_booking_status

import (
	"github.com/google/uuid"

	"github.com/barberhub/booking-service/internal/domain"
)

// Request модель запроса на смену статуса бронирования
type Request struct {
	BookingID uuid.UUID
	Status    string  // Целевой статус, без учета регистра
	Reason    *string // Причина смены (попадает в аудит-отметку)
	Notes     *string // Дополнительный комментарий
}

// Response бронирование после смены статуса
type Response struct {
	Booking *domain.Booking
}
