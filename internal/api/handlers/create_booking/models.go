package create_booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/barberhub/booking-service/internal/domain"
	bookingModels "github.com/barberhub/booking-service/internal/service/bookings/models"
	createBooking "github.com/barberhub/booking-service/internal/usecase/create_booking"
	"github.com/barberhub/booking-service/pkg/types"
)

// CreateBookingRequest HTTP запрос на создание бронирования
type CreateBookingRequest struct {
	TenantID      uuid.UUID `json:"tenantId"`
	ServiceID     uuid.UUID `json:"serviceId"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	CustomerPhone string    `json:"customerPhone,omitempty"`
	Date          string    `json:"date"` // "2025-10-15"
	Time          string    `json:"time"` // "14:30"
	Notes         *string   `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// с парсингом даты и времени
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}

	bookingTime := types.TimeString(r.Time)
	if err := bookingTime.Validate(); err != nil {
		return nil, fmt.Errorf("parse time: %w", err)
	}

	return &createBooking.Request{
		TenantID:      r.TenantID,
		ServiceID:     r.ServiceID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		Date:          date,
		Time:          bookingTime,
		Notes:         r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует результат use case в HTTP ответ
func FromUseCaseResponse(result *createBooking.Response) *bookingModels.BookingResponse {
	return bookingModels.FromDomainBooking(result.Booking)
}
