package update_booking_status

import (
	bookingModels "github.com/barberhub/booking-service/internal/service/bookings/models"
	updateBookingStatus "github.com/barberhub/booking-service/internal/usecase/update_booking_status"
)

// UpdateStatusRequest HTTP запрос на смену статуса бронирования
type UpdateStatusRequest struct {
	Status string  `json:"status"`
	Reason *string `json:"reason,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

// FromUseCaseResponse конвертирует результат use case в HTTP ответ
func FromUseCaseResponse(result *updateBookingStatus.Response) *bookingModels.BookingResponse {
	return bookingModels.FromDomainBooking(result.Booking)
}
