package cancel_booking

// CancelBookingRequest HTTP запрос на отмену бронирования
type CancelBookingRequest struct {
	Reason string `json:"reason,omitempty"`
}
