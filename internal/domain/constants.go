package domain

// Default tenant settings
const (
	DefaultSlotDurationMinutes  = 30
	DefaultAdvanceBookingDays   = 30
	DefaultMaxBookingsPerDay    = 50
	DefaultBookingBufferMinutes = 0
	DefaultTimezone             = "America/Sao_Paulo"
)

// Business validation constants
const (
	MinSlotDurationMinutes  = 5
	MaxSlotDurationMinutes  = 480 // 8 часов
	MinAdvanceBookingDays   = 0
	MaxAdvanceBookingDays   = 365
	MaxBookingsPerDayLimit  = 500
	MaxBookingBufferMinutes = 120
	MaxNotesLength          = 2000
	MaxReasonLength         = 255
)

// Time format constants
const (
	TimeFormat      = "15:04"            // HH:MM
	DateFormat      = "2006-01-02"       // YYYY-MM-DD
	AuditTimeFormat = "02/01/2006 15:04" // dd/mm/yyyy HH:mm, формат отметок в notes
)

// InactiveStatuses статусы, при которых бронирование не занимает время.
// Используются при подсчете занятости слотов и проверке конфликтов.
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
	StatusNoShow,
}
