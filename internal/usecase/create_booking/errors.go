package create_booking

import "errors"

var (
	// ErrTenantNotFound возвращается, когда тенант не найден или неактивен
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена, неактивна
	// или принадлежит другому тенанту
	ErrServiceNotFound = errors.New("service not found")

	// ErrSlotConflict возвращается, когда интервал пересекается с существующим
	// активным бронированием
	ErrSlotConflict = errors.New("time slot conflicts with an existing booking")

	// ErrDayFull возвращается при достижении лимита maxBookingsPerDay
	ErrDayFull = errors.New("booking limit for this day is reached")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
