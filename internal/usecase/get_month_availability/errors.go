package get_month_availability

import "errors"

var (
	// ErrTenantNotFound возвращается, когда тенант не найден или неактивен
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена, неактивна
	// или принадлежит другому тенанту
	ErrServiceNotFound = errors.New("service not found")

	// ErrInvalidDateRange возвращается при месяце вне 1-12 или годе в прошлом
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
