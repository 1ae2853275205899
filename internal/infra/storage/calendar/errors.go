package calendar

import "errors"

var (
	// ErrSettingsNotFound возвращается, когда у тенанта нет записи настроек
	ErrSettingsNotFound = errors.New("calendar.repository: tenant settings not found")

	// ErrSpecialDayNotFound возвращается, когда особый день на дату не найден
	ErrSpecialDayNotFound = errors.New("calendar.repository: special day not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("calendar.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("calendar.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("calendar.repository: failed to scan row")
)
