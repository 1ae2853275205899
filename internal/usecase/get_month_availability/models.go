package get_month_availability

import (
	"time"

	"github.com/google/uuid"

	"github.com/barberhub/booking-service/internal/domain"
)

// Request модель запроса доступности месяца
type Request struct {
	TenantID  uuid.UUID
	ServiceID uuid.UUID
	Year      int
	Month     int // 1-12
}

// Response агрегированная доступность по дням месяца.
// Оценка слотов на день грубая: floor(окно работы / гранулярность),
// без вычитания перерывов - точный расчет выполняет разрешение дня.
type Response struct {
	TenantID  uuid.UUID
	ServiceID uuid.UUID
	Year      int
	Month     int
	Days      []DayAvailability
	Summary   Summary
}

// DayAvailability сводка доступности одного дня месяца
type DayAvailability struct {
	Date            time.Time
	HasAvailability bool
	TotalSlots      int
	AvailableSlots  int
	BookedSlots     int
	ReasonCode      *domain.ClosureReason // Заполнен, когда день закрыт
}

// Summary месячная сводка
type Summary struct {
	TotalDaysInMonth    int
	AvailableDays       int // Дни хотя бы с одним свободным слотом
	ClosedDays          int
	TotalAvailableSlots int
	TotalBookedSlots    int
	OccupationRate      float64 // booked / (booked + available) * 100, 0 при пустом знаменателе
}
