package get_month_availability

import (
	"github.com/google/uuid"

	"github.com/barberhub/booking-service/internal/domain"
	getMonthAvailability "github.com/barberhub/booking-service/internal/usecase/get_month_availability"
)

// MonthAvailabilityResponse HTTP ответ с доступностью месяца
type MonthAvailabilityResponse struct {
	TenantID  uuid.UUID     `json:"tenantId"`
	ServiceID uuid.UUID     `json:"serviceId"`
	Year      int           `json:"year"`
	Month     int           `json:"month"`
	Days      []DayResponse `json:"days"`
	Summary   Summary       `json:"summary"`
}

// DayResponse сводка доступности одного дня
type DayResponse struct {
	Date            string  `json:"date"` // "2025-11-03"
	HasAvailability bool    `json:"hasAvailability"`
	TotalSlots      int     `json:"totalSlots"`
	AvailableSlots  int     `json:"availableSlots"`
	BookedSlots     int     `json:"bookedSlots"`
	ReasonCode      *string `json:"reasonCode,omitempty"`
}

// Summary месячная сводка
type Summary struct {
	TotalDaysInMonth    int     `json:"totalDaysInMonth"`
	AvailableDays       int     `json:"availableDays"`
	ClosedDays          int     `json:"closedDays"`
	TotalAvailableSlots int     `json:"totalAvailableSlots"`
	TotalBookedSlots    int     `json:"totalBookedSlots"`
	OccupationRate      float64 `json:"occupationRate"`
}

// FromUseCaseResponse конвертирует результат use case в HTTP ответ
func FromUseCaseResponse(result *getMonthAvailability.Response) *MonthAvailabilityResponse {
	resp := &MonthAvailabilityResponse{
		TenantID:  result.TenantID,
		ServiceID: result.ServiceID,
		Year:      result.Year,
		Month:     result.Month,
		Days:      make([]DayResponse, 0, len(result.Days)),
		Summary: Summary{
			TotalDaysInMonth:    result.Summary.TotalDaysInMonth,
			AvailableDays:       result.Summary.AvailableDays,
			ClosedDays:          result.Summary.ClosedDays,
			TotalAvailableSlots: result.Summary.TotalAvailableSlots,
			TotalBookedSlots:    result.Summary.TotalBookedSlots,
			OccupationRate:      result.Summary.OccupationRate,
		},
	}

	for _, day := range result.Days {
		var reason *string
		if day.ReasonCode != nil {
			r := string(*day.ReasonCode)
			reason = &r
		}
		resp.Days = append(resp.Days, DayResponse{
			Date:            day.Date.Format(domain.DateFormat),
			HasAvailability: day.HasAvailability,
			TotalSlots:      day.TotalSlots,
			AvailableSlots:  day.AvailableSlots,
			BookedSlots:     day.BookedSlots,
			ReasonCode:      reason,
		})
	}

	return resp
}
