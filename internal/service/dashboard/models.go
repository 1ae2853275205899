package dashboard

import "github.com/google/uuid"

// StatsResponse сводные показатели тенанта для дашборда
type StatsResponse struct {
	TenantID uuid.UUID `json:"tenantId"`
	Date     string    `json:"date"` // "2025-10-15"

	TodayBookings  int     `json:"todayBookings"`  // Активные бронирования на сегодня
	TodayOccupancy float64 `json:"todayOccupancy"` // Процент занятых слотов сегодня

	WeekRevenue  float64 `json:"weekRevenue"`  // Выручка по завершенным с начала недели
	MonthRevenue float64 `json:"monthRevenue"` // Выручка по завершенным с начала месяца

	TotalCustomers int `json:"totalCustomers"`
}
