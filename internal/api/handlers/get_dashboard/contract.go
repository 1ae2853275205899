package get_dashboard

import (
	"context"

	"github.com/google/uuid"

	"github.com/barberhub/booking-service/internal/service/dashboard"
)

type DashboardService interface {
	GetStats(ctx context.Context, tenantID uuid.UUID) (*dashboard.StatsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
