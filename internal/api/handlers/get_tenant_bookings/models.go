package get_tenant_bookings

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/barberhub/booking-service/internal/domain"
	"github.com/barberhub/booking-service/internal/service/bookings/models"
)

// ParseQuery собирает запрос списка бронирований из query-параметров:
// startDate, endDate (YYYY-MM-DD), status, includeInactive
func ParseQuery(tenantID uuid.UUID, query url.Values) (*models.ListTenantBookingsRequest, error) {
	req := &models.ListTenantBookingsRequest{TenantID: tenantID}

	if raw := query.Get("startDate"); raw != "" {
		startDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, fmt.Errorf("parse startDate: %w", err)
		}
		req.StartDate = &startDate
	}

	if raw := query.Get("endDate"); raw != "" {
		endDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, fmt.Errorf("parse endDate: %w", err)
		}
		req.EndDate = &endDate
	}

	if raw := query.Get("status"); raw != "" {
		status := raw
		req.Status = &status
	}

	if raw := query.Get("includeInactive"); raw != "" {
		includeInactive, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("parse includeInactive: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
