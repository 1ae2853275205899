package get_month_availability

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// validateRequest валидирует запрос до любых вычислений:
// месяц строго 1-12, год не раньше текущего
func validateRequest(req *Request, now time.Time) error {
	if req.TenantID == uuid.Nil {
		return fmt.Errorf("%w: tenantId is required", ErrInvalidInput)
	}

	if req.ServiceID == uuid.Nil {
		return fmt.Errorf("%w: serviceId is required", ErrInvalidInput)
	}

	if req.Month < 1 || req.Month > 12 {
		return fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidDateRange)
	}

	if req.Year < now.Year() {
		return fmt.Errorf("%w: year must not be in the past", ErrInvalidDateRange)
	}

	return nil
}
