package get_schedule

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/barberhub/booking-service/internal/api/handlers"
	"github.com/barberhub/booking-service/internal/domain"
	"github.com/barberhub/booking-service/internal/service/schedule"
)

const (
	msgInvalidTenantID = "некорректный ID тенанта"
	msgInvalidPeriod   = "некорректный формат периода, ожидается YYYY-MM-DD"
	msgTenantNotFound  = "тенант не найден"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/schedule?from=&to=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(mux.Vars(r)["tenantId"])
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/schedule - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	var from, to *time.Time
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /tenants/{id}/schedule - Invalid from: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)
			return
		}
		from = &parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /tenants/{id}/schedule - Invalid to: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)
			return
		}
		to = &parsed
	}

	result, err := h.service.GetSchedule(r.Context(), tenantID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrTenantNotFound):
			h.logger.Warn("GET /tenants/{id}/schedule - Tenant not found: tenant_id=%s", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("GET /tenants/{id}/schedule - Invalid input: tenant_id=%s, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidTenantID)

		default:
			h.logger.Error("GET /tenants/{id}/schedule - Failed: tenant_id=%s, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tenants/{id}/schedule - Schedule retrieved: tenant_id=%s", tenantID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
