package get_dashboard

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/barberhub/booking-service/internal/api/handlers"
	"github.com/barberhub/booking-service/internal/service/dashboard"
)

const (
	msgInvalidTenantID = "некорректный ID тенанта"
	msgTenantNotFound  = "тенант не найден"
)

type Handler struct {
	service DashboardService
	logger  Logger
}

func NewHandler(service DashboardService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/dashboard
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(mux.Vars(r)["tenantId"])
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/dashboard - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	stats, err := h.service.GetStats(r.Context(), tenantID)
	if err != nil {
		switch {
		case errors.Is(err, dashboard.ErrTenantNotFound):
			h.logger.Warn("GET /tenants/{id}/dashboard - Tenant not found: tenant_id=%s", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, dashboard.ErrInvalidInput):
			h.logger.Warn("GET /tenants/{id}/dashboard - Invalid input: tenant_id=%s, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidTenantID)

		default:
			h.logger.Error("GET /tenants/{id}/dashboard - Failed: tenant_id=%s, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tenants/{id}/dashboard - Stats retrieved: tenant_id=%s", tenantID)
	handlers.RespondJSON(w, http.StatusOK, stats)
}
