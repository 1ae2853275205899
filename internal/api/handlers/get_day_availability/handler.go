package get_day_availability

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/barberhub/booking-service/internal/api/handlers"
	"github.com/barberhub/booking-service/internal/domain"
	getDayAvailability "github.com/barberhub/booking-service/internal/usecase/get_day_availability"
)

const (
	msgInvalidTenantID  = "некорректный ID тенанта"
	msgInvalidServiceID = "некорректный ID услуги"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgTenantNotFound   = "тенант не найден"
	msgServiceNotFound  = "услуга не найдена"
	msgDateInPast       = "дата в прошлом"
	msgDateTooFar       = "дата слишком далеко в будущем"
	msgInvalidRequest   = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetDayAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetDayAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/availability/times?serviceId=...&date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(mux.Vars(r)["tenantId"])
	if err != nil {
		h.logger.Warn("GET /availability/times - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	serviceID, err := uuid.Parse(r.URL.Query().Get("serviceId"))
	if err != nil {
		h.logger.Warn("GET /availability/times - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /availability/times - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getDayAvailability.Request{
		TenantID:  tenantID,
		ServiceID: serviceID,
		Date:      date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getDayAvailability.ErrTenantNotFound):
			h.logger.Warn("GET /availability/times - Tenant not found: tenant_id=%s", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, getDayAvailability.ErrServiceNotFound):
			h.logger.Warn("GET /availability/times - Service not found: tenant_id=%s, service_id=%s", tenantID, serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getDayAvailability.ErrInvalidDate):
			h.logger.Warn("GET /availability/times - Date in past: tenant_id=%s", tenantID)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getDayAvailability.ErrDateTooFarInFuture):
			h.logger.Warn("GET /availability/times - Date too far: tenant_id=%s", tenantID)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getDayAvailability.ErrInvalidInput):
			h.logger.Warn("GET /availability/times - Invalid input: tenant_id=%s, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("GET /availability/times - Failed: tenant_id=%s, service_id=%s, error=%v", tenantID, serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability/times - Resolved: tenant_id=%s, date=%s, available=%d",
		tenantID, result.Date, result.Summary.AvailableCount)
	handlers.RespondJSON(w, http.StatusOK, result)
}
