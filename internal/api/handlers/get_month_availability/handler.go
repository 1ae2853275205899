package get_month_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/barberhub/booking-service/internal/api/handlers"
	getMonthAvailability "github.com/barberhub/booking-service/internal/usecase/get_month_availability"
)

const (
	msgInvalidTenantID  = "некорректный ID тенанта"
	msgInvalidServiceID = "некорректный ID услуги"
	msgInvalidYear      = "некорректный год"
	msgInvalidMonth     = "некорректный месяц"
	msgTenantNotFound   = "тенант не найден"
	msgServiceNotFound  = "услуга не найдена"
	msgInvalidPeriod    = "некорректный период"
	msgInvalidRequest   = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetMonthAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetMonthAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/availability/days?serviceId=...&year=2025&month=11
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(mux.Vars(r)["tenantId"])
	if err != nil {
		h.logger.Warn("GET /availability/days - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	serviceID, err := uuid.Parse(r.URL.Query().Get("serviceId"))
	if err != nil {
		h.logger.Warn("GET /availability/days - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		h.logger.Warn("GET /availability/days - Invalid year: %v", err)
		handlers.RespondBadRequest(w, msgInvalidYear)
		return
	}

	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		h.logger.Warn("GET /availability/days - Invalid month: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMonth)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getMonthAvailability.Request{
		TenantID:  tenantID,
		ServiceID: serviceID,
		Year:      year,
		Month:     month,
	})
	if err != nil {
		switch {
		case errors.Is(err, getMonthAvailability.ErrTenantNotFound):
			h.logger.Warn("GET /availability/days - Tenant not found: tenant_id=%s", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, getMonthAvailability.ErrServiceNotFound):
			h.logger.Warn("GET /availability/days - Service not found: tenant_id=%s, service_id=%s", tenantID, serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getMonthAvailability.ErrInvalidDateRange):
			h.logger.Warn("GET /availability/days - Invalid period: tenant_id=%s, year=%d, month=%d", tenantID, year, month)
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		case errors.Is(err, getMonthAvailability.ErrInvalidInput):
			h.logger.Warn("GET /availability/days - Invalid input: tenant_id=%s, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("GET /availability/days - Failed: tenant_id=%s, service_id=%s, error=%v", tenantID, serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability/days - Aggregated: tenant_id=%s, year=%d, month=%d, available_days=%d",
		tenantID, year, month, result.Summary.AvailableDays)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
