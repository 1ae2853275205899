package get_day_availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/barberhub/booking-service/internal/domain"
	cache "github.com/barberhub/booking-service/internal/infra/cache/availability"
	calendarRepo "github.com/barberhub/booking-service/internal/infra/storage/calendar"
	serviceRepo "github.com/barberhub/booking-service/internal/infra/storage/service"
	tenantRepo "github.com/barberhub/booking-service/internal/infra/storage/tenant"
	"github.com/barberhub/booking-service/pkg/ptr"
	"github.com/barberhub/booking-service/pkg/types"
)

// UseCase use case для разрешения доступности одного дня
type UseCase struct {
	tenantRepo   TenantRepository
	serviceRepo  ServiceRepository
	calendarRepo CalendarRepository
	bookingRepo  BookingRepository
	cache        AvailabilityCache // nil, если кэш отключен
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	tenantRepository TenantRepository,
	serviceRepository ServiceRepository,
	calendarRepository CalendarRepository,
	bookingRepository BookingRepository,
	availabilityCache AvailabilityCache,
	logger Logger,
) *UseCase {
	return &UseCase{
		tenantRepo:   tenantRepository,
		serviceRepo:  serviceRepository,
		calendarRepo: calendarRepository,
		bookingRepo:  bookingRepository,
		cache:        availabilityCache,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет разрешение доступности дня
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetDayAvailability: tenant=%s, service=%s, date=%s",
		req.TenantID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetDayAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем тенанта
	tenant, err := uc.tenantRepo.GetByID(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			uc.logger.Warn("GetDayAvailability: tenant %s not found", req.TenantID)
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("GetDayAvailability: failed to get tenant %s: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}
	if !tenant.IsActive {
		uc.logger.Warn("GetDayAvailability: tenant %s is inactive", req.TenantID)
		return nil, ErrTenantNotFound
	}

	// 3. Проверяем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetDayAvailability: service %s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetDayAvailability: failed to get service %s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsBookable(req.TenantID) {
		uc.logger.Warn("GetDayAvailability: service %s not bookable for tenant %s", req.ServiceID, req.TenantID)
		return nil, ErrServiceNotFound
	}

	// 4. Настройки тенанта (дефолты при отсутствии записи)
	setting, err := uc.calendarRepo.GetTenantSetting(ctx, req.TenantID)
	if err != nil {
		if !errors.Is(err, calendarRepo.ErrSettingsNotFound) {
			uc.logger.Error("GetDayAvailability: failed to get settings: %v", err)
			return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
		}
		setting = domain.DefaultTenantSetting(req.TenantID)
	}

	// 5. Валидация даты с учетом горизонта бронирования
	if err := validateDate(req.Date, uc.timeProvider.Now(), setting.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetDayAvailability: date validation failed: %v", err)
		return nil, err
	}

	// 6. Попытка ответить из кэша
	if cached := uc.fromCache(ctx, req); cached != nil {
		return cached, nil
	}

	// 7. Полное разрешение дня
	resp, err := uc.resolve(ctx, req, service.DurationMinutes, setting.SlotDurationMinutes)
	if err != nil {
		return nil, err
	}

	// 8. Сохраняем в кэш
	uc.toCache(ctx, req, resp)

	uc.logger.Info("GetDayAvailability: tenant=%s, date=%s: open=%v, available=%d, occupied=%d, blocked=%d",
		req.TenantID, req.Date.Format(domain.DateFormat),
		resp.IsOpen, resp.Summary.AvailableCount, resp.Summary.OccupiedCount, resp.Summary.BlockedCount)

	return resp, nil
}

// resolve выполняет полный расчет доступности дня по календарной
// конфигурации и бронированиям
func (uc *UseCase) resolve(ctx context.Context, req *Request, serviceDuration, granularity int) (*Response, error) {
	// Особый день на дату
	specialDay, err := uc.calendarRepo.GetSpecialDay(ctx, req.TenantID, req.Date)
	if err != nil && !errors.Is(err, calendarRepo.ErrSpecialDayNotFound) {
		uc.logger.Error("GetDayAvailability: failed to get special day: %v", err)
		return nil, fmt.Errorf("%w: failed to get special day: %v", ErrInternal, err)
	}

	// Недельное расписание
	businessHours, err := uc.calendarRepo.GetBusinessHours(ctx, req.TenantID)
	if err != nil {
		uc.logger.Error("GetDayAvailability: failed to get business hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get business hours: %v", ErrInternal, err)
	}

	// Ручные блоки на дату
	blocks, err := uc.calendarRepo.ListManualBlocks(ctx, req.TenantID, req.Date, req.Date)
	if err != nil {
		uc.logger.Error("GetDayAvailability: failed to get manual blocks: %v", err)
		return nil, fmt.Errorf("%w: failed to get manual blocks: %v", ErrInternal, err)
	}

	resp := &Response{
		Date:           req.Date,
		TenantID:       req.TenantID,
		ServiceID:      req.ServiceID,
		AvailableSlots: []types.TimeString{},
		OccupiedSlots:  []OccupiedSlot{},
		BlockedSlots:   []BlockedSlot{},
		Breaks:         []BreakInterval{},
	}

	window := resolveEffectiveWindow(specialDay, businessHours, blocks, req.Date)
	if !window.IsOpen {
		resp.ReasonCode = &window.ReasonCode
		if window.ReasonDetail != "" {
			resp.ReasonDetail = ptr.Ptr(window.ReasonDetail)
		}
		return resp, nil
	}

	resp.IsOpen = true
	resp.EffectiveOpenTime = ptr.Ptr(window.OpenTime)
	resp.EffectiveCloseTime = ptr.Ptr(window.CloseTime)

	// Сетка кандидатов
	grid, err := generateSlots(window.OpenTime, window.CloseTime, granularity, serviceDuration)
	if err != nil {
		uc.logger.Error("GetDayAvailability: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	// Перерывы
	breaks, err := uc.calendarRepo.GetBusinessBreaks(ctx, req.TenantID)
	if err != nil {
		uc.logger.Error("GetDayAvailability: failed to get breaks: %v", err)
		return nil, fmt.Errorf("%w: failed to get breaks: %v", ErrInternal, err)
	}

	// Активные бронирования на дату
	bookings, err := uc.bookingRepo.GetByTenantWithFilter(ctx, domain.TenantBookingsFilter{
		TenantID:  req.TenantID,
		StartDate: &req.Date,
		EndDate:   &req.Date,
	})
	if err != nil {
		uc.logger.Error("GetDayAvailability: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	resp.AvailableSlots, resp.OccupiedSlots, resp.BlockedSlots = classifySlots(
		grid, serviceDuration, breaks, blocks, bookings)

	for _, b := range breaks {
		if !b.AppliesToAllDays {
			continue
		}
		resp.Breaks = append(resp.Breaks, BreakInterval{
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
			Name:      b.Name,
		})
	}

	resp.Summary = Summary{
		TotalSlots:     len(grid),
		AvailableCount: len(resp.AvailableSlots),
		OccupiedCount:  len(resp.OccupiedSlots),
		BlockedCount:   len(resp.BlockedSlots),
	}

	return resp, nil
}

func (uc *UseCase) fromCache(ctx context.Context, req *Request) *Response {
	if uc.cache == nil {
		return nil
	}

	payload, err := uc.cache.Get(ctx, req.TenantID, req.ServiceID, req.Date)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			uc.logger.Warn("GetDayAvailability: cache get failed: %v", err)
		}
		return nil
	}

	var resp Response
	if err := json.Unmarshal(payload, &resp); err != nil {
		uc.logger.Warn("GetDayAvailability: cache payload corrupted: %v", err)
		return nil
	}

	return &resp
}

func (uc *UseCase) toCache(ctx context.Context, req *Request, resp *Response) {
	if uc.cache == nil {
		return
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		uc.logger.Warn("GetDayAvailability: cache marshal failed: %v", err)
		return
	}

	if err := uc.cache.Set(ctx, req.TenantID, req.ServiceID, req.Date, payload); err != nil {
		uc.logger.Warn("GetDayAvailability: cache set failed: %v", err)
	}
}
