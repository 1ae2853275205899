package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/barberhub/booking-service/internal/domain"
	bookingRepo "github.com/barberhub/booking-service/internal/infra/storage/booking"
	calendarRepo "github.com/barberhub/booking-service/internal/infra/storage/calendar"
	customerRepo "github.com/barberhub/booking-service/internal/infra/storage/customer"
	serviceRepo "github.com/barberhub/booking-service/internal/infra/storage/service"
	tenantRepo "github.com/barberhub/booking-service/internal/infra/storage/tenant"
	"github.com/barberhub/booking-service/pkg/types"
)

// UseCase use case для создания бронирования
type UseCase struct {
	tenantRepo   TenantRepository
	serviceRepo  ServiceRepository
	customerRepo CustomerRepository
	calendarRepo CalendarRepository
	bookingRepo  BookingRepository
	txManager    TransactionManager
	cache        AvailabilityCache // nil, если кэш отключен
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	tenantRepository TenantRepository,
	serviceRepository ServiceRepository,
	customerRepository CustomerRepository,
	calendarRepository CalendarRepository,
	bookingRepository BookingRepository,
	txManager TransactionManager,
	availabilityCache AvailabilityCache,
	logger Logger,
) *UseCase {
	return &UseCase{
		tenantRepo:   tenantRepository,
		serviceRepo:  serviceRepository,
		customerRepo: customerRepository,
		calendarRepo: calendarRepository,
		bookingRepo:  bookingRepository,
		txManager:    txManager,
		cache:        availabilityCache,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute создает бронирование.
// Проверка конфликта и вставка выполняются одной serializable-транзакцией,
// поэтому два конкурентных запроса на пересекающийся интервал не могут
// пройти оба: один увидит конфликт либо упрется в уникальный индекс слота.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: tenant=%s, service=%s, date=%s, time=%s",
		req.TenantID, req.ServiceID, req.Date.Format(domain.DateFormat), req.Time)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем тенанта
	tenant, err := uc.tenantRepo.GetByID(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			uc.logger.Warn("CreateBooking: tenant %s not found", req.TenantID)
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("CreateBooking: failed to get tenant %s: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}
	if !tenant.IsActive {
		return nil, ErrTenantNotFound
	}

	// 3. Проверяем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service %s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service %s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsBookable(req.TenantID) {
		uc.logger.Warn("CreateBooking: service %s not bookable for tenant %s", req.ServiceID, req.TenantID)
		return nil, ErrServiceNotFound
	}

	// 4. Услуга должна целиком помещаться в сутки
	if _, err := req.Time.AddMinutes(service.DurationMinutes); err != nil {
		return nil, fmt.Errorf("%w: service does not fit into the day", ErrInvalidInput)
	}

	// 5. Настройки тенанта (дефолты при отсутствии записи)
	setting, err := uc.calendarRepo.GetTenantSetting(ctx, req.TenantID)
	if err != nil {
		if !errors.Is(err, calendarRepo.ErrSettingsNotFound) {
			uc.logger.Error("CreateBooking: failed to get settings: %v", err)
			return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
		}
		setting = domain.DefaultTenantSetting(req.TenantID)
	}

	// 6. Валидация даты
	if err := validateDate(req.Date, uc.timeProvider.Now(), setting.AdvanceBookingDays); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// 7. Проверка конфликта + вставка атомарно
	var created *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		created, err = uc.createInTx(txCtx, req, service, setting)
		return err
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	// 8. Сбрасываем кэш доступности на эту дату
	uc.invalidateCache(ctx, req)

	uc.logger.Info("CreateBooking: created booking %s for tenant=%s at %s %s",
		created.ID, req.TenantID, req.Date.Format(domain.DateFormat), req.Time)

	return &Response{Booking: created}, nil
}

// createInTx выполняет проверки занятости и вставку внутри транзакции
func (uc *UseCase) createInTx(ctx context.Context, req *Request, service *domain.Service, setting *domain.TenantSetting) (*domain.Booking, error) {
	// Лимит бронирований на день
	if setting.MaxBookingsPerDay > 0 {
		count, err := uc.bookingRepo.CountActiveOnDate(ctx, req.TenantID, req.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to count bookings: %w", err)
		}
		if count >= setting.MaxBookingsPerDay {
			uc.logger.Warn("CreateBooking: day %s is full for tenant %s (%d bookings)",
				req.Date.Format(domain.DateFormat), req.TenantID, count)
			return nil, ErrDayFull
		}
	}

	// Активные бронирования дня; внутри транзакции выборка на одну дату
	// блокирует строки до конца транзакции
	existing, err := uc.bookingRepo.GetByTenantWithFilter(ctx, domain.TenantBookingsFilter{
		TenantID:  req.TenantID,
		StartDate: &req.Date,
		EndDate:   &req.Date,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}

	if conflict := findConflict(req.Time, service.DurationMinutes, setting.BookingBufferMinutes, existing); conflict != nil {
		uc.logger.Warn("CreateBooking: slot %s conflicts with booking %s", req.Time, conflict.ID)
		return nil, ErrSlotConflict
	}

	// Находим или создаем клиента по (tenant, email без учета регистра)
	cust, err := uc.findOrCreateCustomer(ctx, req)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		TenantID:        req.TenantID,
		ServiceID:       req.ServiceID,
		CustomerID:      &cust.ID,
		CustomerName:    cust.Name,
		CustomerEmail:   cust.Email,
		CustomerPhone:   cust.Phone,
		BookingDate:     req.Date,
		BookingTime:     req.Time,
		DurationMinutes: service.DurationMinutes,
		ServiceName:     service.Name,
		ServicePrice:    service.Price,
		Status:          domain.StatusPending,
		Notes:           req.Notes,
	}

	created, err := uc.bookingRepo.Create(ctx, booking)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			return nil, ErrSlotConflict
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	return created, nil
}

func (uc *UseCase) findOrCreateCustomer(ctx context.Context, req *Request) (*domain.Customer, error) {
	email := strings.TrimSpace(req.CustomerEmail)

	cust, err := uc.customerRepo.GetByEmail(ctx, req.TenantID, email)
	if err == nil {
		return cust, nil
	}
	if !errors.Is(err, customerRepo.ErrCustomerNotFound) {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	cust = &domain.Customer{
		TenantID: req.TenantID,
		Name:     strings.TrimSpace(req.CustomerName),
		Email:    email,
		Phone:    strings.TrimSpace(req.CustomerPhone),
	}
	if err := uc.customerRepo.Create(ctx, cust); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	return cust, nil
}

// findConflict ищет активное бронирование, пересекающееся с кандидатом
// [time, time+duration) по полуоткрытому тесту: candidateStart < existingEnd
// && candidateEnd > existingStart. Буфер раздвигает интервалы с обеих сторон,
// при buffer=0 бронирования "впритык" конфликтом не считаются.
func findConflict(start types.TimeString, durationMinutes, bufferMinutes int, existing []*domain.Booking) *domain.Booking {
	candStart, err := start.Minutes()
	if err != nil {
		return nil
	}
	candEnd := candStart + durationMinutes

	for _, b := range existing {
		if !b.IsActive() {
			continue
		}

		exStart, err := b.BookingTime.Minutes()
		if err != nil {
			continue
		}
		exEnd := exStart + b.DurationMinutes

		if exStart < candEnd+bufferMinutes && exEnd+bufferMinutes > candStart {
			return b
		}
	}

	return nil
}

func (uc *UseCase) invalidateCache(ctx context.Context, req *Request) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.InvalidateDay(ctx, req.TenantID, req.Date); err != nil {
		uc.logger.Warn("CreateBooking: cache invalidation failed: %v", err)
	}
}

func isDomainError(err error) bool {
	return errors.Is(err, ErrSlotConflict) ||
		errors.Is(err, ErrDayFull) ||
		errors.Is(err, ErrInvalidInput)
}
