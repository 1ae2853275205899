package create_booking

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barberhub/booking-service/internal/domain"
	bookingRepo "github.com/barberhub/booking-service/internal/infra/storage/booking"
	calendarRepo "github.com/barberhub/booking-service/internal/infra/storage/calendar"
	customerRepo "github.com/barberhub/booking-service/internal/infra/storage/customer"
	serviceRepo "github.com/barberhub/booking-service/internal/infra/storage/service"
	tenantRepo "github.com/barberhub/booking-service/internal/infra/storage/tenant"
	"github.com/barberhub/booking-service/pkg/types"
)

type stubTenantRepo struct {
	tenant *domain.Tenant
}

func (s *stubTenantRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Tenant, error) {
	if s.tenant == nil || s.tenant.ID != id {
		return nil, tenantRepo.ErrTenantNotFound
	}
	return s.tenant, nil
}

type stubServiceRepo struct {
	service *domain.Service
}

func (s *stubServiceRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Service, error) {
	if s.service == nil || s.service.ID != id {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return s.service, nil
}

type stubCustomerRepo struct {
	customers []*domain.Customer
	created   []*domain.Customer
}

func (s *stubCustomerRepo) GetByEmail(_ context.Context, tenantID uuid.UUID, email string) (*domain.Customer, error) {
	for _, c := range s.customers {
		if c.TenantID == tenantID && strings.EqualFold(c.Email, email) {
			return c, nil
		}
	}
	return nil, customerRepo.ErrCustomerNotFound
}

func (s *stubCustomerRepo) Create(_ context.Context, customer *domain.Customer) error {
	customer.ID = uuid.New()
	s.customers = append(s.customers, customer)
	s.created = append(s.created, customer)
	return nil
}

type stubCalendarRepo struct {
	setting *domain.TenantSetting
}

func (s *stubCalendarRepo) GetTenantSetting(_ context.Context, _ uuid.UUID) (*domain.TenantSetting, error) {
	if s.setting == nil {
		return nil, calendarRepo.ErrSettingsNotFound
	}
	return s.setting, nil
}

type stubBookingRepo struct {
	existing  []*domain.Booking
	created   []*domain.Booking
	createErr error
}

func (s *stubBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	s.created = append(s.created, booking)
	return booking, nil
}

func (s *stubBookingRepo) GetByTenantWithFilter(_ context.Context, _ domain.TenantBookingsFilter) ([]*domain.Booking, error) {
	return s.existing, nil
}

func (s *stubBookingRepo) CountActiveOnDate(_ context.Context, _ uuid.UUID, _ time.Time) (int, error) {
	count := 0
	for _, b := range s.existing {
		if b.IsActive() {
			count++
		}
	}
	return count, nil
}

// passthroughTxManager выполняет функцию без реальной транзакции
type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type spyCache struct {
	invalidated []time.Time
}

func (s *spyCache) InvalidateDay(_ context.Context, _ uuid.UUID, date time.Time) error {
	s.invalidated = append(s.invalidated, date)
	return nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type createFixture struct {
	uc        *UseCase
	tenantID  uuid.UUID
	service   *domain.Service
	customers *stubCustomerRepo
	calendar  *stubCalendarRepo
	bookings  *stubBookingRepo
	cache     *spyCache
}

func newCreateFixture(t *testing.T) *createFixture {
	t.Helper()

	tenantID := uuid.New()
	service := &domain.Service{
		ID:              uuid.New(),
		TenantID:        tenantID,
		Name:            "Corte Masculino",
		Price:           45,
		DurationMinutes: 30,
		IsActive:        true,
	}
	customers := &stubCustomerRepo{}
	calendar := &stubCalendarRepo{}
	bookings := &stubBookingRepo{}
	cache := &spyCache{}

	uc := NewUseCase(
		&stubTenantRepo{tenant: &domain.Tenant{ID: tenantID, IsActive: true}},
		&stubServiceRepo{service: service},
		customers,
		calendar,
		bookings,
		passthroughTxManager{},
		cache,
		nopLogger{},
	)
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)}

	return &createFixture{
		uc:        uc,
		tenantID:  tenantID,
		service:   service,
		customers: customers,
		calendar:  calendar,
		bookings:  bookings,
		cache:     cache,
	}
}

var bookingDate = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

func (f *createFixture) request() *Request {
	return &Request{
		TenantID:      f.tenantID,
		ServiceID:     f.service.ID,
		CustomerName:  "João Silva",
		CustomerEmail: "joao@example.com",
		CustomerPhone: "+55 11 99999-0000",
		Date:          bookingDate,
		Time:          "09:00",
	}
}

func TestUseCase_Execute_Success(t *testing.T) {
	f := newCreateFixture(t)

	resp, err := f.uc.Execute(context.Background(), f.request())
	require.NoError(t, err)

	b := resp.Booking
	assert.Equal(t, domain.StatusPending, b.Status)
	assert.Equal(t, types.TimeString("09:00"), b.BookingTime)

	// Снимки услуги и клиента на момент создания
	assert.Equal(t, "Corte Masculino", b.ServiceName)
	assert.Equal(t, 45.0, b.ServicePrice)
	assert.Equal(t, 30, b.DurationMinutes)
	assert.Equal(t, "João Silva", b.CustomerName)

	// Клиент создан и привязан
	require.Len(t, f.customers.created, 1)
	require.NotNil(t, b.CustomerID)
	assert.Equal(t, f.customers.created[0].ID, *b.CustomerID)

	// Кэш доступности сброшен на дату бронирования
	require.Len(t, f.cache.invalidated, 1)
	assert.Equal(t, bookingDate, f.cache.invalidated[0])
}

func TestUseCase_Execute_ReusesExistingCustomer(t *testing.T) {
	f := newCreateFixture(t)
	existing := &domain.Customer{
		ID:       uuid.New(),
		TenantID: f.tenantID,
		Name:     "João Silva",
		Email:    "JOAO@example.com", // регистр не важен
		Phone:    "+55 11 99999-0000",
	}
	f.customers.customers = []*domain.Customer{existing}

	resp, err := f.uc.Execute(context.Background(), f.request())
	require.NoError(t, err)

	assert.Empty(t, f.customers.created)
	require.NotNil(t, resp.Booking.CustomerID)
	assert.Equal(t, existing.ID, *resp.Booking.CustomerID)
}

func TestUseCase_Execute_ConflictBoundaries(t *testing.T) {
	f := newCreateFixture(t)
	f.bookings.existing = []*domain.Booking{
		{
			ID:              uuid.New(),
			BookingTime:     "09:00",
			DurationMinutes: 30,
			Status:          domain.StatusConfirmed,
		},
	}

	tests := []struct {
		name     string
		time     types.TimeString
		wantErr  error
		conflict bool
	}{
		{name: "overlapping start rejected", time: "09:15", conflict: true},
		{name: "same start rejected", time: "09:00", conflict: true},
		{name: "ending inside existing rejected", time: "08:45", conflict: true},
		{name: "back to back after is accepted", time: "09:30", conflict: false},
		{name: "back to back before is accepted", time: "08:30", conflict: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request()
			req.Time = tt.time

			_, err := f.uc.Execute(context.Background(), req)
			if tt.conflict {
				assert.ErrorIs(t, err, ErrSlotConflict)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUseCase_Execute_CancelledBookingDoesNotConflict(t *testing.T) {
	f := newCreateFixture(t)
	f.bookings.existing = []*domain.Booking{
		{
			BookingTime:     "09:00",
			DurationMinutes: 30,
			Status:          domain.StatusCancelled,
		},
	}

	_, err := f.uc.Execute(context.Background(), f.request())
	assert.NoError(t, err)
}

func TestUseCase_Execute_BufferWidensConflict(t *testing.T) {
	f := newCreateFixture(t)
	f.calendar.setting = &domain.TenantSetting{
		TenantID:             f.tenantID,
		SlotDurationMinutes:  30,
		AdvanceBookingDays:   30,
		MaxBookingsPerDay:    50,
		BookingBufferMinutes: 15,
	}
	f.bookings.existing = []*domain.Booking{
		{
			BookingTime:     "09:00",
			DurationMinutes: 30,
			Status:          domain.StatusConfirmed,
		},
	}

	// Впритык (09:30) с буфером 15 минут уже конфликт
	req := f.request()
	req.Time = "09:30"
	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotConflict)

	// 09:45 выдерживает буфер
	req = f.request()
	req.Time = "09:45"
	_, err = f.uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestUseCase_Execute_DayFull(t *testing.T) {
	f := newCreateFixture(t)
	f.calendar.setting = &domain.TenantSetting{
		TenantID:           f.tenantID,
		AdvanceBookingDays: 30,
		MaxBookingsPerDay:  1,
	}
	f.bookings.existing = []*domain.Booking{
		{BookingTime: "14:00", DurationMinutes: 30, Status: domain.StatusConfirmed},
	}

	_, err := f.uc.Execute(context.Background(), f.request())
	assert.ErrorIs(t, err, ErrDayFull)
}

func TestUseCase_Execute_UniqueIndexRaceMapsToConflict(t *testing.T) {
	f := newCreateFixture(t)
	f.bookings.createErr = bookingRepo.ErrSlotTaken

	_, err := f.uc.Execute(context.Background(), f.request())
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestUseCase_Execute_Validation(t *testing.T) {
	f := newCreateFixture(t)

	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr error
	}{
		{
			name:    "missing customer name",
			mutate:  func(r *Request) { r.CustomerName = "  " },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "malformed email",
			mutate:  func(r *Request) { r.CustomerEmail = "not-an-email" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "malformed time",
			mutate:  func(r *Request) { r.Time = "9:00" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "date in the past",
			mutate:  func(r *Request) { r.Date = time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC) },
			wantErr: ErrInvalidDate,
		},
		{
			name:    "date past booking horizon",
			mutate:  func(r *Request) { r.Date = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) },
			wantErr: ErrDateTooFarInFuture,
		},
		{
			name:    "unknown service",
			mutate:  func(r *Request) { r.ServiceID = uuid.New() },
			wantErr: ErrServiceNotFound,
		},
		{
			name:    "unknown tenant",
			mutate:  func(r *Request) { r.TenantID = uuid.New() },
			wantErr: ErrTenantNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
