package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barberhub/booking-service/internal/domain"
	calendarRepo "github.com/barberhub/booking-service/internal/infra/storage/calendar"
	tenantRepo "github.com/barberhub/booking-service/internal/infra/storage/tenant"
	"github.com/barberhub/booking-service/internal/service/schedule/models"
	"github.com/barberhub/booking-service/pkg/ptr"
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

type stubCalendarRepo struct {
	hours       []*domain.BusinessHour
	breaks      []*domain.BusinessBreak
	specialDays []*domain.SpecialDay
	blocks      []*domain.ManualBlock
	setting     *domain.TenantSetting

	upsertedHours   []*domain.BusinessHour
	upsertedSetting *domain.TenantSetting
	upsertedDays    []*domain.SpecialDay
	createdBreaks   []*domain.BusinessBreak
	createdBlocks   []*domain.ManualBlock

	deletedDayIDs   []uuid.UUID
	deletedBreakIDs []uuid.UUID
	deletedBlockIDs []uuid.UUID
}

func (s *stubCalendarRepo) GetBusinessHours(_ context.Context, _ uuid.UUID) ([]*domain.BusinessHour, error) {
	return s.hours, nil
}

func (s *stubCalendarRepo) UpsertBusinessHour(_ context.Context, hour *domain.BusinessHour) error {
	s.upsertedHours = append(s.upsertedHours, hour)
	return nil
}

func (s *stubCalendarRepo) ListSpecialDays(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]*domain.SpecialDay, error) {
	return s.specialDays, nil
}

func (s *stubCalendarRepo) UpsertSpecialDay(_ context.Context, day *domain.SpecialDay) error {
	s.upsertedDays = append(s.upsertedDays, day)
	return nil
}

func (s *stubCalendarRepo) DeleteSpecialDay(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	s.deletedDayIDs = append(s.deletedDayIDs, id)
	return nil
}

func (s *stubCalendarRepo) ListManualBlocks(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]*domain.ManualBlock, error) {
	return s.blocks, nil
}

func (s *stubCalendarRepo) CreateManualBlock(_ context.Context, block *domain.ManualBlock) error {
	s.createdBlocks = append(s.createdBlocks, block)
	return nil
}

func (s *stubCalendarRepo) DeleteManualBlock(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	s.deletedBlockIDs = append(s.deletedBlockIDs, id)
	return nil
}

func (s *stubCalendarRepo) GetBusinessBreaks(_ context.Context, _ uuid.UUID) ([]*domain.BusinessBreak, error) {
	return s.breaks, nil
}

func (s *stubCalendarRepo) CreateBusinessBreak(_ context.Context, brk *domain.BusinessBreak) error {
	s.createdBreaks = append(s.createdBreaks, brk)
	return nil
}

func (s *stubCalendarRepo) DeleteBusinessBreak(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	s.deletedBreakIDs = append(s.deletedBreakIDs, id)
	return nil
}

func (s *stubCalendarRepo) GetTenantSetting(_ context.Context, _ uuid.UUID) (*domain.TenantSetting, error) {
	if s.setting == nil {
		return nil, calendarRepo.ErrSettingsNotFound
	}
	return s.setting, nil
}

func (s *stubCalendarRepo) UpsertTenantSetting(_ context.Context, setting *domain.TenantSetting) error {
	s.upsertedSetting = setting
	return nil
}

type spyCache struct {
	invalidatedTenants []uuid.UUID
}

func (s *spyCache) InvalidateTenant(_ context.Context, tenantID uuid.UUID) error {
	s.invalidatedTenants = append(s.invalidatedTenants, tenantID)
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

type fixture struct {
	svc          *Service
	tenantRepo   *stubTenantRepo
	calendarRepo *stubCalendarRepo
	cache        *spyCache
	tenantID     uuid.UUID
}

func newFixture() *fixture {
	tenantID := uuid.New()
	tenantRepository := &stubTenantRepo{
		tenant: &domain.Tenant{ID: tenantID, Name: "Barbearia Central", IsActive: true},
	}
	calendarRepository := &stubCalendarRepo{}
	cache := &spyCache{}

	svc := NewService(tenantRepository, calendarRepository, cache, nopLogger{})
	svc.timeProvider = &fixedTimeProvider{now: time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)}

	return &fixture{
		svc:          svc,
		tenantRepo:   tenantRepository,
		calendarRepo: calendarRepository,
		cache:        cache,
		tenantID:     tenantID,
	}
}

func TestService_GetSchedule(t *testing.T) {
	f := newFixture()

	f.calendarRepo.hours = []*domain.BusinessHour{
		{TenantID: f.tenantID, DayOfWeek: 1, IsOpen: true, OpenTime: "09:00", CloseTime: "18:00"},
		{TenantID: f.tenantID, DayOfWeek: 0, IsOpen: false},
	}
	f.calendarRepo.breaks = []*domain.BusinessBreak{
		{ID: uuid.New(), TenantID: f.tenantID, StartTime: "12:00", EndTime: "13:00", Name: "Almoco", AppliesToAllDays: true},
	}
	customStart := types.TimeString("10:00")
	customEnd := types.TimeString("14:00")
	f.calendarRepo.specialDays = []*domain.SpecialDay{
		{
			ID:              uuid.New(),
			TenantID:        f.tenantID,
			Date:            time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC),
			Type:            domain.SpecialDaySpecialHours,
			Name:            "Vespera de Natal",
			IsOpen:          true,
			CustomStartTime: &customStart,
			CustomEndTime:   &customEnd,
		},
	}

	resp, err := f.svc.GetSchedule(context.Background(), f.tenantID, nil, nil)
	require.NoError(t, err)

	require.Len(t, resp.BusinessHours, 2)
	assert.Equal(t, "09:00", resp.BusinessHours[0].OpenTime)
	assert.Equal(t, "18:00", resp.BusinessHours[0].CloseTime)
	// закрытый день без времен
	assert.False(t, resp.BusinessHours[1].IsOpen)
	assert.Empty(t, resp.BusinessHours[1].OpenTime)

	require.Len(t, resp.Breaks, 1)
	assert.Equal(t, "Almoco", resp.Breaks[0].Name)

	require.Len(t, resp.SpecialDays, 1)
	assert.Equal(t, "2025-12-24", resp.SpecialDays[0].Date)
	assert.Equal(t, "special_hours", resp.SpecialDays[0].Type)
	require.NotNil(t, resp.SpecialDays[0].StartTime)
	assert.Equal(t, "10:00", *resp.SpecialDays[0].StartTime)

	// настроек нет - возвращаются значения по умолчанию
	assert.Equal(t, domain.DefaultSlotDurationMinutes, resp.Settings.SlotDurationMinutes)
	assert.Equal(t, domain.DefaultTimezone, resp.Settings.Timezone)
}

func TestService_GetSchedule_TenantNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GetSchedule(context.Background(), uuid.New(), nil, nil)
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestService_UpdateSchedule(t *testing.T) {
	f := newFixture()

	removeBreakID := uuid.New()
	req := &models.UpdateScheduleRequest{
		TenantID: f.tenantID,
		BusinessHours: []models.BusinessHourInput{
			{DayOfWeek: 1, IsOpen: true, OpenTime: "08:00", CloseTime: "18:00"},
			{DayOfWeek: 2, IsOpen: true, OpenTime: "08:00", CloseTime: "18:00"},
			{DayOfWeek: 0, IsOpen: false},
		},
		Settings: &models.SettingsInput{
			SlotDurationMinutes:  15,
			AdvanceBookingDays:   60,
			MaxBookingsPerDay:    40,
			BookingBufferMinutes: 10,
			AutoConfirmBookings:  true,
		},
		AddSpecialDays: []models.SpecialDayInput{
			{Date: "2025-12-25", Type: "holiday", Name: "Natal", IsOpen: false},
		},
		AddBreaks: []models.BreakInput{
			{StartTime: "12:00", EndTime: "13:00", Name: "Almoco", AppliesToAllDays: true},
		},
		RemoveBreakIDs: []uuid.UUID{removeBreakID},
		AddBlocks: []models.ManualBlockInput{
			{Date: "2025-11-10", Type: "temporary_block", StartTime: ptr.Ptr("10:00"), EndTime: ptr.Ptr("11:00"), Reason: "Dentista"},
		},
	}

	_, err := f.svc.UpdateSchedule(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, f.calendarRepo.upsertedHours, 3)
	assert.Equal(t, types.TimeString("08:00"), f.calendarRepo.upsertedHours[0].OpenTime)

	require.NotNil(t, f.calendarRepo.upsertedSetting)
	assert.Equal(t, 15, f.calendarRepo.upsertedSetting.SlotDurationMinutes)
	// пустой timezone заменяется значением по умолчанию
	assert.Equal(t, domain.DefaultTimezone, f.calendarRepo.upsertedSetting.Timezone)

	require.Len(t, f.calendarRepo.upsertedDays, 1)
	assert.Equal(t, domain.SpecialDayHoliday, f.calendarRepo.upsertedDays[0].Type)

	require.Len(t, f.calendarRepo.createdBreaks, 1)
	assert.Equal(t, []uuid.UUID{removeBreakID}, f.calendarRepo.deletedBreakIDs)

	require.Len(t, f.calendarRepo.createdBlocks, 1)
	assert.Equal(t, domain.BlockTemporary, f.calendarRepo.createdBlocks[0].Type)

	// изменение расписания сбрасывает весь кэш тенанта
	assert.Equal(t, []uuid.UUID{f.tenantID}, f.cache.invalidatedTenants)
}

func TestService_UpdateSchedule_ValidationRejectsWholeRequest(t *testing.T) {
	tests := []struct {
		name string
		req  func(tenantID uuid.UUID) *models.UpdateScheduleRequest
	}{
		{
			name: "open day with inverted interval",
			req: func(tenantID uuid.UUID) *models.UpdateScheduleRequest {
				return &models.UpdateScheduleRequest{
					TenantID: tenantID,
					BusinessHours: []models.BusinessHourInput{
						{DayOfWeek: 1, IsOpen: true, OpenTime: "18:00", CloseTime: "08:00"},
					},
				}
			},
		},
		{
			name: "duplicate day of week",
			req: func(tenantID uuid.UUID) *models.UpdateScheduleRequest {
				return &models.UpdateScheduleRequest{
					TenantID: tenantID,
					BusinessHours: []models.BusinessHourInput{
						{DayOfWeek: 1, IsOpen: false},
						{DayOfWeek: 1, IsOpen: false},
					},
				}
			},
		},
		{
			name: "open special day without custom hours",
			req: func(tenantID uuid.UUID) *models.UpdateScheduleRequest {
				return &models.UpdateScheduleRequest{
					TenantID: tenantID,
					AddSpecialDays: []models.SpecialDayInput{
						{Date: "2025-12-24", Type: "special_hours", Name: "Vespera", IsOpen: true},
					},
				}
			},
		},
		{
			name: "temporary block without interval",
			req: func(tenantID uuid.UUID) *models.UpdateScheduleRequest {
				return &models.UpdateScheduleRequest{
					TenantID: tenantID,
					AddBlocks: []models.ManualBlockInput{
						{Date: "2025-11-10", Type: "temporary_block", Reason: "Dentista"},
					},
				}
			},
		},
		{
			name: "slot duration out of range",
			req: func(tenantID uuid.UUID) *models.UpdateScheduleRequest {
				return &models.UpdateScheduleRequest{
					TenantID: tenantID,
					Settings: &models.SettingsInput{SlotDurationMinutes: 3, AdvanceBookingDays: 30},
				}
			},
		},
		{
			name: "unknown special day type",
			req: func(tenantID uuid.UUID) *models.UpdateScheduleRequest {
				return &models.UpdateScheduleRequest{
					TenantID: tenantID,
					AddSpecialDays: []models.SpecialDayInput{
						{Date: "2025-12-24", Type: "party", Name: "Festa", IsOpen: false},
					},
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.svc.UpdateSchedule(context.Background(), tt.req(f.tenantID))
			assert.ErrorIs(t, err, ErrInvalidInput)

			// ни одной записи не должно пройти
			assert.Empty(t, f.calendarRepo.upsertedHours)
			assert.Nil(t, f.calendarRepo.upsertedSetting)
			assert.Empty(t, f.calendarRepo.upsertedDays)
			assert.Empty(t, f.calendarRepo.createdBreaks)
			assert.Empty(t, f.calendarRepo.createdBlocks)
			assert.Empty(t, f.cache.invalidatedTenants)
		})
	}
}

func TestService_UpdateSchedule_NoCacheConfigured(t *testing.T) {
	f := newFixture()
	f.svc.cache = nil

	req := &models.UpdateScheduleRequest{
		TenantID: f.tenantID,
		BusinessHours: []models.BusinessHourInput{
			{DayOfWeek: 1, IsOpen: true, OpenTime: "08:00", CloseTime: "18:00"},
		},
	}

	_, err := f.svc.UpdateSchedule(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, f.calendarRepo.upsertedHours, 1)
}
