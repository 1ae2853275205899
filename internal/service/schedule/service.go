package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/barberhub/booking-service/internal/domain"
	calendarRepo "github.com/barberhub/booking-service/internal/infra/storage/calendar"
	tenantRepo "github.com/barberhub/booking-service/internal/infra/storage/tenant"
	"github.com/barberhub/booking-service/internal/service/schedule/models"
)

// defaultListRangeDays горизонт выборки особых дней и блокировок,
// когда период не задан явно
const defaultListRangeDays = 90

// Service сервис управления календарной конфигурацией тенанта
type Service struct {
	tenantRepo   TenantRepository
	calendarRepo CalendarRepository
	cache        AvailabilityCache // nil, если кэш отключен
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	tenantRepository TenantRepository,
	calendarRepository CalendarRepository,
	availabilityCache AvailabilityCache,
	logger Logger,
) *Service {
	return &Service{
		tenantRepo:   tenantRepository,
		calendarRepo: calendarRepository,
		cache:        availabilityCache,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetSchedule возвращает полную календарную конфигурацию тенанта:
// часы работы, перерывы, особые дни, блокировки и настройки.
// Особые дни и блокировки выбираются за период [from, to]; по умолчанию
// от сегодня на defaultListRangeDays вперед.
func (s *Service) GetSchedule(ctx context.Context, tenantID uuid.UUID, from, to *time.Time) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: fetching schedule for tenant=%s", tenantID)

	if tenantID == uuid.Nil {
		return nil, fmt.Errorf("%w: tenantId is required", ErrInvalidInput)
	}

	if _, err := s.tenantRepo.GetByID(ctx, tenantID); err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			s.logger.Warn("GetSchedule: tenant %s not found", tenantID)
			return nil, ErrTenantNotFound
		}
		s.logger.Error("GetSchedule: tenant lookup failed for %s: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetSchedule - tenant lookup: %v", ErrInternal, err)
	}

	rangeFrom, rangeTo := s.listRange(from, to)
	return s.buildSchedule(ctx, tenantID, rangeFrom, rangeTo)
}

// UpdateSchedule изменяет календарную конфигурацию тенанта.
// Часы работы и настройки заменяются целиком, особые дни, перерывы и
// блокировки добавляются и удаляются по спискам. Все входные данные
// проходят доменную валидацию до первой записи.
func (s *Service) UpdateSchedule(ctx context.Context, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("UpdateSchedule: updating schedule for tenant=%s", req.TenantID)

	if req.TenantID == uuid.Nil {
		return nil, fmt.Errorf("%w: tenantId is required", ErrInvalidInput)
	}

	if _, err := s.tenantRepo.GetByID(ctx, req.TenantID); err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			s.logger.Warn("UpdateSchedule: tenant %s not found", req.TenantID)
			return nil, ErrTenantNotFound
		}
		s.logger.Error("UpdateSchedule: tenant lookup failed for %s: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: UpdateSchedule - tenant lookup: %v", ErrInternal, err)
	}

	// 1. Конвертируем и валидируем весь запрос до первой записи,
	// чтобы не оставить конфигурацию наполовину обновленной
	plan, err := buildUpdatePlan(req)
	if err != nil {
		s.logger.Warn("UpdateSchedule: validation failed for tenant=%s: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Применяем изменения
	if err := s.applyUpdatePlan(ctx, plan); err != nil {
		return nil, err
	}

	// 3. Расписание влияет на все даты - сбрасываем кэш тенанта
	if s.cache != nil {
		if err := s.cache.InvalidateTenant(ctx, req.TenantID); err != nil {
			s.logger.Warn("UpdateSchedule: cache invalidation failed for tenant=%s: %v", req.TenantID, err)
		}
	}

	s.logger.Info("UpdateSchedule: schedule updated for tenant=%s", req.TenantID)

	rangeFrom, rangeTo := s.listRange(nil, nil)
	return s.buildSchedule(ctx, req.TenantID, rangeFrom, rangeTo)
}

// updatePlan провалидированные доменные модели запроса на обновление
type updatePlan struct {
	tenantID uuid.UUID

	businessHours []*domain.BusinessHour
	settings      *domain.TenantSetting

	addSpecialDays      []*domain.SpecialDay
	removeSpecialDayIDs []uuid.UUID

	addBreaks      []*domain.BusinessBreak
	removeBreakIDs []uuid.UUID

	addBlocks      []*domain.ManualBlock
	removeBlockIDs []uuid.UUID
}

func buildUpdatePlan(req *models.UpdateScheduleRequest) (*updatePlan, error) {
	plan := &updatePlan{
		tenantID:            req.TenantID,
		removeSpecialDayIDs: req.RemoveSpecialDayIDs,
		removeBreakIDs:      req.RemoveBreakIDs,
		removeBlockIDs:      req.RemoveBlockIDs,
	}

	seenDays := make(map[int]bool, len(req.BusinessHours))
	for i := range req.BusinessHours {
		hour, err := req.BusinessHours[i].ToDomain(req.TenantID)
		if err != nil {
			return nil, fmt.Errorf("businessHours[%d]: %v", i, err)
		}
		if seenDays[hour.DayOfWeek] {
			return nil, fmt.Errorf("businessHours[%d]: duplicate day of week %d", i, hour.DayOfWeek)
		}
		seenDays[hour.DayOfWeek] = true
		plan.businessHours = append(plan.businessHours, hour)
	}

	if req.Settings != nil {
		setting, err := req.Settings.ToDomain(req.TenantID)
		if err != nil {
			return nil, fmt.Errorf("settings: %v", err)
		}
		plan.settings = setting
	}

	for i := range req.AddSpecialDays {
		day, err := req.AddSpecialDays[i].ToDomain(req.TenantID)
		if err != nil {
			return nil, fmt.Errorf("addSpecialDays[%d]: %v", i, err)
		}
		plan.addSpecialDays = append(plan.addSpecialDays, day)
	}

	for i := range req.AddBreaks {
		brk, err := req.AddBreaks[i].ToDomain(req.TenantID)
		if err != nil {
			return nil, fmt.Errorf("addBreaks[%d]: %v", i, err)
		}
		plan.addBreaks = append(plan.addBreaks, brk)
	}

	for i := range req.AddBlocks {
		block, err := req.AddBlocks[i].ToDomain(req.TenantID)
		if err != nil {
			return nil, fmt.Errorf("addBlocks[%d]: %v", i, err)
		}
		plan.addBlocks = append(plan.addBlocks, block)
	}

	return plan, nil
}

func (s *Service) applyUpdatePlan(ctx context.Context, plan *updatePlan) error {
	for _, hour := range plan.businessHours {
		if err := s.calendarRepo.UpsertBusinessHour(ctx, hour); err != nil {
			s.logger.Error("UpdateSchedule: upsert business hour day=%d failed: %v", hour.DayOfWeek, err)
			return fmt.Errorf("%w: UpdateSchedule - upsert business hour: %v", ErrInternal, err)
		}
	}

	if plan.settings != nil {
		if err := s.calendarRepo.UpsertTenantSetting(ctx, plan.settings); err != nil {
			s.logger.Error("UpdateSchedule: upsert settings failed: %v", err)
			return fmt.Errorf("%w: UpdateSchedule - upsert settings: %v", ErrInternal, err)
		}
	}

	for _, day := range plan.addSpecialDays {
		if err := s.calendarRepo.UpsertSpecialDay(ctx, day); err != nil {
			s.logger.Error("UpdateSchedule: upsert special day %s failed: %v", day.Date.Format(domain.DateFormat), err)
			return fmt.Errorf("%w: UpdateSchedule - upsert special day: %v", ErrInternal, err)
		}
	}
	for _, id := range plan.removeSpecialDayIDs {
		if err := s.calendarRepo.DeleteSpecialDay(ctx, plan.tenantID, id); err != nil {
			s.logger.Error("UpdateSchedule: delete special day %s failed: %v", id, err)
			return fmt.Errorf("%w: UpdateSchedule - delete special day: %v", ErrInternal, err)
		}
	}

	for _, brk := range plan.addBreaks {
		if err := s.calendarRepo.CreateBusinessBreak(ctx, brk); err != nil {
			s.logger.Error("UpdateSchedule: create break %s failed: %v", brk.Name, err)
			return fmt.Errorf("%w: UpdateSchedule - create break: %v", ErrInternal, err)
		}
	}
	for _, id := range plan.removeBreakIDs {
		if err := s.calendarRepo.DeleteBusinessBreak(ctx, plan.tenantID, id); err != nil {
			s.logger.Error("UpdateSchedule: delete break %s failed: %v", id, err)
			return fmt.Errorf("%w: UpdateSchedule - delete break: %v", ErrInternal, err)
		}
	}

	for _, block := range plan.addBlocks {
		if err := s.calendarRepo.CreateManualBlock(ctx, block); err != nil {
			s.logger.Error("UpdateSchedule: create block on %s failed: %v", block.Date.Format(domain.DateFormat), err)
			return fmt.Errorf("%w: UpdateSchedule - create block: %v", ErrInternal, err)
		}
	}
	for _, id := range plan.removeBlockIDs {
		if err := s.calendarRepo.DeleteManualBlock(ctx, plan.tenantID, id); err != nil {
			s.logger.Error("UpdateSchedule: delete block %s failed: %v", id, err)
			return fmt.Errorf("%w: UpdateSchedule - delete block: %v", ErrInternal, err)
		}
	}

	return nil
}

func (s *Service) buildSchedule(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (*models.ScheduleResponse, error) {
	hours, err := s.calendarRepo.GetBusinessHours(ctx, tenantID)
	if err != nil {
		s.logger.Error("GetSchedule: business hours lookup failed for tenant=%s: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetSchedule - business hours: %v", ErrInternal, err)
	}

	breaks, err := s.calendarRepo.GetBusinessBreaks(ctx, tenantID)
	if err != nil {
		s.logger.Error("GetSchedule: breaks lookup failed for tenant=%s: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetSchedule - breaks: %v", ErrInternal, err)
	}

	specialDays, err := s.calendarRepo.ListSpecialDays(ctx, tenantID, from, to)
	if err != nil {
		s.logger.Error("GetSchedule: special days lookup failed for tenant=%s: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetSchedule - special days: %v", ErrInternal, err)
	}

	blocks, err := s.calendarRepo.ListManualBlocks(ctx, tenantID, from, to)
	if err != nil {
		s.logger.Error("GetSchedule: blocks lookup failed for tenant=%s: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetSchedule - blocks: %v", ErrInternal, err)
	}

	setting, err := s.calendarRepo.GetTenantSetting(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, calendarRepo.ErrSettingsNotFound) {
			s.logger.Error("GetSchedule: settings lookup failed for tenant=%s: %v", tenantID, err)
			return nil, fmt.Errorf("%w: GetSchedule - settings: %v", ErrInternal, err)
		}
		setting = domain.DefaultTenantSetting(tenantID)
	}

	resp := &models.ScheduleResponse{
		TenantID:      tenantID,
		BusinessHours: make([]models.BusinessHourResponse, 0, len(hours)),
		Breaks:        make([]models.BreakResponse, 0, len(breaks)),
		SpecialDays:   make([]models.SpecialDayResponse, 0, len(specialDays)),
		ManualBlocks:  make([]models.ManualBlockResponse, 0, len(blocks)),
		Settings:      models.FromDomainSettings(setting),
	}

	for _, hour := range hours {
		resp.BusinessHours = append(resp.BusinessHours, models.FromDomainBusinessHour(hour))
	}
	for _, brk := range breaks {
		resp.Breaks = append(resp.Breaks, models.FromDomainBreak(brk))
	}
	for _, day := range specialDays {
		resp.SpecialDays = append(resp.SpecialDays, models.FromDomainSpecialDay(day))
	}
	for _, block := range blocks {
		resp.ManualBlocks = append(resp.ManualBlocks, models.FromDomainManualBlock(block))
	}

	return resp, nil
}

func (s *Service) listRange(from, to *time.Time) (time.Time, time.Time) {
	now := s.timeProvider.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	rangeFrom := today
	if from != nil {
		rangeFrom = *from
	}
	rangeTo := rangeFrom.AddDate(0, 0, defaultListRangeDays)
	if to != nil {
		rangeTo = *to
	}
	return rangeFrom, rangeTo
}
