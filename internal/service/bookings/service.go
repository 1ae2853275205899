package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/barberhub/booking-service/internal/domain"
	bookingRepo "github.com/barberhub/booking-service/internal/infra/storage/booking"
	"github.com/barberhub/booking-service/internal/service/bookings/models"
	"github.com/barberhub/booking-service/pkg/ptr"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	cache        AvailabilityCache // nil, если кэш отключен
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepository BookingRepository,
	availabilityCache AvailabilityCache,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepository,
		cache:        availabilityCache,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking %s", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking %s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking %s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// ListByTenant получает бронирования тенанта с фильтрацией по периоду,
// статусу и включению неактивных бронирований
func (s *Service) ListByTenant(ctx context.Context, req *models.ListTenantBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("ListByTenant: fetching bookings for tenant=%s", req.TenantID)

	if req.TenantID == uuid.Nil {
		return nil, fmt.Errorf("%w: tenantId is required", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListByTenant: invalid status filter for tenant=%s: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByTenantWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListByTenant: repository error for tenant=%s: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: ListByTenant - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByTenant: fetched %d bookings for tenant=%s", len(bookings), req.TenantID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование с указанием причины.
// Отмена идет через ту же машину состояний: терминальные статусы
// отменить нельзя.
func (s *Service) Cancel(ctx context.Context, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking %s", req.BookingID)

	if req.BookingID == uuid.Nil {
		return nil, fmt.Errorf("%w: bookingId is required", ErrInvalidInput)
	}
	if len(req.Reason) > domain.MaxReasonLength {
		return nil, fmt.Errorf("%w: reason must not exceed %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking %s not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking %s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking %s in status %s cannot be cancelled", req.BookingID, booking.Status)
		return nil, fmt.Errorf("%w: status %s", ErrCannotCancel, booking.Status)
	}

	from := booking.Status
	var reason *string
	if strings.TrimSpace(req.Reason) != "" {
		reason = ptr.Ptr(req.Reason)
	}
	booking.AppendAuditNote(from, domain.StatusCancelled, reason, nil, s.timeProvider.Now())

	if err := s.bookingRepo.UpdateStatus(ctx, req.BookingID, from, domain.StatusCancelled, booking.Notes); err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			s.logger.Warn("Cancel: booking %s changed concurrently", req.BookingID)
			return nil, fmt.Errorf("%w: booking status changed concurrently", ErrCannotCancel)
		}
		s.logger.Error("Cancel: failed to update booking %s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: Cancel - update error: %v", ErrInternal, err)
	}
	booking.Status = domain.StatusCancelled

	// Отмена освобождает слот - сбрасываем кэш доступности
	if s.cache != nil {
		if err := s.cache.InvalidateDay(ctx, booking.TenantID, booking.BookingDate); err != nil {
			s.logger.Warn("Cancel: cache invalidation failed: %v", err)
		}
	}

	s.logger.Info("Cancel: booking %s moved %s -> cancelled", req.BookingID, from)
	return models.FromDomainBooking(booking), nil
}
