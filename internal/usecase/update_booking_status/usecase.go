package update_booking_status

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/barberhub/booking-service/internal/domain"
	bookingRepo "github.com/barberhub/booking-service/internal/infra/storage/booking"
)

// UseCase use case для смены статуса бронирования по машине состояний
type UseCase struct {
	bookingRepo  BookingRepository
	cache        AvailabilityCache // nil, если кэш отключен
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepository BookingRepository,
	availabilityCache AvailabilityCache,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepository,
		cache:        availabilityCache,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute переводит бронирование в целевой статус.
// Переход в тот же статус - разрешенный no-op без записи в БД.
// Каждая реальная смена статуса дописывает в notes аудит-отметку.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateBookingStatus: booking=%s, target=%s", req.BookingID, req.Status)

	// 1. Валидация входных данных
	if req.BookingID == uuid.Nil {
		return nil, fmt.Errorf("%w: bookingId is required", ErrInvalidInput)
	}
	if req.Reason != nil && len(*req.Reason) > domain.MaxReasonLength {
		return nil, fmt.Errorf("%w: reason must not exceed %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	// 2. Разбираем целевой статус (без учета регистра)
	target, err := domain.ParseBookingStatus(strings.TrimSpace(req.Status))
	if err != nil {
		uc.logger.Warn("UpdateBookingStatus: unknown status %q", req.Status)
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	// 3. Получаем бронирование
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("UpdateBookingStatus: booking %s not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("UpdateBookingStatus: failed to get booking %s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	// 4. Переход в тот же статус - no-op
	if booking.Status == target {
		uc.logger.Info("UpdateBookingStatus: booking %s already in status %s", req.BookingID, target)
		return &Response{Booking: booking}, nil
	}

	// 5. Проверяем переход по машине состояний
	if !booking.Status.CanTransitionTo(target) {
		uc.logger.Warn("UpdateBookingStatus: transition %s -> %s is not allowed for booking %s",
			booking.Status, target, req.BookingID)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, target)
	}

	// 6. Аудит-отметка и запись
	from := booking.Status
	booking.AppendAuditNote(from, target, req.Reason, req.Notes, uc.timeProvider.Now())

	// Обновление условное (WHERE status = from): если между чтением и
	// записью статус сменил параллельный запрос, проигравший не затирает
	// результат победителя
	if err := uc.bookingRepo.UpdateStatus(ctx, req.BookingID, from, target, booking.Notes); err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			uc.logger.Warn("UpdateBookingStatus: booking %s changed concurrently", req.BookingID)
			return nil, fmt.Errorf("%w: booking status changed concurrently", ErrInvalidTransition)
		}
		uc.logger.Error("UpdateBookingStatus: failed to update booking %s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
	}
	booking.Status = target

	// 7. Отмена и неявка освобождают слот - сбрасываем кэш доступности
	if !booking.IsActive() {
		uc.invalidateCache(ctx, booking)
	}

	uc.logger.Info("UpdateBookingStatus: booking %s moved %s -> %s", req.BookingID, from, target)

	return &Response{Booking: booking}, nil
}

func (uc *UseCase) invalidateCache(ctx context.Context, booking *domain.Booking) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.InvalidateDay(ctx, booking.TenantID, booking.BookingDate); err != nil {
		uc.logger.Warn("UpdateBookingStatus: cache invalidation failed: %v", err)
	}
}
