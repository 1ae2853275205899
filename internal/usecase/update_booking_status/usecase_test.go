package update_booking_status

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barberhub/booking-service/internal/domain"
	bookingRepo "github.com/barberhub/booking-service/internal/infra/storage/booking"
	"github.com/barberhub/booking-service/pkg/ptr"
)

type stubBookingRepo struct {
	booking *domain.Booking

	updatedStatus *domain.BookingStatus
	updatedNotes  *string

	// эмулирует конкурентную смену статуса между чтением и записью
	statusAtWrite *domain.BookingStatus
}

func (s *stubBookingRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Booking, error) {
	if s.booking == nil || s.booking.ID != id {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *s.booking
	return &copied, nil
}

func (s *stubBookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to domain.BookingStatus, notes *string) error {
	if s.booking == nil || s.booking.ID != id {
		return bookingRepo.ErrStatusConflict
	}
	current := s.booking.Status
	if s.statusAtWrite != nil {
		current = *s.statusAtWrite
	}
	if current != from {
		return bookingRepo.ErrStatusConflict
	}
	s.updatedStatus = &to
	s.updatedNotes = notes
	return nil
}

type spyCache struct {
	invalidated int
}

func (s *spyCache) InvalidateDay(_ context.Context, _ uuid.UUID, _ time.Time) error {
	s.invalidated++
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

func newFixture(status domain.BookingStatus) (*UseCase, *stubBookingRepo, *spyCache, uuid.UUID) {
	repo := &stubBookingRepo{
		booking: &domain.Booking{
			ID:          uuid.New(),
			TenantID:    uuid.New(),
			BookingDate: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
			BookingTime: "14:30",
			Status:      status,
		},
	}
	cache := &spyCache{}

	uc := NewUseCase(repo, cache, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2025, 10, 15, 14, 30, 0, 0, time.UTC)}

	return uc, repo, cache, repo.booking.ID
}

func TestUseCase_Execute_ConfirmAppendsAuditNote(t *testing.T) {
	uc, repo, cache, id := newFixture(domain.StatusPending)

	resp, err := uc.Execute(context.Background(), &Request{BookingID: id, Status: "confirmed"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConfirmed, resp.Booking.Status)
	require.NotNil(t, repo.updatedStatus)
	assert.Equal(t, domain.StatusConfirmed, *repo.updatedStatus)

	require.NotNil(t, repo.updatedNotes)
	assert.Equal(t, "[15/10/2025 14:30] Status alterado de pending para confirmed", *repo.updatedNotes)

	// Подтверждение не освобождает слот - кэш не трогаем
	assert.Equal(t, 0, cache.invalidated)
}

func TestUseCase_Execute_CancelWithReason(t *testing.T) {
	uc, repo, cache, id := newFixture(domain.StatusConfirmed)

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID: id,
		Status:    "CANCELLED",
		Reason:    ptr.Ptr("Cliente desistiu"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, resp.Booking.Status)
	require.NotNil(t, repo.updatedNotes)
	assert.Equal(t,
		"[15/10/2025 14:30] Status alterado de confirmed para cancelled - Motivo: Cliente desistiu",
		*repo.updatedNotes)

	// Отмена освобождает слот - кэш сброшен
	assert.Equal(t, 1, cache.invalidated)
}

func TestUseCase_Execute_AuditNotesAccumulate(t *testing.T) {
	uc, repo, _, id := newFixture(domain.StatusPending)
	repo.booking.Notes = ptr.Ptr("[10/10/2025 09:00] Status alterado de pending para pending")

	_, err := uc.Execute(context.Background(), &Request{BookingID: id, Status: "confirmed"})
	require.NoError(t, err)

	require.NotNil(t, repo.updatedNotes)
	assert.Contains(t, *repo.updatedNotes, "[10/10/2025 09:00]")
	assert.Contains(t, *repo.updatedNotes, "\n[15/10/2025 14:30] Status alterado de pending para confirmed")
}

func TestUseCase_Execute_SelfTransitionIsNoOp(t *testing.T) {
	uc, repo, cache, id := newFixture(domain.StatusConfirmed)

	resp, err := uc.Execute(context.Background(), &Request{BookingID: id, Status: "confirmed"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConfirmed, resp.Booking.Status)
	assert.Nil(t, repo.updatedStatus, "self-transition must not write")
	assert.Equal(t, 0, cache.invalidated)
}

func TestUseCase_Execute_ConcurrentStatusChangeConflicts(t *testing.T) {
	uc, repo, cache, id := newFixture(domain.StatusPending)
	// Между чтением и записью другой запрос уже отменил бронирование
	repo.statusAtWrite = ptr.Ptr(domain.StatusCancelled)

	_, err := uc.Execute(context.Background(), &Request{BookingID: id, Status: "confirmed"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Nil(t, repo.updatedStatus, "losing writer must not overwrite")
	assert.Equal(t, 0, cache.invalidated)
}

func TestUseCase_Execute_TransitionMatrix(t *testing.T) {
	tests := []struct {
		from    domain.BookingStatus
		target  string
		allowed bool
	}{
		{domain.StatusPending, "confirmed", true},
		{domain.StatusPending, "cancelled", true},
		{domain.StatusPending, "completed", false},
		{domain.StatusPending, "no_show", false},
		{domain.StatusConfirmed, "in_progress", true},
		{domain.StatusConfirmed, "no_show", true},
		{domain.StatusConfirmed, "completed", false},
		{domain.StatusInProgress, "completed", true},
		{domain.StatusInProgress, "cancelled", true},
		{domain.StatusInProgress, "no_show", false},
		{domain.StatusCompleted, "cancelled", false},
		{domain.StatusCancelled, "pending", false},
		{domain.StatusNoShow, "confirmed", false},
	}

	for _, tt := range tests {
		name := string(tt.from) + " to " + tt.target
		t.Run(name, func(t *testing.T) {
			uc, _, _, id := newFixture(tt.from)

			_, err := uc.Execute(context.Background(), &Request{BookingID: id, Status: tt.target})
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			}
		})
	}
}

func TestUseCase_Execute_Errors(t *testing.T) {
	uc, _, _, id := newFixture(domain.StatusPending)

	t.Run("unknown status string", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{BookingID: id, Status: "banana"})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("unknown booking", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{BookingID: uuid.New(), Status: "confirmed"})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("missing booking id", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{Status: "confirmed"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
