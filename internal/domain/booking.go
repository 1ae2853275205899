package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/barberhub/booking-service/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
	StatusNoShow     BookingStatus = "no_show"
)

// statusTransitions допустимые переходы статусов.
// Терминальные статусы (completed, cancelled, no_show) не имеют исходящих ребер.
var statusTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
	StatusNoShow:     {},
}

// ParseBookingStatus парсит статус из строки без учета регистра.
// Принимает также варианты написания без подчеркивания ("inprogress", "noshow").
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, nil
	case "confirmed":
		return StatusConfirmed, nil
	case "in_progress", "inprogress":
		return StatusInProgress, nil
	case "completed":
		return StatusCompleted, nil
	case "cancelled", "canceled":
		return StatusCancelled, nil
	case "no_show", "noshow":
		return StatusNoShow, nil
	default:
		return "", fmt.Errorf("unknown booking status %q", s)
	}
}

// CanTransitionTo returns true if the status change is allowed.
// Self-transition is always allowed (no-op update).
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	if s == target {
		return true
	}
	for _, allowed := range statusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true for statuses without outgoing transitions
func (s BookingStatus) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

// Booking represents a booked time slot of a tenant
type Booking struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	ServiceID  uuid.UUID
	CustomerID *uuid.UUID

	// Denormalized customer snapshot for history
	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	BookingDate     time.Time        // Дата бронирования (без времени)
	BookingTime     types.TimeString // Время начала
	DurationMinutes int              // Снимок длительности услуги на момент создания

	// Denormalized service snapshot for history
	ServiceName  string
	ServicePrice float64

	Status BookingStatus
	Notes  *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies its time slot.
// Cancelled and no-show bookings release the slot.
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled && b.Status != StatusNoShow
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status.CanTransitionTo(StatusCancelled) && b.Status != StatusCancelled
}

// EndTime returns the exclusive end of the occupied interval
func (b *Booking) EndTime() (types.TimeString, error) {
	return b.BookingTime.AddMinutes(b.DurationMinutes)
}

// Overlaps сообщает, пересекается ли бронирование с интервалом [start, end).
// Граничные случаи (конец одного равен началу другого) пересечением не считаются.
func (b *Booking) Overlaps(start, end types.TimeString) bool {
	bookingEnd, err := b.EndTime()
	if err != nil {
		return false
	}
	return b.BookingTime.IsBefore(end) && bookingEnd.IsAfter(start)
}

// AppendAuditNote добавляет к notes отметку о смене статуса:
// "[dd/mm/yyyy HH:mm] Status alterado de {old} para {new}" с опциональными
// причиной и комментарием.
func (b *Booking) AppendAuditNote(from, to BookingStatus, reason, notes *string, at time.Time) {
	line := fmt.Sprintf("[%s] Status alterado de %s para %s", at.Format(AuditTimeFormat), from, to)
	if reason != nil && strings.TrimSpace(*reason) != "" {
		line += fmt.Sprintf(" - Motivo: %s", strings.TrimSpace(*reason))
	}
	if notes != nil && strings.TrimSpace(*notes) != "" {
		line += fmt.Sprintf(" - %s", strings.TrimSpace(*notes))
	}

	if b.Notes == nil || strings.TrimSpace(*b.Notes) == "" {
		b.Notes = &line
		return
	}
	combined := *b.Notes + "\n" + line
	b.Notes = &combined
}

// TenantBookingsFilter фильтр для выборки бронирований тенанта
type TenantBookingsFilter struct {
	TenantID        uuid.UUID
	StartDate       *time.Time     // Начало периода (вкл.), nil - без ограничения
	EndDate         *time.Time     // Конец периода (вкл.), nil - без ограничения
	Status          *BookingStatus // Конкретный статус, nil - все
	IncludeInactive bool           // Включать ли отмененные и no-show
}
