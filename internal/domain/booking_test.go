package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barberhub/booking-service/pkg/ptr"
	"github.com/barberhub/booking-service/pkg/types"
)

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{name: "pending to confirmed", from: StatusPending, to: StatusConfirmed, allowed: true},
		{name: "pending to cancelled", from: StatusPending, to: StatusCancelled, allowed: true},
		{name: "pending to no_show is not a direct edge", from: StatusPending, to: StatusNoShow, allowed: false},
		{name: "pending to completed", from: StatusPending, to: StatusCompleted, allowed: false},
		{name: "confirmed to in_progress", from: StatusConfirmed, to: StatusInProgress, allowed: true},
		{name: "confirmed to no_show", from: StatusConfirmed, to: StatusNoShow, allowed: true},
		{name: "confirmed to cancelled", from: StatusConfirmed, to: StatusCancelled, allowed: true},
		{name: "confirmed to completed", from: StatusConfirmed, to: StatusCompleted, allowed: false},
		{name: "in_progress to completed", from: StatusInProgress, to: StatusCompleted, allowed: true},
		{name: "in_progress to cancelled", from: StatusInProgress, to: StatusCancelled, allowed: true},
		{name: "in_progress to no_show", from: StatusInProgress, to: StatusNoShow, allowed: false},
		{name: "completed is terminal", from: StatusCompleted, to: StatusCancelled, allowed: false},
		{name: "cancelled is terminal", from: StatusCancelled, to: StatusPending, allowed: false},
		{name: "no_show is terminal", from: StatusNoShow, to: StatusConfirmed, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestBookingStatus_SelfTransitionAlwaysAllowed(t *testing.T) {
	statuses := []BookingStatus{
		StatusPending, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow,
	}
	for _, s := range statuses {
		assert.True(t, s.CanTransitionTo(s), "self-transition must be allowed for %s", s)
	}
}

func TestParseBookingStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    BookingStatus
		wantErr bool
	}{
		{input: "pending", want: StatusPending},
		{input: "Confirmed", want: StatusConfirmed},
		{input: "IN_PROGRESS", want: StatusInProgress},
		{input: "inprogress", want: StatusInProgress},
		{input: "NoShow", want: StatusNoShow},
		{input: "no_show", want: StatusNoShow},
		{input: " completed ", want: StatusCompleted},
		{input: "canceled", want: StatusCancelled},
		{input: "unknown", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBookingStatus(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBooking_Overlaps(t *testing.T) {
	booking := &Booking{
		BookingTime:     types.TimeString("09:00"),
		DurationMinutes: 30,
		Status:          StatusConfirmed,
	}

	// Реальное пересечение
	assert.True(t, booking.Overlaps("09:15", "09:45"))
	assert.True(t, booking.Overlaps("08:45", "09:15"))
	assert.True(t, booking.Overlaps("09:00", "09:30"))

	// Граница впритык - не пересечение
	assert.False(t, booking.Overlaps("09:30", "10:00"))
	assert.False(t, booking.Overlaps("08:30", "09:00"))
}

func TestBooking_OverlapsAtDayBoundary(t *testing.T) {
	// Бронирование занимает [23:00, 24:00) - последний час суток
	booking := &Booking{
		BookingTime:     types.TimeString("23:00"),
		DurationMinutes: 60,
		Status:          StatusConfirmed,
	}

	assert.True(t, booking.Overlaps("23:00", "23:30"))
	assert.True(t, booking.Overlaps("23:30", "24:00"))
	assert.False(t, booking.Overlaps("22:30", "23:00"))
}

func TestBooking_AppendAuditNote(t *testing.T) {
	at := time.Date(2025, 10, 15, 14, 30, 0, 0, time.UTC)

	t.Run("first note without extras", func(t *testing.T) {
		b := &Booking{}
		b.AppendAuditNote(StatusPending, StatusConfirmed, nil, nil, at)
		require.NotNil(t, b.Notes)
		assert.Equal(t, "[15/10/2025 14:30] Status alterado de pending para confirmed", *b.Notes)
	})

	t.Run("with reason and notes", func(t *testing.T) {
		b := &Booking{}
		b.AppendAuditNote(StatusConfirmed, StatusCancelled, ptr.Ptr("cliente desistiu"), ptr.Ptr("reembolso feito"), at)
		require.NotNil(t, b.Notes)
		assert.Equal(t,
			"[15/10/2025 14:30] Status alterado de confirmed para cancelled - Motivo: cliente desistiu - reembolso feito",
			*b.Notes)
	})

	t.Run("appends to existing notes", func(t *testing.T) {
		b := &Booking{Notes: ptr.Ptr("primeira linha")}
		b.AppendAuditNote(StatusPending, StatusConfirmed, nil, nil, at)
		require.NotNil(t, b.Notes)
		assert.Equal(t, "primeira linha\n[15/10/2025 14:30] Status alterado de pending para confirmed", *b.Notes)
	})
}

func TestBooking_IsActive(t *testing.T) {
	for _, s := range []BookingStatus{StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted} {
		b := &Booking{Status: s}
		assert.True(t, b.IsActive(), "status %s must occupy the slot", s)
	}
	for _, s := range InactiveStatuses {
		b := &Booking{Status: s}
		assert.False(t, b.IsActive(), "status %s must release the slot", s)
	}
}
