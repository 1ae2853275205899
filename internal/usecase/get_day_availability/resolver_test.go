package get_day_availability

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barberhub/booking-service/internal/domain"
	"github.com/barberhub/booking-service/pkg/ptr"
	"github.com/barberhub/booking-service/pkg/types"
)

func TestGenerateSlots(t *testing.T) {
	tests := []struct {
		name            string
		open            types.TimeString
		close           types.TimeString
		granularity     int
		serviceDuration int
		wantCount       int
		wantFirst       types.TimeString
		wantLast        types.TimeString
	}{
		{
			name:            "full working day with 30 minute slots",
			open:            "08:00",
			close:           "18:00",
			granularity:     30,
			serviceDuration: 30,
			wantCount:       20,
			wantFirst:       "08:00",
			wantLast:        "17:30",
		},
		{
			name:            "service longer than granularity trims tail",
			open:            "08:00",
			close:           "18:00",
			granularity:     30,
			serviceDuration: 60,
			wantCount:       19,
			wantFirst:       "08:00",
			wantLast:        "17:00",
		},
		{
			name:            "service ending exactly at close is included",
			open:            "09:00",
			close:           "10:00",
			granularity:     30,
			serviceDuration: 60,
			wantCount:       1,
			wantFirst:       "09:00",
			wantLast:        "09:00",
		},
		{
			name:            "open equals close yields nothing",
			open:            "09:00",
			close:           "09:00",
			granularity:     30,
			serviceDuration: 30,
			wantCount:       0,
		},
		{
			name:            "service does not fit at all",
			open:            "09:00",
			close:           "09:30",
			granularity:     15,
			serviceDuration: 45,
			wantCount:       0,
		},
		{
			// Кандидат 23:00 заканчивается на границе суток "24:00" -
			// это позже закрытия 23:30, слот не включается
			name:            "service ending at day boundary past close is excluded",
			open:            "20:00",
			close:           "23:30",
			granularity:     30,
			serviceDuration: 60,
			wantCount:       6,
			wantFirst:       "20:00",
			wantLast:        "22:30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots, err := generateSlots(tt.open, tt.close, tt.granularity, tt.serviceDuration)
			require.NoError(t, err)
			require.Len(t, slots, tt.wantCount)

			if tt.wantCount > 0 {
				assert.Equal(t, tt.wantFirst, slots[0])
				assert.Equal(t, tt.wantLast, slots[len(slots)-1])
			}
		})
	}
}

func TestResolveEffectiveWindow(t *testing.T) {
	monday := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC) // понедельник
	mondayHours := []*domain.BusinessHour{
		{DayOfWeek: 1, IsOpen: true, OpenTime: "08:00", CloseTime: "18:00"},
	}

	t.Run("holiday closes the day", func(t *testing.T) {
		w := resolveEffectiveWindow(&domain.SpecialDay{
			Type:   domain.SpecialDayHoliday,
			Name:   "Natal",
			IsOpen: false,
		}, mondayHours, nil, monday)

		assert.False(t, w.IsOpen)
		assert.Equal(t, domain.ReasonHoliday, w.ReasonCode)
		assert.Equal(t, "Natal", w.ReasonDetail)
	})

	t.Run("regular weekday hours apply", func(t *testing.T) {
		w := resolveEffectiveWindow(nil, mondayHours, nil, monday)

		require.True(t, w.IsOpen)
		assert.Equal(t, types.TimeString("08:00"), w.OpenTime)
		assert.Equal(t, types.TimeString("18:00"), w.CloseTime)
	})

	t.Run("no weekday record means closed", func(t *testing.T) {
		sunday := time.Date(2025, 10, 12, 0, 0, 0, 0, time.UTC)
		w := resolveEffectiveWindow(nil, mondayHours, nil, sunday)

		assert.False(t, w.IsOpen)
		assert.Equal(t, domain.ReasonClosed, w.ReasonCode)
	})

	t.Run("special day custom hours override weekday", func(t *testing.T) {
		w := resolveEffectiveWindow(&domain.SpecialDay{
			Type:            domain.SpecialDaySpecialHours,
			IsOpen:          true,
			CustomStartTime: ptr.Ptr(types.TimeString("10:00")),
			CustomEndTime:   ptr.Ptr(types.TimeString("14:00")),
		}, mondayHours, nil, monday)

		require.True(t, w.IsOpen)
		assert.Equal(t, types.TimeString("10:00"), w.OpenTime)
		assert.Equal(t, types.TimeString("14:00"), w.CloseTime)
	})

	t.Run("missing custom bound falls back to weekday hours", func(t *testing.T) {
		w := resolveEffectiveWindow(&domain.SpecialDay{
			Type:          domain.SpecialDaySpecialHours,
			IsOpen:        true,
			CustomEndTime: ptr.Ptr(types.TimeString("13:00")),
		}, mondayHours, nil, monday)

		require.True(t, w.IsOpen)
		assert.Equal(t, types.TimeString("08:00"), w.OpenTime)
		assert.Equal(t, types.TimeString("13:00"), w.CloseTime)
	})

	t.Run("full day block wins over open schedule", func(t *testing.T) {
		w := resolveEffectiveWindow(nil, mondayHours, []*domain.ManualBlock{
			{Type: domain.BlockFullDay, Reason: "Reforma do salão"},
		}, monday)

		assert.False(t, w.IsOpen)
		assert.Equal(t, domain.ReasonBlocked, w.ReasonCode)
		assert.Equal(t, "Reforma do salão", w.ReasonDetail)
	})

	t.Run("full day block wins over open special day", func(t *testing.T) {
		w := resolveEffectiveWindow(&domain.SpecialDay{
			Type:            domain.SpecialDaySpecialHours,
			IsOpen:          true,
			CustomStartTime: ptr.Ptr(types.TimeString("10:00")),
			CustomEndTime:   ptr.Ptr(types.TimeString("14:00")),
		}, mondayHours, []*domain.ManualBlock{
			{Type: domain.BlockFullDay, Reason: "Manutenção"},
		}, monday)

		assert.False(t, w.IsOpen)
		assert.Equal(t, domain.ReasonBlocked, w.ReasonCode)
	})
}

func TestClassifySlots(t *testing.T) {
	grid, err := generateSlots("08:00", "12:00", 30, 30)
	require.NoError(t, err)
	require.Len(t, grid, 8)

	breaks := []*domain.BusinessBreak{
		{StartTime: "10:00", EndTime: "11:00", Name: "Almoço", AppliesToAllDays: true},
		{StartTime: "08:00", EndTime: "09:00", Name: "ignored", AppliesToAllDays: false},
	}
	blocks := []*domain.ManualBlock{
		{
			Type:      domain.BlockTemporary,
			StartTime: ptr.Ptr(types.TimeString("11:00")),
			EndTime:   ptr.Ptr(types.TimeString("11:30")),
			Reason:    "Dentista",
		},
	}
	bookingID := uuid.New()
	bookings := []*domain.Booking{
		{
			ID:              bookingID,
			CustomerName:    "João Silva",
			ServiceName:     "Corte Masculino",
			BookingTime:     "08:30",
			DurationMinutes: 30,
			Status:          domain.StatusConfirmed,
		},
		{
			// отмененное бронирование не занимает слот
			BookingTime:     "09:00",
			DurationMinutes: 30,
			Status:          domain.StatusCancelled,
		},
	}

	available, occupied, blocked := classifySlots(grid, 30, breaks, blocks, bookings)

	// Три множества попарно не пересекаются и покрывают всю сетку
	assert.Equal(t, len(grid), len(available)+len(occupied)+len(blocked))

	seen := make(map[types.TimeString]int)
	for _, s := range available {
		seen[s]++
	}
	for _, s := range occupied {
		seen[s.Time]++
	}
	for _, s := range blocked {
		seen[s.Time]++
	}
	for slot, count := range seen {
		assert.Equal(t, 1, count, "slot %s classified more than once", slot)
	}

	require.Len(t, occupied, 1)
	assert.Equal(t, types.TimeString("08:30"), occupied[0].Time)
	assert.Equal(t, bookingID, occupied[0].BookingID)
	assert.Equal(t, "João Silva", occupied[0].CustomerName)

	require.Len(t, blocked, 3)
	assert.Equal(t, types.TimeString("10:00"), blocked[0].Time)
	assert.Equal(t, domain.SlotReasonBreak, blocked[0].Reason)
	assert.Equal(t, types.TimeString("10:30"), blocked[1].Time)
	assert.Equal(t, types.TimeString("11:00"), blocked[2].Time)
	assert.Equal(t, domain.SlotReasonManualBlock, blocked[2].Reason)
	assert.Equal(t, "Dentista", blocked[2].Detail)

	// 08:00, 09:00, 09:30, 11:30 свободны; 09:00 свободен, т.к. бронирование отменено
	assert.Equal(t, []types.TimeString{"08:00", "09:00", "09:30", "11:30"}, available)
}

func TestClassifySlots_LongServiceShadowsNeighbours(t *testing.T) {
	grid, err := generateSlots("09:00", "11:00", 30, 60)
	require.NoError(t, err)
	require.Equal(t, []types.TimeString{"09:00", "09:30", "10:00"}, grid)

	bookings := []*domain.Booking{
		{
			ID:              uuid.New(),
			BookingTime:     "09:30",
			DurationMinutes: 60,
			Status:          domain.StatusPending,
		},
	}

	available, occupied, _ := classifySlots(grid, 60, nil, nil, bookings)

	// Часовая услуга в 09:00 пересеклась бы с бронированием 09:30-10:30,
	// поэтому занятыми считаются все три кандидата
	assert.Empty(t, available)
	assert.Len(t, occupied, 3)
}
