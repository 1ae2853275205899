package get_day_availability

import (
	"time"

	"github.com/barberhub/booking-service/internal/domain"
	"github.com/barberhub/booking-service/pkg/types"
)

// effectiveWindow результат разрешения окна работы на день
type effectiveWindow struct {
	IsOpen       bool
	OpenTime     types.TimeString
	CloseTime    types.TimeString
	ReasonCode   domain.ClosureReason // Заполнен, когда день закрыт
	ReasonDetail string
}

// resolveEffectiveWindow определяет эффективное окно работы на дату.
// Порядок разрешения: особый день переопределяет недельное расписание,
// блок на весь день закрывает день независимо от остального.
// День закрыт, если ЛЮБОЙ из источников говорит "закрыто".
func resolveEffectiveWindow(
	specialDay *domain.SpecialDay,
	businessHours []*domain.BusinessHour,
	blocks []*domain.ManualBlock,
	date time.Time,
) effectiveWindow {
	// 1. Особый день: закрытый день замыкает разрешение сразу
	if specialDay != nil && !specialDay.IsOpen {
		return effectiveWindow{
			IsOpen:       false,
			ReasonCode:   specialDay.Type.ClosureReason(),
			ReasonDetail: specialDay.Name,
		}
	}

	// 2. Недельное расписание на этот день недели
	var weekday *domain.BusinessHour
	for _, h := range businessHours {
		if h.DayOfWeek == int(date.Weekday()) {
			weekday = h
			break
		}
	}

	openTime, closeTime := types.TimeString(""), types.TimeString("")
	if weekday != nil && weekday.IsOpen {
		openTime, closeTime = weekday.OpenTime, weekday.CloseTime
	}

	// 3. Кастомные часы открытого особого дня; отсутствующая граница
	// наследуется из недельного расписания
	if specialDay != nil && specialDay.IsOpen {
		if specialDay.CustomStartTime != nil {
			openTime = *specialDay.CustomStartTime
		}
		if specialDay.CustomEndTime != nil {
			closeTime = *specialDay.CustomEndTime
		}
	}

	if openTime.IsZero() || closeTime.IsZero() || !openTime.IsBefore(closeTime) {
		return effectiveWindow{
			IsOpen:     false,
			ReasonCode: domain.ReasonClosed,
		}
	}

	// 4. Блок на весь день закрывает день даже при открытом расписании
	for _, b := range blocks {
		if b.Type == domain.BlockFullDay {
			return effectiveWindow{
				IsOpen:       false,
				ReasonCode:   domain.ReasonBlocked,
				ReasonDetail: b.Reason,
			}
		}
	}

	return effectiveWindow{
		IsOpen:    true,
		OpenTime:  openTime,
		CloseTime: closeTime,
	}
}

// generateSlots генерирует сетку кандидатов времени начала с шагом granularity.
// Кандидат включается, только если услуга целиком помещается до закрытия:
// candidate + serviceDuration <= closeTime.
func generateSlots(openTime, closeTime types.TimeString, granularityMinutes, serviceDurationMinutes int) ([]types.TimeString, error) {
	slots := make([]types.TimeString, 0)

	if !openTime.IsBefore(closeTime) || granularityMinutes <= 0 {
		return slots, nil
	}

	current := openTime
	for current.IsBefore(closeTime) {
		serviceEnd, err := current.AddMinutes(serviceDurationMinutes)
		if err != nil {
			break
		}
		if serviceEnd.IsAfter(closeTime) {
			break
		}

		slots = append(slots, current)

		current, err = current.AddMinutes(granularityMinutes)
		if err != nil {
			break
		}
	}

	return slots, nil
}

// classifySlots раскладывает сетку слотов на доступные, занятые и
// заблокированные. Каждый слот попадает ровно в одну категорию:
// перерыв имеет приоритет над блоком, блок - над бронированием.
func classifySlots(
	grid []types.TimeString,
	serviceDurationMinutes int,
	breaks []*domain.BusinessBreak,
	blocks []*domain.ManualBlock,
	bookings []*domain.Booking,
) (available []types.TimeString, occupied []OccupiedSlot, blocked []BlockedSlot) {
	available = make([]types.TimeString, 0, len(grid))
	occupied = make([]OccupiedSlot, 0)
	blocked = make([]BlockedSlot, 0)

	for _, slot := range grid {
		if brk := coveringBreak(slot, breaks); brk != nil {
			blocked = append(blocked, BlockedSlot{
				Time:   slot,
				Reason: domain.SlotReasonBreak,
				Detail: brk.Name,
			})
			continue
		}

		if block := coveringBlock(slot, blocks); block != nil {
			blocked = append(blocked, BlockedSlot{
				Time:   slot,
				Reason: domain.SlotReasonManualBlock,
				Detail: block.Reason,
			})
			continue
		}

		if booking := overlappingBooking(slot, serviceDurationMinutes, bookings); booking != nil {
			occupied = append(occupied, OccupiedSlot{
				Time:         slot,
				BookingID:    booking.ID,
				CustomerName: booking.CustomerName,
				ServiceName:  booking.ServiceName,
				Status:       booking.Status,
			})
			continue
		}

		available = append(available, slot)
	}

	return available, occupied, blocked
}

func coveringBreak(slot types.TimeString, breaks []*domain.BusinessBreak) *domain.BusinessBreak {
	for _, b := range breaks {
		if !b.AppliesToAllDays {
			continue
		}
		if b.Covers(slot) {
			return b
		}
	}
	return nil
}

func coveringBlock(slot types.TimeString, blocks []*domain.ManualBlock) *domain.ManualBlock {
	for _, b := range blocks {
		if b.Covers(slot) {
			return b
		}
	}
	return nil
}

// overlappingBooking находит активное бронирование, пересекающееся со слотом
// [slot, slot+duration). Граничные случаи пересечением не считаются, поэтому
// бронирования "впритык" слот не занимают.
func overlappingBooking(slot types.TimeString, serviceDurationMinutes int, bookings []*domain.Booking) *domain.Booking {
	slotEnd, err := slot.AddMinutes(serviceDurationMinutes)
	if err != nil {
		return nil
	}

	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		if b.Overlaps(slot, slotEnd) {
			return b
		}
	}

	return nil
}
