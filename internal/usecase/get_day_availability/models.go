package get_day_availability

import (
	"time"

	"github.com/google/uuid"

	"github.com/barberhub/booking-service/internal/domain"
	"github.com/barberhub/booking-service/pkg/types"
)

// Request модель запроса доступности дня
type Request struct {
	TenantID  uuid.UUID // ID тенанта
	ServiceID uuid.UUID // ID услуги (длительность услуги определяет ширину слота)
	Date      time.Time // Дата (без времени)
}

// Response результат разрешения доступности одного дня.
// AvailableSlots, OccupiedSlots и BlockedSlots попарно не пересекаются
// и вместе покрывают всю сгенерированную сетку слотов.
type Response struct {
	Date      time.Time `json:"date"`
	TenantID  uuid.UUID `json:"tenantId"`
	ServiceID uuid.UUID `json:"serviceId"`

	IsOpen       bool                  `json:"isOpen"`
	ReasonCode   *domain.ClosureReason `json:"reasonCode,omitempty"`   // Причина закрытия дня целиком
	ReasonDetail *string               `json:"reasonDetail,omitempty"` // Текст причины (для BLOCKED)

	EffectiveOpenTime  *types.TimeString `json:"effectiveOpenTime,omitempty"`
	EffectiveCloseTime *types.TimeString `json:"effectiveCloseTime,omitempty"`

	AvailableSlots []types.TimeString `json:"availableSlots"`
	OccupiedSlots  []OccupiedSlot     `json:"occupiedSlots"`
	BlockedSlots   []BlockedSlot      `json:"blockedSlots"`
	Breaks         []BreakInterval    `json:"breaks"`

	Summary Summary `json:"summary"`
}

// OccupiedSlot слот сетки, занятый активным бронированием
type OccupiedSlot struct {
	Time         types.TimeString     `json:"time"`
	BookingID    uuid.UUID            `json:"bookingId"`
	CustomerName string               `json:"customerName"`
	ServiceName  string               `json:"serviceName"`
	Status       domain.BookingStatus `json:"status"`
}

// BlockedSlot слот сетки, закрытый перерывом или ручным блоком
type BlockedSlot struct {
	Time   types.TimeString       `json:"time"`
	Reason domain.SlotBlockReason `json:"reason"`
	Detail string                 `json:"detail,omitempty"`
}

// BreakInterval перерыв, действующий в этот день
type BreakInterval struct {
	StartTime types.TimeString `json:"startTime"`
	EndTime   types.TimeString `json:"endTime"`
	Name      string           `json:"name,omitempty"`
}

// Summary сводка по дню
type Summary struct {
	TotalSlots     int `json:"totalSlots"`
	AvailableCount int `json:"availableCount"`
	OccupiedCount  int `json:"occupiedCount"`
	BlockedCount   int `json:"blockedCount"`
}
