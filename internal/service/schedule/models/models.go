package models

import (
	"time"

	"github.com/tourvia/TRV-BookingService/pkg/types"
)

// UpdateSlotRequest запрос на админскую правку слота на дату
type UpdateSlotRequest struct {
	UserID        int64            `json:"userId"`
	TourID        int64            `json:"tourId"`
	Date          time.Time        `json:"date"`
	SlotTime      types.TimeString `json:"slotTime"`
	Blocked       bool             `json:"blocked"`
	BlockReason   *string          `json:"blockReason,omitempty"`
	ExtraCapacity int              `json:"extraCapacity"`
}
