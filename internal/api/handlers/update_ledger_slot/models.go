package update_ledger_slot

import (
	"time"

	"github.com/tourvia/TRV-BookingService/internal/domain"
	"github.com/tourvia/TRV-BookingService/internal/service/schedule/models"
	"github.com/tourvia/TRV-BookingService/pkg/types"
)

// UpdateSlotRequest HTTP request model
type UpdateSlotRequest struct {
	Date          string  `json:"date"`     // "2026-07-15"
	SlotTime      string  `json:"slotTime"` // "10:00"
	Blocked       bool    `json:"blocked"`
	BlockReason   *string `json:"blockReason,omitempty"`
	ExtraCapacity int     `json:"extraCapacity"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateSlotRequest) ToServiceRequest(tourID, userID int64) (*models.UpdateSlotRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	slotTime, err := types.NewTimeStringFromString(r.SlotTime)
	if err != nil {
		return nil, err
	}

	return &models.UpdateSlotRequest{
		UserID:        userID,
		TourID:        tourID,
		Date:          date,
		SlotTime:      slotTime,
		Blocked:       r.Blocked,
		BlockReason:   r.BlockReason,
		ExtraCapacity: r.ExtraCapacity,
	}, nil
}
