package get_availability

import (
	"github.com/tourvia/TRV-BookingService/internal/domain"
	getAvailability "github.com/tourvia/TRV-BookingService/internal/usecase/get_availability"
)

// SlotResponse HTTP модель открытого слота
type SlotResponse struct {
	Time      string `json:"time"`      // "10:00"
	Remaining int    `json:"remaining"` // Свободные места
	Capacity  int    `json:"capacity"`  // Вместимость с учетом правок админа
}

// AvailabilityResponse HTTP модель месячной доступности
type AvailabilityResponse struct {
	TourID               int64                     `json:"tourId"`
	Month                string                    `json:"month"`
	AvailableSlotsByDate map[string][]SlotResponse `json:"availableSlotsByDate"`
	FullyBookedDates     []string                  `json:"fullyBookedDates"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	result := &AvailabilityResponse{
		TourID:               resp.TourID,
		Month:                resp.Month,
		AvailableSlotsByDate: make(map[string][]SlotResponse, len(resp.Availability.AvailableSlotsByDate)),
		FullyBookedDates:     resp.Availability.FullyBookedDates,
	}

	for date, slots := range resp.Availability.AvailableSlotsByDate {
		result.AvailableSlotsByDate[date] = fromDomainSlots(slots)
	}

	return result
}

func fromDomainSlots(slots []domain.OpenSlot) []SlotResponse {
	result := make([]SlotResponse, len(slots))
	for i, slot := range slots {
		result[i] = SlotResponse{
			Time:      slot.Time.String(),
			Remaining: slot.Remaining,
			Capacity:  slot.Capacity,
		}
	}
	return result
}
