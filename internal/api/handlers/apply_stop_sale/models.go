package apply_stop_sale

import (
	"time"

	"github.com/tourvia/TRV-BookingService/internal/domain"
	"github.com/tourvia/TRV-BookingService/internal/service/stopsale/models"
)

// ApplyStopSaleRequest HTTP request model
type ApplyStopSaleRequest struct {
	OptionIDs []string `json:"optionIds,omitempty"`
	StartDate string   `json:"startDate"` // "2026-07-01"
	EndDate   string   `json:"endDate"`   // "2026-07-10"
	Reason    string   `json:"reason"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *ApplyStopSaleRequest) ToServiceRequest(tourID, userID int64) (*models.ApplyStopSaleRequest, error) {
	startDate, err := time.Parse(domain.DateFormat, r.StartDate)
	if err != nil {
		return nil, err
	}

	endDate, err := time.Parse(domain.DateFormat, r.EndDate)
	if err != nil {
		return nil, err
	}

	return &models.ApplyStopSaleRequest{
		UserID:    userID,
		TourID:    tourID,
		OptionIDs: r.OptionIDs,
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    r.Reason,
	}, nil
}
