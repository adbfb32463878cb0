package stopsale

import (
	"fmt"

	"github.com/tourvia/TRV-BookingService/internal/domain"
	"github.com/tourvia/TRV-BookingService/internal/service/stopsale/models"
)

// validateApplyRequest валидирует запрос на применение stop-sale
func validateApplyRequest(req *models.ApplyStopSaleRequest) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.TourID <= 0 {
		return fmt.Errorf("%w: tourID must be positive", ErrInvalidInput)
	}

	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	}

	if domain.DateOnly(req.StartDate).After(domain.DateOnly(req.EndDate)) {
		return ErrInvalidDateRange
	}

	if len(req.Reason) > domain.MaxReasonLength {
		return fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	for _, optionID := range req.OptionIDs {
		if optionID == "" {
			return fmt.Errorf("%w: optionIDs must not contain empty values", ErrInvalidInput)
		}
	}

	return nil
}
