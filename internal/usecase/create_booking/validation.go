package create_booking

import (
	"fmt"
	"time"

	"github.com/tourvia/TRV-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.TourID <= 0 {
		return fmt.Errorf("%w: tourID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	if req.Adults < 0 || req.Children < 0 || req.Infants < 0 {
		return fmt.Errorf("%w: party counts must not be negative", ErrInvalidInput)
	}

	if req.Guests() <= 0 {
		return fmt.Errorf("%w: at least one guest is required", ErrInvalidInput)
	}

	if req.Guests() > domain.MaxGuestsPerBooking {
		return fmt.Errorf("%w: party size exceeds %d guests", ErrInvalidInput, domain.MaxGuestsPerBooking)
	}

	if req.OptionID != nil && *req.OptionID == "" {
		return fmt.Errorf("%w: optionID must not be empty", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateDate проверяет, что дата бронирования не в прошлом
func validateDate(date, now time.Time) error {
	if domain.DateOnly(date).Before(domain.DateOnly(now)) {
		return ErrDateInPast
	}
	return nil
}
