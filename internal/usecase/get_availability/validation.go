package get_availability

import (
	"fmt"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TourID <= 0 {
		return fmt.Errorf("%w: tourID must be positive", ErrInvalidInput)
	}

	if req.Month == "" {
		return fmt.Errorf("%w: month is required", ErrInvalidInput)
	}

	if req.OptionID != nil && *req.OptionID == "" {
		return fmt.Errorf("%w: optionID must not be empty", ErrInvalidInput)
	}

	return nil
}
