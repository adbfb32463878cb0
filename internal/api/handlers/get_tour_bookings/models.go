package get_tour_bookings

import (
	"fmt"
	"strconv"
	"time"

	"github.com/tourvia/TRV-BookingService/internal/domain"
	"github.com/tourvia/TRV-BookingService/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(
	tourID int64,
	userID int64,
	statusStr string,
	fromStr string,
	toStr string,
	includeCancelledStr string,
) (*models.GetTourBookingsRequest, error) {
	req := &models.GetTourBookingsRequest{
		UserID:           userID,
		TourID:           tourID,
		IncludeCancelled: false, // По умолчанию только активные
	}

	// Парсим status если указан
	if statusStr != "" {
		req.Status = &statusStr
	}

	// Парсим границы периода если указаны
	if fromStr != "" {
		from, err := time.Parse(domain.DateFormat, fromStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = &from
	}

	if toStr != "" {
		to, err := time.Parse(domain.DateFormat, toStr)
		if err != nil {
			return nil, err
		}
		req.EndDate = &to
	}

	// Парсим includeCancelled если указан
	if includeCancelledStr != "" {
		includeCancelled, err := strconv.ParseBool(includeCancelledStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeCancelled value: %w", err)
		}
		req.IncludeCancelled = includeCancelled
	}

	return req, nil
}
