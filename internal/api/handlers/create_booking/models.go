package create_booking

import (
	"time"

	"github.com/tourvia/TRV-BookingService/internal/domain"
	createBooking "github.com/tourvia/TRV-BookingService/internal/usecase/create_booking"
	"github.com/tourvia/TRV-BookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	TourID    int64   `json:"tourId"`
	Date      string  `json:"date"`      // "2026-07-15"
	StartTime string  `json:"startTime"` // "10:00"
	Adults    int     `json:"adults"`
	Children  int     `json:"children"`
	Infants   int     `json:"infants"`
	OptionID  *string `json:"optionId,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID        int64   `json:"id"`
	Reference string  `json:"reference"`
	UserID    int64   `json:"userId"`
	TourID    int64   `json:"tourId"`
	Date      string  `json:"date"`
	StartTime string  `json:"startTime"`
	Adults    int     `json:"adults"`
	Children  int     `json:"children"`
	Infants   int     `json:"infants"`
	Guests    int     `json:"guests"`
	Status    string  `json:"status"`
	Notes     *string `json:"notes,omitempty"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	// Парсим время
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		UserID:    userID,
		TourID:    r.TourID,
		Date:      date,
		StartTime: startTime,
		Adults:    r.Adults,
		Children:  r.Children,
		Infants:   r.Infants,
		OptionID:  r.OptionID,
		Notes:     r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:        resp.ID,
		Reference: resp.Reference,
		UserID:    resp.UserID,
		TourID:    resp.TourID,
		Date:      resp.Date.Format(domain.DateFormat),
		StartTime: resp.StartTime.String(),
		Adults:    resp.Adults,
		Children:  resp.Children,
		Infants:   resp.Infants,
		Guests:    resp.Guests,
		Status:    resp.Status,
		Notes:     resp.Notes,
		CreatedAt: resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt: resp.UpdatedAt.Format(time.RFC3339),
	}
}
