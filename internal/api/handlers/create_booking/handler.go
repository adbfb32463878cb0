package create_booking

import (
	"errors"
	"net/http"

	"github.com/tourvia/TRV-BookingService/internal/api/handlers"
	"github.com/tourvia/TRV-BookingService/internal/api/middleware"
	createBooking "github.com/tourvia/TRV-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgTourNotFound       = "тур не найден"
	msgSlotNotFound       = "слот не найден"
	msgDayNotAvailable    = "тур не проводится в выбранный день"
	msgSlotNotAvailable   = "в выбранном слоте недостаточно мест"
	msgSalesStopped       = "продажи на выбранную дату приостановлены"
	msgDateInPast         = "дата бронирования в прошлом"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: user_id=%d, tour_id=%d", userID, req.TourID)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrSalesStopped):
			h.logger.Warn("POST /bookings - Sales stopped: user_id=%d, tour_id=%d, date=%s", userID, req.TourID, req.Date)
			handlers.RespondError(w, http.StatusConflict, msgSalesStopped)

		case errors.Is(err, createBooking.ErrTourNotFound):
			h.logger.Warn("POST /bookings - Tour not found: tour_id=%d", req.TourID)
			handlers.RespondNotFound(w, msgTourNotFound)

		case errors.Is(err, createBooking.ErrSlotNotFound):
			h.logger.Warn("POST /bookings - Slot not found: tour_id=%d, time=%s", req.TourID, req.StartTime)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, createBooking.ErrDayNotAvailable):
			h.logger.Warn("POST /bookings - Day not available: tour_id=%d, date=%s", req.TourID, req.Date)
			handlers.RespondBadRequest(w, msgDayNotAvailable)

		case errors.Is(err, createBooking.ErrDateInPast):
			h.logger.Warn("POST /bookings - Date in past: user_id=%d, tour_id=%d, date=%s", userID, req.TourID, req.Date)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, tour_id=%d, error=%v", userID, req.TourID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, tour_id=%d, error=%v",
				userID, req.TourID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, tour_id=%d",
		result.ID, userID, req.TourID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
