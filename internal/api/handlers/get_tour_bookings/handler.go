package get_tour_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tourvia/TRV-BookingService/internal/api/handlers"
	"github.com/tourvia/TRV-BookingService/internal/api/middleware"
	"github.com/tourvia/TRV-BookingService/internal/service/bookings"
)

const (
	msgInvalidTourID = "некорректный ID тура"
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidParams = "некорректные параметры запроса"
	msgTourNotFound  = "тур не найден"
	msgForbidden     = "доступ запрещен"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/tours/{tourId}/bookings
// Query params: status, from, to, includeCancelled (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем tourId из URL
	vars := mux.Vars(r)
	tourIDStr := vars["tourId"]

	tourID, err := strconv.ParseInt(tourIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /tours/{id}/bookings - Invalid tour ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTourID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /tours/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Формируем запрос к сервису из query параметров
	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(
		tourID,
		userID,
		query.Get("status"),
		query.Get("from"),
		query.Get("to"),
		query.Get("includeCancelled"),
	)
	if err != nil {
		h.logger.Warn("GET /tours/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	// Получаем бронирования тура (сервис сам проверит права администратора)
	result, err := h.service.GetTourBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrTourNotFound):
			h.logger.Warn("GET /tours/{id}/bookings - Tour not found: tour_id=%d", tourID)
			handlers.RespondNotFound(w, msgTourNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /tours/{id}/bookings - Access denied: tour_id=%d, user_id=%d",
				tourID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /tours/{id}/bookings - Invalid parameters: tour_id=%d, error=%v", tourID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /tours/{id}/bookings - Failed to get bookings: tour_id=%d, error=%v",
				tourID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tours/{id}/bookings - Bookings retrieved successfully: tour_id=%d, count=%d",
		tourID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}
