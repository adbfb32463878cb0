package get_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tourvia/TRV-BookingService/internal/api/handlers"
	getAvailability "github.com/tourvia/TRV-BookingService/internal/usecase/get_availability"
)

const (
	msgInvalidTourID  = "некорректный ID тура"
	msgInvalidMonth   = "некорректный параметр month, ожидается YYYY-MM"
	msgTourNotFound   = "тур не найден"
	msgTourNoTemplate = "у тура не настроено расписание"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/tours/{tourId}/availability?month=YYYY-MM
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем tourId из URL
	vars := mux.Vars(r)
	tourIDStr := vars["tourId"]

	tourID, err := strconv.ParseInt(tourIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /tours/{id}/availability - Invalid tour ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTourID)
		return
	}

	// Извлекаем query параметры
	month := r.URL.Query().Get("month")

	var optionID *string
	if opt := r.URL.Query().Get("optionId"); opt != "" {
		optionID = &opt
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		TourID:   tourID,
		Month:    month,
		OptionID: optionID,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidMonth),
			errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /tours/{id}/availability - Invalid request: tour_id=%d, month=%q", tourID, month)
			handlers.RespondBadRequest(w, msgInvalidMonth)

		case errors.Is(err, getAvailability.ErrTourNotFound):
			h.logger.Warn("GET /tours/{id}/availability - Tour not found: tour_id=%d", tourID)
			handlers.RespondNotFound(w, msgTourNotFound)

		case errors.Is(err, getAvailability.ErrTourHasNoTemplate):
			h.logger.Warn("GET /tours/{id}/availability - Tour has no template: tour_id=%d", tourID)
			handlers.RespondNotFound(w, msgTourNoTemplate)

		default:
			h.logger.Error("GET /tours/{id}/availability - Failed to resolve availability: tour_id=%d, error=%v", tourID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tours/{id}/availability - Availability resolved: tour_id=%d, month=%s", tourID, month)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
