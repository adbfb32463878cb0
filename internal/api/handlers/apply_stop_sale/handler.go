package apply_stop_sale

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tourvia/TRV-BookingService/internal/api/handlers"
	"github.com/tourvia/TRV-BookingService/internal/api/middleware"
	"github.com/tourvia/TRV-BookingService/internal/service/stopsale"
)

const (
	msgInvalidTourID      = "некорректный ID тура"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDates       = "некорректный формат дат, ожидается YYYY-MM-DD"
	msgInvalidDateRange   = "дата начала периода позже даты окончания"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgTourNotFound       = "тур не найден"
	msgForbidden          = "доступ запрещен"
	msgRuleExists         = "правило stop-sale на этот период уже существует"
)

type Handler struct {
	service StopSaleService
	logger  Logger
}

func NewHandler(service StopSaleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/tours/{tourId}/stop-sales
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем tourId из URL
	vars := mux.Vars(r)
	tourIDStr := vars["tourId"]

	tourID, err := strconv.ParseInt(tourIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /tours/{id}/stop-sales - Invalid tour ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTourID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /tours/{id}/stop-sales - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Декодируем body
	var req ApplyStopSaleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /tours/{id}/stop-sales - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем в модель сервиса (с парсингом дат)
	serviceReq, err := req.ToServiceRequest(tourID, userID)
	if err != nil {
		h.logger.Warn("POST /tours/{id}/stop-sales - Failed to parse dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDates)
		return
	}

	// Применяем stop-sale
	result, err := h.service.Apply(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, stopsale.ErrRuleAlreadyExists):
			h.logger.Warn("POST /tours/{id}/stop-sales - Rule already exists: tour_id=%d", tourID)
			handlers.RespondError(w, http.StatusConflict, msgRuleExists)

		case errors.Is(err, stopsale.ErrInvalidDateRange):
			h.logger.Warn("POST /tours/{id}/stop-sales - Invalid date range: tour_id=%d", tourID)
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		case errors.Is(err, stopsale.ErrTourNotFound):
			h.logger.Warn("POST /tours/{id}/stop-sales - Tour not found: tour_id=%d", tourID)
			handlers.RespondNotFound(w, msgTourNotFound)

		case errors.Is(err, stopsale.ErrAccessDenied):
			h.logger.Warn("POST /tours/{id}/stop-sales - Access denied: tour_id=%d, user_id=%d", tourID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, stopsale.ErrInvalidInput):
			h.logger.Warn("POST /tours/{id}/stop-sales - Invalid input: tour_id=%d, error=%v", tourID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /tours/{id}/stop-sales - Failed to apply stop-sale: tour_id=%d, error=%v",
				tourID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /tours/{id}/stop-sales - Stop-sale applied successfully: rule_id=%d, tour_id=%d, user_id=%d",
		result.ID, tourID, userID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
