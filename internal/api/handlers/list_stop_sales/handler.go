package list_stop_sales

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tourvia/TRV-BookingService/internal/api/handlers"
	"github.com/tourvia/TRV-BookingService/internal/api/middleware"
	"github.com/tourvia/TRV-BookingService/internal/service/stopsale"
	"github.com/tourvia/TRV-BookingService/internal/service/stopsale/models"
)

const (
	msgInvalidTourID = "некорректный ID тура"
	msgInvalidParams = "некорректные параметры запроса"
	msgMissingUserID = "отсутствует ID пользователя"
	msgTourNotFound  = "тур не найден"
	msgForbidden     = "доступ запрещен"
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

// Handle GET /api/v1/tours/{tourId}/stop-sales
// Query params: includeLog (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем tourId из URL
	vars := mux.Vars(r)
	tourIDStr := vars["tourId"]

	tourID, err := strconv.ParseInt(tourIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /tours/{id}/stop-sales - Invalid tour ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTourID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /tours/{id}/stop-sales - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Парсим includeLog если указан
	includeLog := false
	if includeLogStr := r.URL.Query().Get("includeLog"); includeLogStr != "" {
		includeLog, err = strconv.ParseBool(includeLogStr)
		if err != nil {
			h.logger.Warn("GET /tours/{id}/stop-sales - Invalid includeLog value: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
	}

	// Получаем правила stop-sale (сервис сам проверит права администратора)
	result, err := h.service.List(r.Context(), &models.ListStopSalesRequest{
		UserID:     userID,
		TourID:     tourID,
		IncludeLog: includeLog,
	})
	if err != nil {
		switch {
		case errors.Is(err, stopsale.ErrTourNotFound):
			h.logger.Warn("GET /tours/{id}/stop-sales - Tour not found: tour_id=%d", tourID)
			handlers.RespondNotFound(w, msgTourNotFound)

		case errors.Is(err, stopsale.ErrAccessDenied):
			h.logger.Warn("GET /tours/{id}/stop-sales - Access denied: tour_id=%d, user_id=%d", tourID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /tours/{id}/stop-sales - Failed to list stop-sales: tour_id=%d, error=%v",
				tourID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tours/{id}/stop-sales - Stop-sales retrieved successfully: tour_id=%d, count=%d",
		tourID, len(result.Rules))
	handlers.RespondJSON(w, http.StatusOK, result)
}
