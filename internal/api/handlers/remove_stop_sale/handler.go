package remove_stop_sale

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
	msgInvalidRuleID = "некорректный ID правила"
	msgMissingUserID = "отсутствует ID пользователя"
	msgRuleNotFound  = "правило stop-sale не найдено"
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

// Handle DELETE /api/v1/tours/{tourId}/stop-sales/{ruleId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем ruleId из URL
	vars := mux.Vars(r)
	ruleIDStr := vars["ruleId"]

	ruleID, err := strconv.ParseInt(ruleIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /tours/{id}/stop-sales/{ruleId} - Invalid rule ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRuleID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /tours/{id}/stop-sales/{ruleId} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Снимаем stop-sale
	err = h.service.Remove(r.Context(), ruleID, userID)
	if err != nil {
		switch {
		case errors.Is(err, stopsale.ErrRuleNotFound):
			h.logger.Warn("DELETE /tours/{id}/stop-sales/{ruleId} - Rule not found: rule_id=%d", ruleID)
			handlers.RespondNotFound(w, msgRuleNotFound)

		case errors.Is(err, stopsale.ErrAccessDenied):
			h.logger.Warn("DELETE /tours/{id}/stop-sales/{ruleId} - Access denied: rule_id=%d, user_id=%d",
				ruleID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /tours/{id}/stop-sales/{ruleId} - Failed to remove stop-sale: rule_id=%d, error=%v",
				ruleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /tours/{id}/stop-sales/{ruleId} - Stop-sale removed successfully: rule_id=%d, user_id=%d",
		ruleID, userID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
