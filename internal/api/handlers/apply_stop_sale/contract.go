package apply_stop_sale

import (
	"context"

	"github.com/tourvia/TRV-BookingService/internal/service/stopsale/models"
)

type StopSaleService interface {
	Apply(ctx context.Context, req *models.ApplyStopSaleRequest) (*models.StopSaleRuleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
