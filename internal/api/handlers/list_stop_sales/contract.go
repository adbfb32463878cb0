package list_stop_sales

import (
	"context"

	"github.com/tourvia/TRV-BookingService/internal/service/stopsale/models"
)

type StopSaleService interface {
	List(ctx context.Context, req *models.ListStopSalesRequest) (*models.StopSaleListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
