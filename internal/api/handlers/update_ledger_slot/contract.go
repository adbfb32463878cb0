package update_ledger_slot

import (
	"context"

	"github.com/tourvia/TRV-BookingService/internal/service/schedule/models"
)

type ScheduleService interface {
	UpdateSlot(ctx context.Context, req *models.UpdateSlotRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
