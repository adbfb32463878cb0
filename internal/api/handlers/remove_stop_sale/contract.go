package remove_stop_sale

import (
	"context"
)

type StopSaleService interface {
	Remove(ctx context.Context, ruleID int64, userID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
