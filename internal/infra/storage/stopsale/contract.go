package stopsale

import (
	"github.com/tourvia/TRV-BookingService/pkg/dbmetrics"
)

type DBExecutor = dbmetrics.DBExecutor
