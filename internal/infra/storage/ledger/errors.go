package ledger

import "errors"

var (
	// ErrDayNotFound возвращается, когда запись леджера на дату не найдена
	ErrDayNotFound = errors.New("ledger.repository: availability day not found")

	// ErrSlotNotFound возвращается, когда слот отсутствует в записи леджера
	ErrSlotNotFound = errors.New("ledger.repository: slot not found")

	// ErrCapacityExceeded возвращается, когда в слоте недостаточно мест
	ErrCapacityExceeded = errors.New("ledger.repository: slot capacity exceeded")

	// ErrSlotBlocked возвращается, когда слот заблокирован для продаж
	ErrSlotBlocked = errors.New("ledger.repository: slot is blocked")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("ledger.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("ledger.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("ledger.repository: failed to scan row")
)
