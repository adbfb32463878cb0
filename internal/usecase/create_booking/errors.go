package create_booking

import "errors"

var (
	// ErrTourNotFound возвращается, когда тур не найден
	ErrTourNotFound = errors.New("tour not found")

	// ErrSlotNotFound возвращается, когда у тура нет слота на указанное время
	ErrSlotNotFound = errors.New("slot not found")

	// ErrDayNotAvailable возвращается, когда тур не проводится в этот день недели
	ErrDayNotAvailable = errors.New("tour is not available on this day")

	// ErrSlotNotAvailable возвращается, когда в слоте не хватает мест
	ErrSlotNotAvailable = errors.New("slot has not enough remaining capacity")

	// ErrSalesStopped возвращается, когда продажи на дату закрыты stop-sale
	ErrSalesStopped = errors.New("sales are stopped for this date")

	// ErrDateInPast возвращается при попытке бронирования на прошедшую дату
	ErrDateInPast = errors.New("booking date is in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
