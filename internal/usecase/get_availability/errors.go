package get_availability

import "errors"

var (
	// ErrTourNotFound возвращается, когда тур не найден
	ErrTourNotFound = errors.New("tour not found")

	// ErrTourHasNoTemplate возвращается, когда у тура не настроен шаблон слотов
	ErrTourHasNoTemplate = errors.New("tour has no slot template")

	// ErrInvalidMonth возвращается при некорректном формате месяца
	ErrInvalidMonth = errors.New("invalid month format, expected YYYY-MM")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
