package stopsale

import "errors"

var (
	// ErrRuleNotFound возвращается, когда правило stop-sale не найдено
	ErrRuleNotFound = errors.New("stop-sale rule not found")

	// ErrRuleAlreadyExists возвращается при попытке создать дубликат правила
	ErrRuleAlreadyExists = errors.New("stop-sale rule already exists")

	// ErrTourNotFound возвращается, когда тур не найден
	ErrTourNotFound = errors.New("tour not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidDateRange возвращается, когда начало периода позже конца
	ErrInvalidDateRange = errors.New("start date must not be after end date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
