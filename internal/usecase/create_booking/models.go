package create_booking

import (
	"time"

	"github.com/tourvia/TRV-BookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID    int64            // ID пользователя
	TourID    int64            // ID тура
	Date      time.Time        // Дата тура (без времени)
	StartTime types.TimeString // Время начала слота (например, "10:00")
	Adults    int              // Количество взрослых
	Children  int              // Количество детей
	Infants   int              // Количество младенцев
	OptionID  *string          // Опция бронирования (для проверки stop-sale)
	Notes     *string          // Заметки пользователя
}

// Guests возвращает общий размер группы
func (r *Request) Guests() int {
	return r.Adults + r.Children + r.Infants
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID        int64            // ID бронирования
	Reference string           // Публичный номер бронирования
	UserID    int64            // ID пользователя
	TourID    int64            // ID тура
	Date      time.Time        // Дата тура
	StartTime types.TimeString // Время начала слота
	Adults    int              // Количество взрослых
	Children  int              // Количество детей
	Infants   int              // Количество младенцев
	Guests    int              // Размер группы
	Status    string           // Статус бронирования
	Notes     *string          // Заметки пользователя
	CreatedAt time.Time        // Время создания
	UpdatedAt time.Time        // Время обновления
}
