package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/tourvia/TRV-BookingService/internal/domain"
	"github.com/tourvia/TRV-BookingService/internal/infra/events"
	bookingRepo "github.com/tourvia/TRV-BookingService/internal/infra/storage/booking"
	tourRepo "github.com/tourvia/TRV-BookingService/internal/infra/storage/tour"
	"github.com/tourvia/TRV-BookingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	tourRepo     TourRepository
	ledgerRepo   LedgerRepository
	cache        AvailabilityCache
	publisher    EventPublisher
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	tourRepo TourRepository,
	ledgerRepo LedgerRepository,
	cache AvailabilityCache,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		tourRepo:     tourRepo,
		ledgerRepo:   ledgerRepo,
		cache:        cache,
		publisher:    publisher,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Проверяет права доступа - пользователь может видеть только своё бронирование
// или если он является администратором тура
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := s.checkUserAccess(ctx, booking, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	// Конвертируем статус из строки в domain.BookingStatus
	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetTourBookings получает бронирования тура с гибкой фильтрацией
// Поддерживает фильтрацию по периоду, статусу и включению отменённых бронирований
// Доступно только администраторам тура
func (s *Service) GetTourBookings(ctx context.Context, req *models.GetTourBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetTourBookings: fetching bookings for tour=%d, user=%d", req.TourID, req.UserID)

	// Проверяем права доступа администратора
	if _, err := s.checkAdminAccess(ctx, req.TourID, req.UserID); err != nil {
		return nil, err
	}

	// Конвертируем request в domain фильтр
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetTourBookings: invalid filter for tour=%d: %v", req.TourID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	// Получаем бронирования с фильтрацией
	bookings, err := s.bookingRepo.GetByTourWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetTourBookings: repository error for tour=%d: %v", req.TourID, err)
		return nil, fmt.Errorf("%w: GetTourBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetTourBookings: successfully fetched %d bookings for tour=%d", len(bookings), req.TourID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование и возвращает места в слот
// Пользователь может отменить только своё бронирование, администратор
// тура - любое бронирование своего тура. Смена статуса и возврат мест
// выполняются в одной транзакции
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	// Получаем бронирование
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Проверяем, можно ли отменить бронирование
	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	// Проверяем права доступа
	if booking.UserID != req.UserID {
		if _, err := s.checkAdminAccess(ctx, booking.TourID, req.UserID); err != nil {
			s.logger.Warn("Cancel: access denied for user=%d to cancel booking id=%d", req.UserID, bookingID)
			return ErrAccessDenied
		}
	}

	// Отменяем бронирование и возвращаем места в одной транзакции
	// Проверка статуса выше сделана вне транзакции: конкурентная отмена
	// того же бронирования отсекается условным UPDATE в репозитории,
	// чтобы места не вернулись в слот дважды
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.bookingRepo.Cancel(txCtx, bookingID, req.CancellationReason); err != nil {
			if errors.Is(err, bookingRepo.ErrAlreadyCancelled) {
				return ErrCannotCancel
			}
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		if err := s.ledgerRepo.ReleaseCapacity(txCtx, booking.TourID, booking.Date, booking.StartTime, booking.Guests); err != nil {
			return fmt.Errorf("%w: Cancel - failed to release capacity: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		s.logger.Error("Cancel: transaction failed for booking id=%d: %v", bookingID, err)
		return err
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)

	// Сбрасываем кэш доступности месяца
	month := booking.Date.Format(domain.MonthFormat)
	if err := s.cache.InvalidateMonth(ctx, booking.TourID, month); err != nil {
		s.logger.Warn("Cancel: failed to invalidate cache for tour=%d month=%s: %v", booking.TourID, month, err)
	}

	// Публикуем событие
	event := events.BookingEvent{
		Type:       events.EventBookingCancelled,
		BookingID:  booking.ID,
		Reference:  booking.Reference,
		TourID:     booking.TourID,
		UserID:     booking.UserID,
		Date:       domain.DateKey(booking.Date),
		StartTime:  booking.StartTime.String(),
		Guests:     booking.Guests,
		OccurredAt: s.timeProvider.Now(),
	}
	if err := s.publisher.Publish(ctx, booking.Reference, event); err != nil {
		s.logger.Warn("Cancel: failed to publish event for booking id=%d: %v", bookingID, err)
	}

	return nil
}

// Вспомогательные методы

// checkUserAccess проверяет, что пользователь имеет доступ к бронированию
// Пользователь может видеть своё бронирование или если он администратор тура
func (s *Service) checkUserAccess(ctx context.Context, booking *domain.Booking, userID int64) error {
	// Если пользователь владелец бронирования - доступ разрешён
	if booking.UserID == userID {
		return nil
	}

	// Проверяем, является ли пользователь администратором тура
	if _, err := s.checkAdminAccess(ctx, booking.TourID, userID); err != nil {
		// Ошибка уже залогирована в checkAdminAccess
		return ErrAccessDenied
	}

	return nil
}

// checkAdminAccess проверяет, что пользователь является администратором тура
func (s *Service) checkAdminAccess(ctx context.Context, tourID int64, userID int64) (*domain.Tour, error) {
	tour, err := s.tourRepo.GetByID(ctx, tourID)
	if err != nil {
		if errors.Is(err, tourRepo.ErrTourNotFound) {
			s.logger.Warn("checkAdminAccess: tour id=%d not found", tourID)
			return nil, ErrTourNotFound
		}
		s.logger.Error("checkAdminAccess: failed to get tour id=%d: %v", tourID, err)
		return nil, fmt.Errorf("%w: checkAdminAccess - failed to get tour: %v", ErrInternal, err)
	}

	if !tour.IsAdmin(userID) {
		s.logger.Warn("checkAdminAccess: user=%d is not an admin of tour=%d", userID, tourID)
		return nil, ErrAccessDenied
	}

	return tour, nil
}
