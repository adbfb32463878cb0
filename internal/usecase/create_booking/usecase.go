package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tourvia/TRV-BookingService/internal/domain"
	"github.com/tourvia/TRV-BookingService/internal/infra/events"
	ledgerRepo "github.com/tourvia/TRV-BookingService/internal/infra/storage/ledger"
	tourRepo "github.com/tourvia/TRV-BookingService/internal/infra/storage/tour"
)

// UseCase use case создания бронирования
type UseCase struct {
	tourRepo     TourRepository
	bookingRepo  BookingRepository
	ledgerRepo   LedgerRepository
	stopSaleRepo StopSaleRepository
	cache        AvailabilityCache
	publisher    EventPublisher
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	tourRepo TourRepository,
	bookingRepo BookingRepository,
	ledgerRepo LedgerRepository,
	stopSaleRepo StopSaleRepository,
	cache AvailabilityCache,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		tourRepo:     tourRepo,
		bookingRepo:  bookingRepo,
		ledgerRepo:   ledgerRepo,
		stopSaleRepo: stopSaleRepo,
		cache:        cache,
		publisher:    publisher,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Резервирование мест и запись бронирования выполняются в сериализуемой
// транзакции: условный UPDATE леджера не даст продать больше мест, чем
// есть, даже при конкурентных запросах
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, tour=%d, date=%s, time=%s, guests=%d",
		req.UserID, req.TourID, req.Date.Format(domain.DateFormat), req.StartTime, req.Guests())

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время и проверяем дату
	now := uc.timeProvider.Now()
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// 3. Получаем тур
	tour, err := uc.tourRepo.GetByID(ctx, req.TourID)
	if err != nil {
		if errors.Is(err, tourRepo.ErrTourNotFound) {
			uc.logger.Warn("CreateBooking: tour id=%d not found", req.TourID)
			return nil, ErrTourNotFound
		}
		uc.logger.Error("CreateBooking: failed to get tour id=%d: %v", req.TourID, err)
		return nil, fmt.Errorf("%w: failed to get tour: %v", ErrInternal, err)
	}

	// 4. Проверяем день недели и слот шаблона
	if !tour.IsDayAvailable(req.Date.Weekday()) {
		uc.logger.Warn("CreateBooking: tour id=%d is not available on %s", req.TourID, req.Date.Weekday())
		return nil, ErrDayNotAvailable
	}

	if _, ok := tour.SlotByTime(req.StartTime); !ok {
		uc.logger.Warn("CreateBooking: tour id=%d has no slot at %s", req.TourID, req.StartTime)
		return nil, ErrSlotNotFound
	}

	// 5. Проверяем действующие правила stop-sale
	rules, err := uc.stopSaleRepo.ListActiveByTourAndRange(ctx, req.TourID, req.Date, req.Date)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get stop-sale rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get stop-sale rules: %v", ErrInternal, err)
	}

	for _, rule := range rules {
		if rule.Matches(req.Date, req.OptionID) {
			uc.logger.Warn("CreateBooking: sales stopped for tour=%d date=%s by rule id=%d",
				req.TourID, req.Date.Format(domain.DateFormat), rule.ID)
			return nil, ErrSalesStopped
		}
	}

	// Переменная для хранения результата
	var result *domain.Booking

	// 6. Резервируем места и создаем бронирование в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Материализуем день леджера из шаблона, если его еще нет
		if err := uc.ledgerRepo.EnsureDay(txCtx, req.TourID, req.Date, tour.Slots); err != nil {
			uc.logger.Error("CreateBooking: failed to ensure ledger day: %v", err)
			return fmt.Errorf("%w: failed to ensure ledger day: %v", ErrInternal, err)
		}

		// 6.2. Атомарно резервируем места
		err := uc.ledgerRepo.ReserveCapacity(txCtx, req.TourID, req.Date, req.StartTime, req.Guests())
		if err != nil {
			switch {
			case errors.Is(err, ledgerRepo.ErrCapacityExceeded):
				uc.logger.Warn("CreateBooking: not enough capacity for tour=%d date=%s time=%s guests=%d",
					req.TourID, req.Date.Format(domain.DateFormat), req.StartTime, req.Guests())
				return ErrSlotNotAvailable
			case errors.Is(err, ledgerRepo.ErrSlotBlocked):
				uc.logger.Warn("CreateBooking: slot blocked for tour=%d date=%s time=%s",
					req.TourID, req.Date.Format(domain.DateFormat), req.StartTime)
				return ErrSalesStopped
			case errors.Is(err, ledgerRepo.ErrSlotNotFound):
				return ErrSlotNotFound
			default:
				uc.logger.Error("CreateBooking: failed to reserve capacity: %v", err)
				return fmt.Errorf("%w: failed to reserve capacity: %v", ErrInternal, err)
			}
		}

		// 6.3. Создаем бронирование
		booking := &domain.Booking{
			Reference: uuid.NewString(),
			TourID:    req.TourID,
			UserID:    req.UserID,
			Date:      domain.DateOnly(req.Date),
			StartTime: req.StartTime,
			Adults:    req.Adults,
			Children:  req.Children,
			Infants:   req.Infants,
			Guests:    req.Guests(),
			Status:    domain.StatusConfirmed,
			Notes:     req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d reference=%s", result.ID, result.Reference)

	// 7. Сбрасываем кэш доступности месяца
	month := result.Date.Format(domain.MonthFormat)
	if err := uc.cache.InvalidateMonth(ctx, req.TourID, month); err != nil {
		uc.logger.Warn("CreateBooking: failed to invalidate cache for tour=%d month=%s: %v", req.TourID, month, err)
	}

	// 8. Публикуем событие
	event := events.BookingEvent{
		Type:       events.EventBookingCreated,
		BookingID:  result.ID,
		Reference:  result.Reference,
		TourID:     result.TourID,
		UserID:     result.UserID,
		Date:       domain.DateKey(result.Date),
		StartTime:  result.StartTime.String(),
		Guests:     result.Guests,
		OccurredAt: now,
	}
	if err := uc.publisher.Publish(ctx, result.Reference, event); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish event for booking id=%d: %v", result.ID, err)
	}

	return &Response{
		ID:        result.ID,
		Reference: result.Reference,
		UserID:    result.UserID,
		TourID:    result.TourID,
		Date:      result.Date,
		StartTime: result.StartTime,
		Adults:    result.Adults,
		Children:  result.Children,
		Infants:   result.Infants,
		Guests:    result.Guests,
		Status:    string(result.Status),
		Notes:     result.Notes,
		CreatedAt: result.CreatedAt,
		UpdatedAt: result.UpdatedAt,
	}, nil
}
