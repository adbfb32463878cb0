package get_availability

import (
	"context"
	"errors"
	"fmt"

	tourRepo "github.com/tourvia/TRV-BookingService/internal/infra/storage/tour"
)

// UseCase use case получения месячной доступности тура
type UseCase struct {
	tourRepo     TourRepository
	bookingRepo  BookingRepository
	ledgerRepo   LedgerRepository
	stopSaleRepo StopSaleRepository
	cache        AvailabilityCache
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	tourRepo TourRepository,
	bookingRepo BookingRepository,
	ledgerRepo LedgerRepository,
	stopSaleRepo StopSaleRepository,
	cache AvailabilityCache,
	logger Logger,
) *UseCase {
	return &UseCase{
		tourRepo:     tourRepo,
		bookingRepo:  bookingRepo,
		ledgerRepo:   ledgerRepo,
		stopSaleRepo: stopSaleRepo,
		cache:        cache,
		logger:       logger,
	}
}

// Execute выполняет use case получения доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: tour=%d, month=%s", req.TourID, req.Month)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Границы месяца
	from, to, err := monthBounds(req.Month)
	if err != nil {
		uc.logger.Warn("GetAvailability: invalid month %q: %v", req.Month, err)
		return nil, ErrInvalidMonth
	}

	// 3. Проверяем кэш
	if cached, err := uc.cache.GetMonthAvailability(ctx, req.TourID, req.Month, req.OptionID); err == nil && cached != nil {
		return &Response{
			TourID:       req.TourID,
			Month:        req.Month,
			Availability: cached,
		}, nil
	}

	// 4. Получаем тур
	tour, err := uc.tourRepo.GetByID(ctx, req.TourID)
	if err != nil {
		if errors.Is(err, tourRepo.ErrTourNotFound) {
			uc.logger.Warn("GetAvailability: tour id=%d not found", req.TourID)
			return nil, ErrTourNotFound
		}
		uc.logger.Error("GetAvailability: failed to get tour id=%d: %v", req.TourID, err)
		return nil, fmt.Errorf("%w: failed to get tour: %v", ErrInternal, err)
	}

	if !tour.HasTemplate() {
		uc.logger.Warn("GetAvailability: tour id=%d has no slot template", req.TourID)
		return nil, ErrTourHasNoTemplate
	}

	// 5. Агрегат гостей по активным бронированиям месяца
	bookedByDate, err := uc.bookingRepo.SumGuestsByDateRange(ctx, req.TourID, from, to)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to aggregate bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to aggregate bookings: %v", ErrInternal, err)
	}

	// 6. Материализованные дни леджера
	ledgerDays, err := uc.ledgerRepo.GetByTourAndDateRange(ctx, req.TourID, from, to)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get ledger days: %v", err)
		return nil, fmt.Errorf("%w: failed to get ledger days: %v", ErrInternal, err)
	}

	// 7. Действующие правила stop-sale
	rules, err := uc.stopSaleRepo.ListActiveByTourAndRange(ctx, req.TourID, from, to)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get stop-sale rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get stop-sale rules: %v", ErrInternal, err)
	}

	// 8. Расчет доступности по дням
	availability, warnings := resolveMonth(tour, from, to, ledgerDays, bookedByDate, rules, req.OptionID)
	for _, warning := range warnings {
		uc.logger.Warn("GetAvailability: tour=%d %s", req.TourID, warning)
	}

	// 9. Сохраняем в кэш
	if err := uc.cache.SetMonthAvailability(ctx, req.TourID, req.Month, req.OptionID, availability); err != nil {
		uc.logger.Warn("GetAvailability: failed to cache result: %v", err)
	}

	uc.logger.Info("GetAvailability: tour=%d, month=%s: %d open dates, %d fully booked",
		req.TourID, req.Month, len(availability.AvailableSlotsByDate), len(availability.FullyBookedDates))

	return &Response{
		TourID:       req.TourID,
		Month:        req.Month,
		Availability: availability,
	}, nil
}
