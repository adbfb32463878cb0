package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/tourvia/TRV-BookingService/internal/domain"
	ledgerRepo "github.com/tourvia/TRV-BookingService/internal/infra/storage/ledger"
	tourRepo "github.com/tourvia/TRV-BookingService/internal/infra/storage/tour"
	"github.com/tourvia/TRV-BookingService/internal/service/schedule/models"
)

// Service сервис админских правок расписания
// Правка материализует день в леджере, поэтому дальнейший расчет
// доступности использует именно её, а не шаблон тура
type Service struct {
	tourRepo   TourRepository
	ledgerRepo LedgerRepository
	cache      AvailabilityCache
	txManager  TransactionManager
	logger     Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	tourRepo TourRepository,
	ledgerRepo LedgerRepository,
	cache AvailabilityCache,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		tourRepo:   tourRepo,
		ledgerRepo: ledgerRepo,
		cache:      cache,
		txManager:  txManager,
		logger:     logger,
	}
}

// UpdateSlot применяет админскую правку слота на дату: блокировку
// и/или дополнительные места. Доступно только администраторам тура
func (s *Service) UpdateSlot(ctx context.Context, req *models.UpdateSlotRequest) error {
	s.logger.Info("UpdateSlot: tour=%d, date=%s, time=%s, blocked=%t, extra=%d, user=%d",
		req.TourID, req.Date.Format(domain.DateFormat), req.SlotTime, req.Blocked, req.ExtraCapacity, req.UserID)

	// Валидация входных данных
	if err := validateUpdateSlotRequest(req); err != nil {
		s.logger.Warn("UpdateSlot: validation failed: %v", err)
		return err
	}

	// Получаем тур и проверяем права доступа
	tour, err := s.tourRepo.GetByID(ctx, req.TourID)
	if err != nil {
		if errors.Is(err, tourRepo.ErrTourNotFound) {
			s.logger.Warn("UpdateSlot: tour id=%d not found", req.TourID)
			return ErrTourNotFound
		}
		s.logger.Error("UpdateSlot: failed to get tour id=%d: %v", req.TourID, err)
		return fmt.Errorf("%w: UpdateSlot - failed to get tour: %v", ErrInternal, err)
	}

	if !tour.IsAdmin(req.UserID) {
		s.logger.Warn("UpdateSlot: user=%d is not an admin of tour=%d", req.UserID, req.TourID)
		return ErrAccessDenied
	}

	// Слот должен существовать в шаблоне тура
	if _, ok := tour.SlotByTime(req.SlotTime); !ok {
		s.logger.Warn("UpdateSlot: tour id=%d has no slot at %s", req.TourID, req.SlotTime)
		return ErrSlotNotFound
	}

	// Материализуем день и применяем правку в одной транзакции
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.ledgerRepo.EnsureDay(txCtx, req.TourID, req.Date, tour.Slots); err != nil {
			return fmt.Errorf("%w: UpdateSlot - failed to ensure ledger day: %v", ErrInternal, err)
		}

		err := s.ledgerRepo.SetSlotOverride(txCtx, req.TourID, req.Date, req.SlotTime, req.Blocked, req.BlockReason, req.ExtraCapacity)
		if err != nil {
			if errors.Is(err, ledgerRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: UpdateSlot - failed to set override: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrSlotNotFound) {
			s.logger.Error("UpdateSlot: transaction failed for tour=%d: %v", req.TourID, err)
		}
		return err
	}

	s.logger.Info("UpdateSlot: successfully updated slot for tour=%d date=%s time=%s",
		req.TourID, req.Date.Format(domain.DateFormat), req.SlotTime)

	// Сбрасываем кэш доступности месяца
	month := req.Date.Format(domain.MonthFormat)
	if err := s.cache.InvalidateMonth(ctx, req.TourID, month); err != nil {
		s.logger.Warn("UpdateSlot: failed to invalidate cache for tour=%d month=%s: %v", req.TourID, month, err)
	}

	return nil
}

// validateUpdateSlotRequest валидирует запрос на правку слота
func validateUpdateSlotRequest(req *models.UpdateSlotRequest) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.TourID <= 0 {
		return fmt.Errorf("%w: tourID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.SlotTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid slotTime: %v", ErrInvalidInput, err)
	}

	if req.ExtraCapacity < 0 {
		return fmt.Errorf("%w: extraCapacity must not be negative", ErrInvalidInput)
	}

	if req.BlockReason != nil && len(*req.BlockReason) > domain.MaxReasonLength {
		return fmt.Errorf("%w: blockReason exceeds %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	return nil
}
