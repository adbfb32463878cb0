package stopsale

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tourvia/TRV-BookingService/internal/domain"
	"github.com/tourvia/TRV-BookingService/internal/infra/events"
	stopSaleRepo "github.com/tourvia/TRV-BookingService/internal/infra/storage/stopsale"
	tourRepo "github.com/tourvia/TRV-BookingService/internal/infra/storage/tour"
	"github.com/tourvia/TRV-BookingService/internal/service/stopsale/models"
)

// Service сервис для работы с правилами stop-sale
// Каждое применение и снятие правила фиксируется в журнале аудита
// в той же транзакции, что и само изменение
type Service struct {
	stopSaleRepo StopSaleRepository
	tourRepo     TourRepository
	cache        AvailabilityCache
	publisher    EventPublisher
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса stop-sale
func NewService(
	stopSaleRepo StopSaleRepository,
	tourRepo TourRepository,
	cache AvailabilityCache,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		stopSaleRepo: stopSaleRepo,
		tourRepo:     tourRepo,
		cache:        cache,
		publisher:    publisher,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Apply применяет правило stop-sale на период
// Доступно только администраторам тура
func (s *Service) Apply(ctx context.Context, req *models.ApplyStopSaleRequest) (*models.StopSaleRuleResponse, error) {
	s.logger.Info("Apply: applying stop-sale for tour=%d, period=%s to %s, user=%d",
		req.TourID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat), req.UserID)

	// Валидация входных данных
	if err := validateApplyRequest(req); err != nil {
		s.logger.Warn("Apply: validation failed: %v", err)
		return nil, err
	}

	// Проверяем права доступа администратора
	if err := s.checkAdminAccess(ctx, req.TourID, req.UserID); err != nil {
		return nil, err
	}

	// Создаем правило и запись журнала в одной транзакции
	var created *domain.StopSaleRule

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		rule := &domain.StopSaleRule{
			TourID:    req.TourID,
			OptionIDs: req.OptionIDs,
			StartDate: domain.DateOnly(req.StartDate),
			EndDate:   domain.DateOnly(req.EndDate),
			Reason:    req.Reason,
			CreatedBy: req.UserID,
		}

		result, err := s.stopSaleRepo.Create(txCtx, rule)
		if err != nil {
			if errors.Is(err, stopSaleRepo.ErrRuleAlreadyExists) {
				return ErrRuleAlreadyExists
			}
			return fmt.Errorf("%w: Apply - failed to create rule: %v", ErrInternal, err)
		}

		entry := &domain.StopSaleLogEntry{
			RuleID:    result.ID,
			TourID:    result.TourID,
			ActorID:   req.UserID,
			Status:    domain.StopSaleActive,
			StartDate: result.StartDate,
			EndDate:   result.EndDate,
			Reason:    result.Reason,
		}

		if err := s.stopSaleRepo.AppendLog(txCtx, entry); err != nil {
			return fmt.Errorf("%w: Apply - failed to append log: %v", ErrInternal, err)
		}

		created = result
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrRuleAlreadyExists) {
			s.logger.Error("Apply: transaction failed for tour=%d: %v", req.TourID, err)
		}
		return nil, err
	}

	s.logger.Info("Apply: successfully applied stop-sale rule id=%d for tour=%d", created.ID, created.TourID)

	// Сбрасываем кэш доступности затронутых месяцев
	s.invalidateRange(ctx, created.TourID, created.StartDate, created.EndDate)

	// Публикуем событие
	s.publishEvent(ctx, events.EventStopSaleApplied, created, req.UserID)

	return models.FromDomainRule(created), nil
}

// Remove снимает правило stop-sale
// Доступно только администраторам тура
func (s *Service) Remove(ctx context.Context, ruleID int64, userID int64) error {
	s.logger.Info("Remove: removing stop-sale rule id=%d by user=%d", ruleID, userID)

	// Получаем правило
	rule, err := s.stopSaleRepo.GetByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, stopSaleRepo.ErrRuleNotFound) {
			s.logger.Warn("Remove: rule id=%d not found", ruleID)
			return ErrRuleNotFound
		}
		s.logger.Error("Remove: repository error for rule id=%d: %v", ruleID, err)
		return fmt.Errorf("%w: Remove - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа администратора
	if err := s.checkAdminAccess(ctx, rule.TourID, userID); err != nil {
		return err
	}

	// Удаляем правило и фиксируем снятие в журнале в одной транзакции
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.stopSaleRepo.Delete(txCtx, ruleID); err != nil {
			if errors.Is(err, stopSaleRepo.ErrRuleNotFound) {
				return ErrRuleNotFound
			}
			return fmt.Errorf("%w: Remove - failed to delete rule: %v", ErrInternal, err)
		}

		entry := &domain.StopSaleLogEntry{
			RuleID:    rule.ID,
			TourID:    rule.TourID,
			ActorID:   userID,
			Status:    domain.StopSaleRemoved,
			StartDate: rule.StartDate,
			EndDate:   rule.EndDate,
			Reason:    rule.Reason,
		}

		if err := s.stopSaleRepo.AppendLog(txCtx, entry); err != nil {
			return fmt.Errorf("%w: Remove - failed to append log: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrRuleNotFound) {
			s.logger.Error("Remove: transaction failed for rule id=%d: %v", ruleID, err)
		}
		return err
	}

	s.logger.Info("Remove: successfully removed stop-sale rule id=%d", ruleID)

	// Сбрасываем кэш доступности затронутых месяцев
	s.invalidateRange(ctx, rule.TourID, rule.StartDate, rule.EndDate)

	// Публикуем событие
	s.publishEvent(ctx, events.EventStopSaleRemoved, rule, userID)

	return nil
}

// List получает правила stop-sale тура, опционально с журналом аудита
// Доступно только администраторам тура
func (s *Service) List(ctx context.Context, req *models.ListStopSalesRequest) (*models.StopSaleListResponse, error) {
	s.logger.Info("List: fetching stop-sale rules for tour=%d, user=%d, includeLog=%t",
		req.TourID, req.UserID, req.IncludeLog)

	// Проверяем права доступа администратора
	if err := s.checkAdminAccess(ctx, req.TourID, req.UserID); err != nil {
		return nil, err
	}

	rules, err := s.stopSaleRepo.ListByTour(ctx, req.TourID)
	if err != nil {
		s.logger.Error("List: repository error for tour=%d: %v", req.TourID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	resp := &models.StopSaleListResponse{
		Rules: models.FromDomainRuleList(rules),
	}

	if req.IncludeLog {
		entries, err := s.stopSaleRepo.ListLogByTour(ctx, req.TourID)
		if err != nil {
			s.logger.Error("List: failed to get log for tour=%d: %v", req.TourID, err)
			return nil, fmt.Errorf("%w: List - failed to get log: %v", ErrInternal, err)
		}
		resp.Log = models.FromDomainLogEntryList(entries)
	}

	s.logger.Info("List: successfully fetched %d rules for tour=%d", len(resp.Rules), req.TourID)
	return resp, nil
}

// Вспомогательные методы

// checkAdminAccess проверяет, что пользователь является администратором тура
func (s *Service) checkAdminAccess(ctx context.Context, tourID int64, userID int64) error {
	tour, err := s.tourRepo.GetByID(ctx, tourID)
	if err != nil {
		if errors.Is(err, tourRepo.ErrTourNotFound) {
			s.logger.Warn("checkAdminAccess: tour id=%d not found", tourID)
			return ErrTourNotFound
		}
		s.logger.Error("checkAdminAccess: failed to get tour id=%d: %v", tourID, err)
		return fmt.Errorf("%w: checkAdminAccess - failed to get tour: %v", ErrInternal, err)
	}

	if !tour.IsAdmin(userID) {
		s.logger.Warn("checkAdminAccess: user=%d is not an admin of tour=%d", userID, tourID)
		return ErrAccessDenied
	}

	return nil
}

// invalidateRange сбрасывает кэш доступности всех месяцев периода
func (s *Service) invalidateRange(ctx context.Context, tourID int64, from, to time.Time) {
	first := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)

	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		month := m.Format(domain.MonthFormat)
		if err := s.cache.InvalidateMonth(ctx, tourID, month); err != nil {
			s.logger.Warn("invalidateRange: failed to invalidate cache for tour=%d month=%s: %v", tourID, month, err)
		}
	}
}

// publishEvent публикует событие применения или снятия stop-sale
func (s *Service) publishEvent(ctx context.Context, eventType string, rule *domain.StopSaleRule, actorID int64) {
	event := events.StopSaleEvent{
		Type:       eventType,
		RuleID:     rule.ID,
		TourID:     rule.TourID,
		ActorID:    actorID,
		StartDate:  domain.DateKey(rule.StartDate),
		EndDate:    domain.DateKey(rule.EndDate),
		Reason:     rule.Reason,
		OccurredAt: s.timeProvider.Now(),
	}

	key := fmt.Sprintf("stop-sale-%d", rule.TourID)
	if err := s.publisher.Publish(ctx, key, event); err != nil {
		s.logger.Warn("publishEvent: failed to publish %s for rule id=%d: %v", eventType, rule.ID, err)
	}
}
