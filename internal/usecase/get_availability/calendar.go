package get_availability

import (
	"fmt"
	"time"

	"github.com/tourvia/TRV-BookingService/internal/domain"
)

// monthBounds возвращает первый и последний день месяца в формате YYYY-MM
func monthBounds(month string) (time.Time, time.Time, error) {
	from, err := time.ParseInLocation(domain.MonthFormat, month, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	to := from.AddDate(0, 1, -1)
	return from, to, nil
}

// resolveMonth рассчитывает доступность по дням месяца
//
// Приоритет источников для дня:
//  1. запись леджера (материализована бронированиями или правками админа)
//  2. шаблон тура + агрегат гостей по активным бронированиям
//
// День без слотов не попадает ни в один из списков ответа. День, закрытый
// stop-sale (флагом дня в леджере или действующим правилом), отдается как
// полностью занятый. Отрицательный остаток - аномалия данных: значение
// прижимается к нулю, а предупреждение возвращается вызывающему коду
func resolveMonth(
	tour *domain.Tour,
	from, to time.Time,
	ledgerDays []*domain.AvailabilityDay,
	bookedByDate map[string]map[string]int,
	rules []*domain.StopSaleRule,
	optionID *string,
) (*domain.MonthAvailability, []string) {
	availability := domain.NewMonthAvailability()
	warnings := make([]string, 0)

	ledgerByDate := make(map[string]*domain.AvailabilityDay, len(ledgerDays))
	for _, day := range ledgerDays {
		ledgerByDate[domain.DateKey(day.Date)] = day
	}

	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dateKey := domain.DateKey(d)

		var openSlots []domain.OpenSlot
		var hasSlots bool
		var stopSale bool

		if ledgerDay, ok := ledgerByDate[dateKey]; ok {
			openSlots, hasSlots, stopSale = resolveLedgerDay(ledgerDay, dateKey, &warnings)
		} else {
			openSlots, hasSlots = resolveTemplateDay(tour, d, bookedByDate[dateKey], dateKey, &warnings)
		}

		if !hasSlots {
			continue
		}

		if !stopSale {
			stopSale = matchesStopSale(rules, d, optionID)
		}

		if stopSale || len(openSlots) == 0 {
			availability.FullyBookedDates = append(availability.FullyBookedDates, dateKey)
			continue
		}

		availability.AvailableSlotsByDate[dateKey] = openSlots
	}

	return availability, warnings
}

// resolveLedgerDay рассчитывает открытые слоты дня из записи леджера
func resolveLedgerDay(day *domain.AvailabilityDay, dateKey string, warnings *[]string) ([]domain.OpenSlot, bool, bool) {
	if len(day.Slots) == 0 {
		return nil, false, day.StopSale
	}

	openSlots := make([]domain.OpenSlot, 0, len(day.Slots))
	for _, slot := range day.Slots {
		remaining := slot.Remaining()
		if remaining < 0 {
			*warnings = append(*warnings, fmt.Sprintf(
				"negative remaining capacity: date=%s time=%s booked=%d capacity=%d",
				dateKey, slot.Time, slot.Booked, slot.EffectiveCapacity()))
			remaining = 0
		}

		if remaining > 0 {
			openSlots = append(openSlots, domain.OpenSlot{
				Time:      slot.Time,
				Remaining: remaining,
				Capacity:  slot.EffectiveCapacity(),
			})
		}
	}

	return openSlots, true, day.StopSale
}

// resolveTemplateDay рассчитывает открытые слоты дня из шаблона тура
// и агрегата гостей по бронированиям
func resolveTemplateDay(
	tour *domain.Tour,
	date time.Time,
	bookedByTime map[string]int,
	dateKey string,
	warnings *[]string,
) ([]domain.OpenSlot, bool) {
	if !tour.IsDayAvailable(date.Weekday()) {
		return nil, false
	}

	if !tour.HasSlots() {
		return nil, false
	}

	openSlots := make([]domain.OpenSlot, 0, len(tour.Slots))
	for _, slot := range tour.Slots {
		booked := bookedByTime[slot.Time.String()]

		remaining := slot.Capacity - booked
		if remaining < 0 {
			*warnings = append(*warnings, fmt.Sprintf(
				"negative remaining capacity: date=%s time=%s booked=%d capacity=%d",
				dateKey, slot.Time, booked, slot.Capacity))
			remaining = 0
		}

		if remaining > 0 {
			openSlots = append(openSlots, domain.OpenSlot{
				Time:      slot.Time,
				Remaining: remaining,
				Capacity:  slot.Capacity,
			})
		}
	}

	return openSlots, true
}

// matchesStopSale проверяет, закрывает ли хотя бы одно правило продажи на дату
func matchesStopSale(rules []*domain.StopSaleRule, date time.Time, optionID *string) bool {
	for _, rule := range rules {
		if rule.Matches(date, optionID) {
			return true
		}
	}
	return false
}
