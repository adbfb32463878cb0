package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/tourvia/TRV-BookingService/internal/domain"
	"github.com/tourvia/TRV-BookingService/pkg/dbmetrics"
	"github.com/tourvia/TRV-BookingService/pkg/psqlbuilder"
	"github.com/tourvia/TRV-BookingService/pkg/types"
)

// Repository репозиторий материализованного леджера доступности
// Запись на дату создается лениво при первой мутации (first write wins,
// уникальность tour_id+day обеспечена constraint'ом) либо явно админкой
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория леджера
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// EnsureDay создает запись леджера на дату из шаблона тура, если её ещё нет
// Повторный вызов ничего не меняет (ON CONFLICT DO NOTHING)
func (r *Repository) EnsureDay(ctx context.Context, tourID int64, date time.Time, template []domain.TemplateSlot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("availability_days").
		Columns("tour_id", "day").
		Values(tourID, domain.DateOnly(date)).
		Suffix("ON CONFLICT (tour_id, day) DO NOTHING").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: EnsureDay - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: EnsureDay - insert day: %v", ErrExecQuery, err)
	}

	dayID, err := r.getDayID(ctx, executor, tourID, date)
	if err != nil {
		return err
	}

	for position, slot := range template {
		query, args, err := psqlbuilder.Insert("availability_day_slots").
			Columns("availability_day_id", "slot_time", "capacity", "position").
			Values(dayID, slot.Time, slot.Capacity, position).
			Suffix("ON CONFLICT (availability_day_id, slot_time) DO NOTHING").
			ToSql()

		if err != nil {
			return fmt.Errorf("%w: EnsureDay - build slot insert query: %v", ErrBuildQuery, err)
		}

		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: EnsureDay - insert slot: %v", ErrExecQuery, err)
		}
	}

	return nil
}

// ReserveCapacity атомарно резервирует guests мест в слоте
// Единственный условный UPDATE: booked увеличивается только если итог
// не превышает capacity + extra_capacity, слот не заблокирован и на дату
// не установлен stop_sale. Ноль затронутых строк означает отказ -
// причина классифицируется дополнительным чтением
func (r *Repository) ReserveCapacity(ctx context.Context, tourID int64, date time.Time, slotTime types.TimeString, guests int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("availability_day_slots").
		Set("booked", squirrel.Expr("booked + ?", guests)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Expr(
			"availability_day_id = (SELECT id FROM availability_days WHERE tour_id = ? AND day = ? AND NOT stop_sale)",
			tourID, domain.DateOnly(date),
		)).
		Where(squirrel.Eq{"slot_time": slotTime}).
		Where(squirrel.Expr("NOT blocked")).
		Where(squirrel.Expr("booked + ? <= capacity + extra_capacity", guests)).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReserveCapacity - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: ReserveCapacity - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: ReserveCapacity - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return r.classifyReservationFailure(ctx, executor, tourID, date, slotTime)
	}

	return nil
}

// ReleaseCapacity уменьшает booked на guests, не опускаясь ниже нуля
// Отсутствие записи леджера не является ошибкой: значит на дату ещё
// ничего не бронировалось
func (r *Repository) ReleaseCapacity(ctx context.Context, tourID int64, date time.Time, slotTime types.TimeString, guests int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("availability_day_slots").
		Set("booked", squirrel.Expr("GREATEST(booked - ?, 0)", guests)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Expr(
			"availability_day_id = (SELECT id FROM availability_days WHERE tour_id = ? AND day = ?)",
			tourID, domain.DateOnly(date),
		)).
		Where(squirrel.Eq{"slot_time": slotTime}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReleaseCapacity - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReleaseCapacity - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// SetSlotOverride применяет админскую правку слота: блокировка и/или
// дополнительные места поверх шаблонной вместимости
func (r *Repository) SetSlotOverride(ctx context.Context, tourID int64, date time.Time, slotTime types.TimeString, blocked bool, blockReason *string, extraCapacity int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("availability_day_slots").
		Set("blocked", blocked).
		Set("block_reason", blockReason).
		Set("extra_capacity", extraCapacity).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Expr(
			"availability_day_id = (SELECT id FROM availability_days WHERE tour_id = ? AND day = ?)",
			tourID, domain.DateOnly(date),
		)).
		Where(squirrel.Eq{"slot_time": slotTime}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetSlotOverride - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetSlotOverride - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetSlotOverride - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// GetByTourAndDateRange получает записи леджера тура за период [from, to]
// Используется резолвером: материализованные дни имеют приоритет над
// расчётом из шаблона и агрегата бронирований
func (r *Repository) GetByTourAndDateRange(ctx context.Context, tourID int64, from, to time.Time) ([]*domain.AvailabilityDay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"tour_id",
		"day",
		"stop_sale",
		"created_at",
		"updated_at",
	).
		From("availability_days").
		Where(squirrel.Eq{"tour_id": tourID}).
		Where(squirrel.GtOrEq{"day": from}).
		Where(squirrel.LtOrEq{"day": to}).
		OrderBy("day ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByTourAndDateRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTourAndDateRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	days := make([]*domain.AvailabilityDay, 0)
	dayIDs := make([]int64, 0)
	daysByID := make(map[int64]*domain.AvailabilityDay)

	for rows.Next() {
		var day domain.AvailabilityDay
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&day.ID,
			&day.TourID,
			&day.Date,
			&day.StopSale,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByTourAndDateRange - scan day: %v", ErrScanRow, err)
		}

		day.CreatedAt = createdAt.Time
		day.UpdatedAt = updatedAt.Time
		day.Slots = make([]domain.LedgerSlot, 0)

		days = append(days, &day)
		dayIDs = append(dayIDs, day.ID)
		daysByID[day.ID] = &day
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByTourAndDateRange - rows error: %v", ErrScanRow, err)
	}

	if len(days) == 0 {
		return days, nil
	}

	if err := r.loadSlots(ctx, executor, dayIDs, daysByID); err != nil {
		return nil, err
	}

	return days, nil
}

// loadSlots загружает слоты всех дней одним запросом
func (r *Repository) loadSlots(ctx context.Context, executor DBExecutor, dayIDs []int64, daysByID map[int64]*domain.AvailabilityDay) error {
	query, args, err := psqlbuilder.Select(
		"availability_day_id",
		"slot_time",
		"capacity",
		"booked",
		"blocked",
		"block_reason",
		"extra_capacity",
	).
		From("availability_day_slots").
		Where(squirrel.Expr("availability_day_id = ANY(?)", pq.Array(dayIDs))).
		OrderBy("availability_day_id ASC, position ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadSlots - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var dayID int64
		var slot domain.LedgerSlot

		err := rows.Scan(
			&dayID,
			&slot.Time,
			&slot.Capacity,
			&slot.Booked,
			&slot.Blocked,
			&slot.BlockReason,
			&slot.ExtraCapacity,
		)
		if err != nil {
			return fmt.Errorf("%w: loadSlots - scan slot: %v", ErrScanRow, err)
		}

		if day, ok := daysByID[dayID]; ok {
			day.Slots = append(day.Slots, slot)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadSlots - rows error: %v", ErrScanRow, err)
	}

	return nil
}

// getDayID получает id записи леджера на дату
func (r *Repository) getDayID(ctx context.Context, executor DBExecutor, tourID int64, date time.Time) (int64, error) {
	query, args, err := psqlbuilder.Select("id").
		From("availability_days").
		Where(squirrel.Eq{"tour_id": tourID}).
		Where(squirrel.Eq{"day": domain.DateOnly(date)}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: getDayID - build select query: %v", ErrBuildQuery, err)
	}

	var id int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, ErrDayNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: getDayID - scan id: %v", ErrScanRow, err)
	}

	return id, nil
}

// classifyReservationFailure определяет причину отказа резервирования:
// отсутствие слота, блокировка или нехватка мест
func (r *Repository) classifyReservationFailure(ctx context.Context, executor DBExecutor, tourID int64, date time.Time, slotTime types.TimeString) error {
	query, args, err := psqlbuilder.Select(
		"s.blocked",
		"d.stop_sale",
	).
		From("availability_day_slots s").
		Join("availability_days d ON d.id = s.availability_day_id").
		Where(squirrel.Eq{"d.tour_id": tourID}).
		Where(squirrel.Eq{"d.day": domain.DateOnly(date)}).
		Where(squirrel.Eq{"s.slot_time": slotTime}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: classifyReservationFailure - build select query: %v", ErrBuildQuery, err)
	}

	var blocked, stopSale bool
	err = executor.QueryRowContext(ctx, query, args...).Scan(&blocked, &stopSale)
	if err == sql.ErrNoRows {
		return ErrSlotNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: classifyReservationFailure - scan row: %v", ErrScanRow, err)
	}

	if blocked || stopSale {
		return ErrSlotBlocked
	}

	return ErrCapacityExceeded
}
