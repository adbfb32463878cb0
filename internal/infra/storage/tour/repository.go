package tour

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/tourvia/TRV-BookingService/internal/domain"
	"github.com/tourvia/TRV-BookingService/pkg/dbmetrics"
	"github.com/tourvia/TRV-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий туров и их шаблонов доступности
// Шаблон (дни недели + слоты) редактируется админкой туров и читается
// резолвером доступности; здесь он только читается
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория туров
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает тур вместе с шаблоном слотов
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Tour, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"admin_ids",
		"available_days",
		"created_at",
		"updated_at",
	).
		From("tours").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var tour domain.Tour
	var adminIDs pq.Int64Array
	var availableDays pq.Int64Array
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&tour.ID,
		&tour.Name,
		&adminIDs,
		&availableDays,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrTourNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan tour: %v", ErrScanRow, err)
	}

	tour.AdminIDs = adminIDs
	tour.AvailableDays = make([]int, len(availableDays))
	for i, d := range availableDays {
		tour.AvailableDays[i] = int(d)
	}
	tour.CreatedAt = createdAt.Time
	tour.UpdatedAt = updatedAt.Time

	slots, err := r.getSlots(ctx, executor, id)
	if err != nil {
		return nil, err
	}
	tour.Slots = slots

	return &tour, nil
}

// getSlots получает слоты шаблона тура в порядке position
func (r *Repository) getSlots(ctx context.Context, executor DBExecutor, tourID int64) ([]domain.TemplateSlot, error) {
	query, args, err := psqlbuilder.Select(
		"slot_time",
		"capacity",
	).
		From("tour_slots").
		Where(squirrel.Eq{"tour_id": tourID}).
		OrderBy("position ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getSlots - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]domain.TemplateSlot, 0)
	for rows.Next() {
		var slot domain.TemplateSlot
		if err := rows.Scan(&slot.Time, &slot.Capacity); err != nil {
			return nil, fmt.Errorf("%w: getSlots - scan slot: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}
