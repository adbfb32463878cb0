package stopsale

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
)

// Repository репозиторий правил stop-sale и их журнала аудита
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория stop-sale
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает правило stop-sale
// Дубликат по (tour_id, start_date, end_date, option_ids) дает ErrRuleAlreadyExists
func (r *Repository) Create(ctx context.Context, rule *domain.StopSaleRule) (*domain.StopSaleRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("stop_sale_rules").
		Columns("tour_id", "option_ids", "start_date", "end_date", "reason", "created_by").
		Values(
			rule.TourID,
			pq.StringArray(rule.OptionIDs),
			domain.DateOnly(rule.StartDate),
			domain.DateOnly(rule.EndDate),
			rule.Reason,
			rule.CreatedBy,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	created := *rule
	err = executor.QueryRowContext(ctx, query, args...).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, fmt.Errorf("%w: Create - rule for tour %d [%s, %s]",
				ErrRuleAlreadyExists,
				rule.TourID,
				domain.DateKey(rule.StartDate),
				domain.DateKey(rule.EndDate),
			)
		}
		return nil, fmt.Errorf("%w: Create - insert rule: %v", ErrExecQuery, err)
	}

	return &created, nil
}

// Delete удаляет правило stop-sale по id
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("stop_sale_rules").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrRuleNotFound
	}

	return nil
}

// GetByID получает правило stop-sale по id
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.StopSaleRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectRuleColumns().
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rule, err := scanRule(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan rule: %v", ErrScanRow, err)
	}

	return rule, nil
}

// ListByTour получает все правила stop-sale тура
func (r *Repository) ListByTour(ctx context.Context, tourID int64) ([]*domain.StopSaleRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectRuleColumns().
		Where(squirrel.Eq{"tour_id": tourID}).
		OrderBy("start_date ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByTour - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryRules(ctx, executor, "ListByTour", query, args)
}

// ListActiveByTourAndRange получает правила тура, пересекающиеся с периодом [from, to]
func (r *Repository) ListActiveByTourAndRange(ctx context.Context, tourID int64, from, to time.Time) ([]*domain.StopSaleRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectRuleColumns().
		Where(squirrel.Eq{"tour_id": tourID}).
		Where(squirrel.LtOrEq{"start_date": domain.DateOnly(to)}).
		Where(squirrel.GtOrEq{"end_date": domain.DateOnly(from)}).
		OrderBy("start_date ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByTourAndRange - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryRules(ctx, executor, "ListActiveByTourAndRange", query, args)
}

// AppendLog добавляет запись в журнал аудита stop-sale
func (r *Repository) AppendLog(ctx context.Context, entry *domain.StopSaleLogEntry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("stop_sale_logs").
		Columns("rule_id", "tour_id", "actor_id", "status", "start_date", "end_date", "reason").
		Values(
			entry.RuleID,
			entry.TourID,
			entry.ActorID,
			entry.Status,
			domain.DateOnly(entry.StartDate),
			domain.DateOnly(entry.EndDate),
			entry.Reason,
		).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AppendLog - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AppendLog - insert entry: %v", ErrExecQuery, err)
	}

	return nil
}

// ListLogByTour получает журнал аудита stop-sale тура, новые записи первыми
func (r *Repository) ListLogByTour(ctx context.Context, tourID int64) ([]*domain.StopSaleLogEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"rule_id",
		"tour_id",
		"actor_id",
		"status",
		"start_date",
		"end_date",
		"reason",
		"created_at",
	).
		From("stop_sale_logs").
		Where(squirrel.Eq{"tour_id": tourID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListLogByTour - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListLogByTour - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.StopSaleLogEntry, 0)
	for rows.Next() {
		var entry domain.StopSaleLogEntry

		err := rows.Scan(
			&entry.ID,
			&entry.RuleID,
			&entry.TourID,
			&entry.ActorID,
			&entry.Status,
			&entry.StartDate,
			&entry.EndDate,
			&entry.Reason,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListLogByTour - scan entry: %v", ErrScanRow, err)
		}

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListLogByTour - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}

func (r *Repository) queryRules(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) ([]*domain.StopSaleRule, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	rules := make([]*domain.StopSaleRule, 0)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan rule: %v", ErrScanRow, op, err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return rules, nil
}

func selectRuleColumns() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"tour_id",
		"option_ids",
		"start_date",
		"end_date",
		"reason",
		"created_by",
		"created_at",
	).From("stop_sale_rules")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRule(row rowScanner) (*domain.StopSaleRule, error) {
	var rule domain.StopSaleRule
	var optionIDs pq.StringArray

	err := row.Scan(
		&rule.ID,
		&rule.TourID,
		&optionIDs,
		&rule.StartDate,
		&rule.EndDate,
		&rule.Reason,
		&rule.CreatedBy,
		&rule.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	rule.OptionIDs = optionIDs
	return &rule, nil
}
