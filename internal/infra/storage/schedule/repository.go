package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	"github.com/m04kA/SMC-MarketplaceService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MarketplaceService/pkg/psqlbuilder"
)

var settingsColumns = []string{
	"id",
	"provider_id",
	"service_id",
	"slot_duration_minutes",
	"capacity",
	"advance_booking_days",
	"min_booking_notice_minutes",
	"open_time",
	"close_time",
	"working_days",
	"created_at",
	"updated_at",
}

// Repository репозиторий настроек расписания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert создает настройки для области (провайдер или услуга провайдера) либо обновляет существующие
func (r *Repository) Upsert(ctx context.Context, settings *domain.ScheduleSettings) (*domain.ScheduleSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("schedule_settings").
		Columns(
			"provider_id",
			"service_id",
			"slot_duration_minutes",
			"capacity",
			"advance_booking_days",
			"min_booking_notice_minutes",
			"open_time",
			"close_time",
			"working_days",
		).
		Values(
			settings.ProviderID,
			settings.ServiceID,
			settings.SlotDurationMinutes,
			settings.Capacity,
			settings.AdvanceBookingDays,
			settings.MinBookingNoticeMinutes,
			settings.OpenTime,
			settings.CloseTime,
			pq.Array(toInt64s(settings.WorkingDays)),
		).
		Suffix(`ON CONFLICT (provider_id, COALESCE(service_id, 0)) DO UPDATE SET
			slot_duration_minutes = EXCLUDED.slot_duration_minutes,
			capacity = EXCLUDED.capacity,
			advance_booking_days = EXCLUDED.advance_booking_days,
			min_booking_notice_minutes = EXCLUDED.min_booking_notice_minutes,
			open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			working_days = EXCLUDED.working_days,
			updated_at = NOW()
			RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&settings.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	settings.CreatedAt = createdAt.Time
	settings.UpdatedAt = updatedAt.Time

	return settings, nil
}

// GetByScope получает настройки ровно для указанной области:
// serviceID == nil - общие настройки провайдера, иначе настройки конкретной услуги
func (r *Repository) GetByScope(ctx context.Context, providerID int64, serviceID *int64) (*domain.ScheduleSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(settingsColumns...).
		From("schedule_settings").
		Where(squirrel.Eq{"provider_id": providerID})

	if serviceID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *serviceID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByScope - build select query: %w", ErrBuildQuery, err)
	}

	settings, err := scanSettings(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByScope - scan settings: %w", ErrScanRow, err)
	}

	return settings, nil
}

// GetWithHierarchy получает настройки с учетом иерархии приоритетов:
// 1. Настройки конкретной услуги (providerID, serviceID)
// 2. Общие настройки провайдера (providerID, NULL)
//
// Если настройки не найдены ни на одном уровне, возвращает ErrSettingsNotFound
func (r *Repository) GetWithHierarchy(ctx context.Context, providerID int64, serviceID *int64) (*domain.ScheduleSettings, error) {
	if serviceID != nil {
		settings, err := r.GetByScope(ctx, providerID, serviceID)
		if err == nil {
			return settings, nil
		}
		if !errors.Is(err, ErrSettingsNotFound) {
			return nil, fmt.Errorf("%w: GetWithHierarchy - level 1 (service): %w", ErrExecQuery, err)
		}
	}

	settings, err := r.GetByScope(ctx, providerID, nil)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, ErrSettingsNotFound) {
		return nil, fmt.Errorf("%w: GetWithHierarchy - level 2 (provider): %w", ErrExecQuery, err)
	}

	return nil, ErrSettingsNotFound
}

// GetAllByProvider получает все настройки провайдера, общие первыми
func (r *Repository) GetAllByProvider(ctx context.Context, providerID int64) ([]*domain.ScheduleSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(settingsColumns...).
		From("schedule_settings").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("service_id ASC NULLS FIRST").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByProvider - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByProvider - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	all := make([]*domain.ScheduleSettings, 0)
	for rows.Next() {
		settings, err := scanSettings(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetAllByProvider - scan row: %w", ErrScanRow, err)
		}
		all = append(all, settings)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAllByProvider - rows error: %w", ErrScanRow, err)
	}

	return all, nil
}

// DeleteByScope удаляет настройки области
func (r *Repository) DeleteByScope(ctx context.Context, providerID int64, serviceID *int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteBuilder := psqlbuilder.Delete("schedule_settings").
		Where(squirrel.Eq{"provider_id": providerID})

	if serviceID == nil {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"service_id": nil})
	} else {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"service_id": *serviceID})
	}

	query, args, err := deleteBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteByScope - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteByScope - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteByScope - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSettingsNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSettings(row rowScanner) (*domain.ScheduleSettings, error) {
	var settings domain.ScheduleSettings
	var workingDays []int64
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&settings.ID,
		&settings.ProviderID,
		&settings.ServiceID,
		&settings.SlotDurationMinutes,
		&settings.Capacity,
		&settings.AdvanceBookingDays,
		&settings.MinBookingNoticeMinutes,
		&settings.OpenTime,
		&settings.CloseTime,
		pq.Array(&workingDays),
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	settings.WorkingDays = make([]int, len(workingDays))
	for i, d := range workingDays {
		settings.WorkingDays[i] = int(d)
	}
	settings.CreatedAt = createdAt.Time
	settings.UpdatedAt = updatedAt.Time

	return &settings, nil
}

func toInt64s(values []int) []int64 {
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = int64(v)
	}
	return out
}
