package timeslot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	"github.com/m04kA/SMC-MarketplaceService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MarketplaceService/pkg/psqlbuilder"
)

// uniqueViolation код ошибки postgres при нарушении уникального индекса
const uniqueViolation = "23505"

var slotColumns = []string{
	"id",
	"provider_id",
	"service_id",
	"slot_date",
	"start_time",
	"duration_minutes",
	"capacity",
	"booked_count",
}

// Repository репозиторий временных слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает один слот. Если слот с тем же временем начала уже есть, возвращает ErrSlotExists
func (r *Repository) Create(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("time_slots").
		Columns("provider_id", "service_id", "slot_date", "start_time", "duration_minutes", "capacity", "booked_count").
		Values(slot.ProviderID, slot.ServiceID, slot.Date, slot.StartTime, slot.DurationMinutes, slot.Capacity, slot.BookedCount).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&slot.ID)
	if isUniqueViolation(err) {
		return nil, ErrSlotExists
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return slot, nil
}

// CreateBatch создает слоты пачкой, пропуская уже существующие.
// Возвращает количество реально созданных слотов
func (r *Repository) CreateBatch(ctx context.Context, slots []domain.TimeSlot) (int, error) {
	if len(slots) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("time_slots").
		Columns("provider_id", "service_id", "slot_date", "start_time", "duration_minutes", "capacity", "booked_count")
	for _, s := range slots {
		insertBuilder = insertBuilder.Values(s.ProviderID, s.ServiceID, s.Date, s.StartTime, s.DurationMinutes, s.Capacity, s.BookedCount)
	}

	query, args, err := insertBuilder.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CreateBatch - build insert query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: CreateBatch - execute insert: %w", ErrExecQuery, err)
	}

	created, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: CreateBatch - get rows affected: %w", ErrExecQuery, err)
	}

	return int(created), nil
}

// GetByID получает слот по ID.
// Внутри транзакции строка блокируется (FOR UPDATE), чтобы проверка вместимости и
// увеличение booked_count выполнялись атомарно
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("time_slots").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %w", ErrScanRow, err)
	}

	return slot, nil
}

// GetByProviderAndDate получает слоты провайдера на дату.
// Если serviceID задан, возвращает слоты этой услуги и общие слоты провайдера
func (r *Repository) GetByProviderAndDate(ctx context.Context, providerID int64, date time.Time, serviceID *int64) ([]*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("time_slots").
		Where(squirrel.Eq{"provider_id": providerID}).
		Where(squirrel.Eq{"slot_date": date}).
		OrderBy("start_time ASC")

	if serviceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Or{
			squirrel.Eq{"service_id": nil},
			squirrel.Eq{"service_id": *serviceID},
		})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderAndDate - build select query: %w", ErrBuildQuery, err)
	}

	return r.querySlots(ctx, executor, "GetByProviderAndDate", query, args)
}

// GetByProviderRange получает слоты провайдера в диапазоне дат включительно
func (r *Repository) GetByProviderRange(ctx context.Context, providerID int64, from, to time.Time) ([]*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("time_slots").
		Where(squirrel.Eq{"provider_id": providerID}).
		Where(squirrel.GtOrEq{"slot_date": from}).
		Where(squirrel.LtOrEq{"slot_date": to}).
		OrderBy("slot_date ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderRange - build select query: %w", ErrBuildQuery, err)
	}

	return r.querySlots(ctx, executor, "GetByProviderRange", query, args)
}

// IncrementBooked занимает одно место в слоте. Если мест нет, возвращает ErrSlotFull
func (r *Repository) IncrementBooked(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("booked_count", squirrel.Expr("booked_count + 1")).
		Where(squirrel.Eq{"id": id}).
		Where("booked_count < capacity").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: IncrementBooked - build update query: %w", ErrBuildQuery, err)
	}

	affected, err := r.exec(ctx, executor, "IncrementBooked", query, args)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSlotFull
	}

	return nil
}

// DecrementBooked освобождает одно место в слоте
func (r *Repository) DecrementBooked(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("booked_count", squirrel.Expr("GREATEST(booked_count - 1, 0)")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DecrementBooked - build update query: %w", ErrBuildQuery, err)
	}

	affected, err := r.exec(ctx, executor, "DecrementBooked", query, args)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// Delete удаляет слот
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("time_slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %w", ErrBuildQuery, err)
	}

	affected, err := r.exec(ctx, executor, "Delete", query, args)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

func (r *Repository) exec(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) (int64, error) {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %s - execute: %w", ErrExecQuery, op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}

	return affected, nil
}

func (r *Repository) querySlots(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) ([]*domain.TimeSlot, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	slots := make([]*domain.TimeSlot, 0)
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return slots, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.TimeSlot, error) {
	var slot domain.TimeSlot
	err := row.Scan(
		&slot.ID,
		&slot.ProviderID,
		&slot.ServiceID,
		&slot.Date,
		&slot.StartTime,
		&slot.DurationMinutes,
		&slot.Capacity,
		&slot.BookedCount,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}
