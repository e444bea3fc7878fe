package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	"github.com/m04kA/SMC-MarketplaceService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MarketplaceService/pkg/psqlbuilder"
)

// ListStaff получает сотрудников провайдера
func (r *Repository) ListStaff(ctx context.Context, providerID int64, activeOnly bool) ([]domain.StaffMember, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "provider_id", "name", "role", "is_active").
		From("staff_members").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("id ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListStaff - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStaff - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	staff := make([]domain.StaffMember, 0)
	for rows.Next() {
		var m domain.StaffMember
		if err := rows.Scan(&m.ID, &m.ProviderID, &m.Name, &m.Role, &m.IsActive); err != nil {
			return nil, fmt.Errorf("%w: ListStaff - scan row: %w", ErrScanRow, err)
		}
		staff = append(staff, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListStaff - rows error: %w", ErrScanRow, err)
	}

	return staff, nil
}

// GetStaff получает сотрудника по ID
func (r *Repository) GetStaff(ctx context.Context, id int64) (*domain.StaffMember, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "provider_id", "name", "role", "is_active").
		From("staff_members").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetStaff - build select query: %w", ErrBuildQuery, err)
	}

	var m domain.StaffMember
	err = executor.QueryRowContext(ctx, query, args...).Scan(&m.ID, &m.ProviderID, &m.Name, &m.Role, &m.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaff - scan staff: %w", ErrScanRow, err)
	}

	return &m, nil
}

// CreateStaff добавляет сотрудника
func (r *Repository) CreateStaff(ctx context.Context, m *domain.StaffMember) (*domain.StaffMember, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("staff_members").
		Columns("provider_id", "name", "role", "is_active").
		Values(m.ProviderID, m.Name, m.Role, m.IsActive).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateStaff - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&m.ID); err != nil {
		return nil, fmt.Errorf("%w: CreateStaff - execute insert: %w", ErrExecQuery, err)
	}

	return m, nil
}

// SetStaffActive включает или отключает сотрудника
func (r *Repository) SetStaffActive(ctx context.Context, id int64, active bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("staff_members").
		Set("is_active", active).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetStaffActive - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetStaffActive - execute update: %w", ErrExecQuery, err)
	}

	return affectedOne(result, "SetStaffActive", ErrStaffNotFound)
}
