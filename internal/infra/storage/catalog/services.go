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

var serviceColumns = []string{
	"id",
	"provider_id",
	"name",
	"description",
	"category",
	"price",
	"duration_minutes",
	"is_active",
}

// ListServices получает услуги провайдера вместе с дополнениями
func (r *Repository) ListServices(ctx context.Context, providerID int64, activeOnly bool) ([]domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("id ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]domain.Service, 0)
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListServices - scan row: %w", ErrScanRow, err)
		}
		services = append(services, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListServices - rows error: %w", ErrScanRow, err)
	}

	if len(services) == 0 {
		return services, nil
	}

	ids := make([]int64, len(services))
	for i := range services {
		ids[i] = services[i].ID
	}

	addOns, err := r.addOnsByService(ctx, executor, ids)
	if err != nil {
		return nil, err
	}
	for i := range services {
		services[i].AddOns = addOns[services[i].ID]
	}

	return services, nil
}

// GetService получает услугу с дополнениями
func (r *Repository) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %w", ErrBuildQuery, err)
	}

	s, err := scanService(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %w", ErrScanRow, err)
	}

	addOns, err := r.addOnsByService(ctx, executor, []int64{s.ID})
	if err != nil {
		return nil, err
	}
	s.AddOns = addOns[s.ID]

	return s, nil
}

// CreateService создает услугу вместе с дополнениями
func (r *Repository) CreateService(ctx context.Context, s *domain.Service) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("services").
		Columns(serviceColumns[1:]...).
		Values(s.ProviderID, s.Name, s.Description, s.Category, s.Price, s.DurationMinutes, s.IsActive).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateService - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&s.ID); err != nil {
		return nil, fmt.Errorf("%w: CreateService - execute insert: %w", ErrExecQuery, err)
	}

	for i := range s.AddOns {
		s.AddOns[i].ServiceID = s.ID
		if _, err := r.CreateAddOn(ctx, &s.AddOns[i]); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// UpdateService обновляет изменяемые поля услуги
func (r *Repository) UpdateService(ctx context.Context, s *domain.Service) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("services").
		Set("name", s.Name).
		Set("description", s.Description).
		Set("category", s.Category).
		Set("price", s.Price).
		Set("duration_minutes", s.DurationMinutes).
		Set("is_active", s.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateService - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateService - execute update: %w", ErrExecQuery, err)
	}

	return affectedOne(result, "UpdateService", ErrServiceNotFound)
}

// CreateAddOn добавляет дополнение к услуге
func (r *Repository) CreateAddOn(ctx context.Context, a *domain.AddOn) (*domain.AddOn, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("add_ons").
		Columns("service_id", "name", "price").
		Values(a.ServiceID, a.Name, a.Price).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateAddOn - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&a.ID); err != nil {
		return nil, fmt.Errorf("%w: CreateAddOn - execute insert: %w", ErrExecQuery, err)
	}

	return a, nil
}

// DeleteAddOn удаляет дополнение услуги
func (r *Repository) DeleteAddOn(ctx context.Context, serviceID, addOnID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("add_ons").
		Where(squirrel.Eq{"id": addOnID, "service_id": serviceID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteAddOn - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteAddOn - execute delete: %w", ErrExecQuery, err)
	}

	return affectedOne(result, "DeleteAddOn", ErrAddOnNotFound)
}

func (r *Repository) addOnsByService(ctx context.Context, executor DBExecutor, serviceIDs []int64) (map[int64][]domain.AddOn, error) {
	query, args, err := psqlbuilder.Select("id", "service_id", "name", "price").
		From("add_ons").
		Where(squirrel.Eq{"service_id": serviceIDs}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: addOnsByService - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: addOnsByService - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make(map[int64][]domain.AddOn, len(serviceIDs))
	for rows.Next() {
		var a domain.AddOn
		if err := rows.Scan(&a.ID, &a.ServiceID, &a.Name, &a.Price); err != nil {
			return nil, fmt.Errorf("%w: addOnsByService - scan row: %w", ErrScanRow, err)
		}
		result[a.ServiceID] = append(result[a.ServiceID], a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: addOnsByService - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

func scanService(row rowScanner) (*domain.Service, error) {
	var s domain.Service
	err := row.Scan(
		&s.ID,
		&s.ProviderID,
		&s.Name,
		&s.Description,
		&s.Category,
		&s.Price,
		&s.DurationMinutes,
		&s.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
