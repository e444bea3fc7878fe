package catalog

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

var providerColumns = []string{
	"id",
	"owner_user_id",
	"name",
	"business_name",
	"description",
	"category",
	"location",
	"starting_price",
	"rating",
	"review_count",
	"availability",
	"is_active",
}

// Repository репозиторий каталога: провайдеры, услуги, дополнения и сотрудники
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListProviders получает провайдеров в порядке добавления.
// Этот порядок используется как best_match в поиске
func (r *Repository) ListProviders(ctx context.Context, activeOnly bool) ([]domain.Provider, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(providerColumns...).
		From("providers").
		OrderBy("id ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListProviders - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListProviders - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	providers := make([]domain.Provider, 0)
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListProviders - scan row: %w", ErrScanRow, err)
		}
		providers = append(providers, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListProviders - rows error: %w", ErrScanRow, err)
	}

	return providers, nil
}

// GetProvider получает провайдера по ID
func (r *Repository) GetProvider(ctx context.Context, id int64) (*domain.Provider, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(providerColumns...).
		From("providers").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetProvider - build select query: %w", ErrBuildQuery, err)
	}

	p, err := scanProvider(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProviderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetProvider - scan provider: %w", ErrScanRow, err)
	}

	return p, nil
}

// CreateProvider создает провайдера
func (r *Repository) CreateProvider(ctx context.Context, p *domain.Provider) (*domain.Provider, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	availability := p.Availability
	if availability == nil {
		availability = []string{}
	}

	query, args, err := psqlbuilder.Insert("providers").
		Columns(providerColumns[1:]...).
		Values(
			p.OwnerUserID,
			p.Name,
			p.BusinessName,
			p.Description,
			p.Category,
			p.Location,
			p.StartingPrice,
			p.Rating,
			p.ReviewCount,
			pq.Array(availability),
			p.IsActive,
		).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateProvider - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&p.ID); err != nil {
		return nil, fmt.Errorf("%w: CreateProvider - execute insert: %w", ErrExecQuery, err)
	}

	return p, nil
}

// RefreshStartingPrice пересчитывает минимальную цену провайдера по активным услугам
func (r *Repository) RefreshStartingPrice(ctx context.Context, providerID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("providers").
		Set("starting_price", squirrel.Expr(
			"COALESCE((SELECT MIN(price) FROM services WHERE provider_id = ? AND is_active), 0)", providerID)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": providerID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: RefreshStartingPrice - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: RefreshStartingPrice - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: RefreshStartingPrice - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrProviderNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProvider(row rowScanner) (*domain.Provider, error) {
	var p domain.Provider
	var availability pq.StringArray

	err := row.Scan(
		&p.ID,
		&p.OwnerUserID,
		&p.Name,
		&p.BusinessName,
		&p.Description,
		&p.Category,
		&p.Location,
		&p.StartingPrice,
		&p.Rating,
		&p.ReviewCount,
		&availability,
		&p.IsActive,
	)
	if err != nil {
		return nil, err
	}

	p.Availability = []string(availability)
	if p.Availability == nil {
		p.Availability = []string{}
	}

	return &p, nil
}

func affectedOne(result sql.Result, op string, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
