package catalog

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	"github.com/m04kA/SMC-MarketplaceService/pkg/dbmetrics"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(dbmetrics.Wrap(db, nil)), mock
}

func TestRepository_ListProviders_ActiveOnly(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM providers WHERE is_active = \\$1 ORDER BY id ASC").
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows(providerColumns).
			AddRow(int64(1), int64(1000), "Elite Auto Care", "Elite LLC", "wash", "Automotive", "Downtown",
				75.0, 4.8, 214, "{today,weekend}", true))

	providers, err := repo.ListProviders(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, providers, 1)
	assert.Equal(t, []string{"today", "weekend"}, providers[0].Availability)
	assert.Equal(t, 75.0, providers[0].StartingPrice)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetProvider_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("FROM providers WHERE id = \\$1").
		WillReturnRows(sqlmock.NewRows(providerColumns))

	_, err := repo.GetProvider(context.Background(), 9)
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestRepository_GetService_AttachesAddOns(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("FROM services WHERE id = \\$1").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(serviceColumns).
			AddRow(int64(1), int64(1), "Full Detail Wash", "", "Automotive", 75.0, 90, true))
	mock.ExpectQuery("FROM add_ons WHERE service_id IN \\(\\$1\\)").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "service_id", "name", "price"}).
			AddRow(int64(1), int64(1), "Tire Shine", 25.0).
			AddRow(int64(2), int64(1), "Engine Bay Cleaning", 40.0))

	s, err := repo.GetService(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, s.AddOns, 2)
	assert.Equal(t, "Tire Shine", s.FindAddOn(1).Name)
	assert.Nil(t, s.FindAddOn(99))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateService_WithAddOns(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("INSERT INTO services").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(8)))
	mock.ExpectQuery("INSERT INTO add_ons").
		WithArgs(int64(8), "Tire Shine", 25.0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(20)))

	s, err := repo.CreateService(context.Background(), &domain.Service{
		ProviderID: 1, Name: "Wash", Price: 75, DurationMinutes: 60, IsActive: true,
		AddOns: []domain.AddOn{{Name: "Tire Shine", Price: 25}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(8), s.ID)
	assert.Equal(t, int64(20), s.AddOns[0].ID)
	assert.Equal(t, int64(8), s.AddOns[0].ServiceID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_RefreshStartingPrice(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec("UPDATE providers SET starting_price = COALESCE\\(\\(SELECT MIN\\(price\\) FROM services WHERE provider_id = \\$1 AND is_active\\), 0\\)").
		WithArgs(int64(1), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.RefreshStartingPrice(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteAddOn_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec("DELETE FROM add_ons WHERE id = \\$1 AND service_id = \\$2").
		WithArgs(int64(5), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.DeleteAddOn(context.Background(), 1, 5), ErrAddOnNotFound)
}
