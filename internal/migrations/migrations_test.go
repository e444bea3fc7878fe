package migrations

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarketplaceService/pkg/logger"
)

func TestMigrator_Up_SkipsAppliedVersions(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	versions, err := Versions()
	require.NoError(t, err)
	require.NotEmpty(t, versions)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(versions[0]))
	for range versions[1:] {
		mock.ExpectExec(".+").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("INSERT INTO schema_migrations").WillReturnResult(sqlmock.NewResult(0, 1))
	}

	applied, err := NewMigrator(db, logger.NewNop()).Up(context.Background())
	require.NoError(t, err)
	assert.Equal(t, versions[1:], applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrator_Up_AppliesEverythingOnEmptyDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	versions, err := Versions()
	require.NoError(t, err)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_migrations").WillReturnRows(sqlmock.NewRows([]string{"version"}))
	for _, v := range versions {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS providers|.+").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("INSERT INTO schema_migrations").WithArgs(v).WillReturnResult(sqlmock.NewResult(0, 1))
	}

	applied, err := NewMigrator(db, logger.NewNop()).Up(context.Background())
	require.NoError(t, err)
	assert.Equal(t, versions, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}
