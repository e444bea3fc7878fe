package booking

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	"github.com/m04kA/SMC-MarketplaceService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MarketplaceService/pkg/types"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(dbmetrics.Wrap(db, nil)), mock
}

func bookingRow(id int64, status string) []driver.Value {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []driver.Value{
		id, "ref-1", int64(7), int64(1), int64(1), int64(11), nil,
		date, "10:00:00", 90, status,
		"Full Detail Wash", 75.0, 100.0, 10.0, 90.0, "SAVE10",
		"Ann", "ann@example.com", "+100", "card", nil,
		nil, nil, nil, now, now,
	}
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\$1").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(bookingColumns).AddRow(bookingRow(5, "pending")...))
	mock.ExpectQuery("SELECT booking_id, add_on_id, name, price FROM booking_add_ons").
		WillReturnRows(sqlmock.NewRows([]string{"booking_id", "add_on_id", "name", "price"}).
			AddRow(int64(5), int64(1), "Tire Shine", 25.0))

	b, err := repo.GetByID(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, int64(5), b.ID)
	assert.Equal(t, domain.StatusPending, b.Status)
	assert.Equal(t, types.TimeString("10:00"), b.StartTime)
	assert.Nil(t, b.StaffID)
	require.NotNil(t, b.PromoCode)
	assert.Equal(t, "SAVE10", *b.PromoCode)
	assert.Equal(t, "ann@example.com", b.Customer.Email)
	assert.Equal(t, domain.PaymentCard, b.PaymentMethod)
	assert.Equal(t, []domain.BookingAddOn{{AddOnID: 1, Name: "Tire Shine", Price: 25}}, b.AddOns)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByReference(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE reference_code = \\$1").
		WithArgs("BK-3F2A9C01D4E7").
		WillReturnRows(sqlmock.NewRows(bookingColumns).AddRow(bookingRow(5, "confirmed")...))
	mock.ExpectQuery("FROM booking_add_ons").
		WillReturnRows(sqlmock.NewRows([]string{"booking_id", "add_on_id", "name", "price"}))

	b, err := repo.GetByReference(context.Background(), "BK-3F2A9C01D4E7")
	require.NoError(t, err)
	assert.Equal(t, int64(5), b.ID)
	assert.Equal(t, domain.StatusConfirmed, b.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WillReturnRows(sqlmock.NewRows(bookingColumns))

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_Create_WithAddOns(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO bookings (.+) RETURNING id, created_at, updated_at").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(42), now, now))
	mock.ExpectExec("INSERT INTO booking_add_ons").
		WithArgs(int64(42), int64(1), "Tire Shine", 25.0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	b, err := repo.Create(context.Background(), &domain.Booking{
		ReferenceCode: "ref",
		Status:        domain.StatusPending,
		AddOns:        []domain.BookingAddOn{{AddOnID: 1, Name: "Tire Shine", Price: 25}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), b.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Cancel_GuardsCurrentStatus(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec("UPDATE bookings SET status = \\$1, cancelled_by = \\$2, (.+) WHERE id = \\$4 AND status = \\$5").
		WithArgs("cancelled", "user", sqlmock.AnyArg(), int64(1), "confirmed").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Cancel(context.Background(), 1, domain.StatusConfirmed, domain.CancelledByUser, nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Cancel_AlreadyCancelled(t *testing.T) {
	repo, mock := newRepo(t)

	// Второй запрос отмены не находит бронирование в исходном статусе
	mock.ExpectExec("UPDATE bookings SET status = \\$1, cancelled_by = \\$2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Cancel(context.Background(), 1, domain.StatusConfirmed, domain.CancelledByUser, nil)
	assert.ErrorIs(t, err, ErrStatusConflict)
}

func TestRepository_UpdateStatus_GuardsCurrentStatus(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec("UPDATE bookings SET status = \\$1, updated_at = NOW\\(\\) WHERE id = \\$2 AND status = \\$3").
		WithArgs("completed", int64(3), "confirmed").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 3, domain.StatusConfirmed, domain.StatusCompleted)
	assert.ErrorIs(t, err, ErrStatusConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByProviderWithFilter_ExcludesInactive(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE provider_id = \\$1 AND status NOT IN \\(\\$2,\\$3\\)").
		WithArgs(int64(1), "cancelled", "no_show").
		WillReturnRows(sqlmock.NewRows(bookingColumns).
			AddRow(bookingRow(1, "confirmed")...).
			AddRow(bookingRow(2, "pending")...))
	mock.ExpectQuery("FROM booking_add_ons").
		WillReturnRows(sqlmock.NewRows([]string{"booking_id", "add_on_id", "name", "price"}))

	bookings, err := repo.GetByProviderWithFilter(context.Background(), domain.ProviderBookingsFilter{ProviderID: 1})
	require.NoError(t, err)
	assert.Len(t, bookings, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
