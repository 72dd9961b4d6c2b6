package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"gerobak/map-svc/internal/domain"
	"gerobak/map-svc/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTrailDB(t *testing.T) (*storage.TrailRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return storage.NewTrailRepository(db), mock
}

func TestTrailRepository_EnsureSchema(t *testing.T) {
	repo, mock := setupTrailDB(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS vendor_positions").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrailRepository_RecordPositions(t *testing.T) {
	repo, mock := setupTrailDB(t)
	at := time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO vendor_positions").
		WithArgs(1, -6.2, 106.8, at).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO vendor_positions").
		WithArgs(3, -6.3, 106.9, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err := repo.RecordPositions(context.Background(), []domain.LocationUpdate{
		{StoreID: 1, CurrentLocation: &domain.LocationPoint{Lat: -6.2, Lon: 106.8}, LocationUpdatedAt: &at},
		{StoreID: 2},
		{StoreID: 3, CurrentLocation: &domain.LocationPoint{Lat: -6.3, Lon: 106.9}},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrailRepository_RecordPositionsRollsBack(t *testing.T) {
	repo, mock := setupTrailDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO vendor_positions").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.RecordPositions(context.Background(), []domain.LocationUpdate{
		{StoreID: 1, CurrentLocation: &domain.LocationPoint{Lat: -6.2, Lon: 106.8}},
	})
	assert.ErrorContains(t, err, "store 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrailRepository_Trail(t *testing.T) {
	repo, mock := setupTrailDB(t)
	at := time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"store_id", "lat", "lon", "recorded_at"}).
		AddRow(3, -6.21, 106.85, at).
		AddRow(3, -6.2, 106.84, at.Add(-3*time.Second))
	mock.ExpectQuery("SELECT store_id, lat, lon, recorded_at").
		WithArgs(3, storage.DefaultTrailLimit).
		WillReturnRows(rows)

	points, err := repo.Trail(context.Background(), 3, 0)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, -6.21, points[0].Location.Lat)
	assert.Equal(t, at, points[0].RecordedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
