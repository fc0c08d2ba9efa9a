package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Driver-level failures are hard to provoke with a real database, so these
// paths run against a mocked connection.

func TestStatsQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT plugin_type, COUNT").WillReturnError(errors.New("disk I/O error"))

	_, err = NewStore(db).Stats(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query plugin stats")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertBatchBeginError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errors.New("database is locked"))

	err = NewStore(db).InsertBatch(context.Background(), &Batch{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetVariantScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM plugin_variants").WillReturnError(errors.New("no such table: plugin_variants"))

	_, err = NewStore(db).GetVariant(context.Background(), "extractors.tap-github.meltanolabs")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
