package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"poirec/internal/catalog"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestPoiEmbededRepository_LoadEmbeddings(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPoiEmbededRepository(db)

	rows := sqlmock.NewRows([]string{"poi_id", "embedding"}).
		AddRow("A", []byte("[1,0,0.5]")).
		AddRow("B", []byte("[0,1,0]"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT poi_id, embedding")).WillReturnRows(rows)

	got, err := repo.LoadEmbeddings(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].ID)
	assert.Equal(t, []float64{1, 0, 0.5}, got[0].Vector)
	assert.Equal(t, "B", got[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPoiEmbededRepository_LoadEmbeddingsError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPoiEmbededRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM poi_embeddings")).WillReturnError(errors.New("relation does not exist"))

	got, err := repo.LoadEmbeddings(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "query poi_embeddings")
	assert.Nil(t, got)
}

func TestPoiEmbededRepository_SaveEmbeddings(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPoiEmbededRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "poi_embeddings"`)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.SaveEmbeddings(context.Background(), []catalog.EmbeddingRecord{
		{ID: "A", Vector: []float64{1, 0}},
		{ID: "B", Vector: []float64{0, 1}},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPoiEmbededRepository_SaveNothing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPoiEmbededRepository(db)

	require.NoError(t, repo.SaveEmbeddings(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPOIRepository_LoadRecords(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPOIRepository(db)

	rows := sqlmock.NewRows([]string{"poi_id", "name", "category", "tags", "latitude", "longitude"}).
		AddRow("A", "Cafe Alpha", "Cafe", nil, 40.7128, -74.006).
		AddRow("B", "", "", []byte("{Museum,Art}"), nil, nil).
		AddRow("C", "Broken", "Bar", nil, 123.0, 10.0)
	mock.ExpectQuery(regexp.QuoteMeta("FROM pois ORDER BY poi_id")).WillReturnRows(rows)

	got, err := repo.LoadRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, catalog.Record{
		ID:       "A",
		Name:     "Cafe Alpha",
		Category: "Cafe",
		Location: &catalog.Location{Lat: 40.7128, Lon: -74.006},
	}, got[0])
	assert.Equal(t, "Museum, Art", got[1].Category, "category falls back to tags")
	assert.Nil(t, got[1].Location)
	assert.Nil(t, got[2].Location, "out of range coordinates are dropped")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPOIRepository_SavePOIs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPOIRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "pois"`)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.SavePOIs(context.Background(), []catalog.Record{
		{ID: "A", Name: "Cafe Alpha", Category: "Cafe", Location: &catalog.Location{Lat: 1, Lon: 2}},
		{ID: "B", Name: "B"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
