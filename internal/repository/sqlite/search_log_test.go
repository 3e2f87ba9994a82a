//go:build unit

package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/city-weather-dashboard/internal/models"
	"github.com/Nazarious-ucu/city-weather-dashboard/internal/repository/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	require.NoError(t, sqlite.Migrate(db))
	return db
}

func TestOpen_EmptyName(t *testing.T) {
	_, err := sqlite.Open(context.Background(), "")
	assert.Error(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)
	assert.NoError(t, sqlite.Migrate(db))
}

func TestSearchRepository_SaveAndRecent(t *testing.T) {
	ctx := context.Background()
	repo := sqlite.NewSearchRepository(newTestDB(t), zerolog.Nop())

	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	london := models.WeatherRecord{
		City: "London", Country: "GB", Temperature: 15, FeelsLike: 13,
		Humidity: 70, WindSpeed: 3.2, Condition: "clear sky", AQI: 75,
	}

	id1, err := repo.Save(ctx, models.SearchEntry{
		Query:      "London",
		Outcome:    models.OutcomeSuccess,
		Record:     &london,
		SearchedAt: base,
	})
	require.NoError(t, err)

	id2, err := repo.Save(ctx, models.SearchEntry{
		Query:      "Atlantis",
		Outcome:    "city_not_found",
		Message:    "City not found. Please enter a valid city name.",
		SearchedAt: base.Add(time.Minute),
	})
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	entries, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "Atlantis", entries[0].Query)
	assert.Equal(t, "city_not_found", entries[0].Outcome)
	assert.Nil(t, entries[0].Record)
	assert.Equal(t, base.Add(time.Minute), entries[0].SearchedAt)

	assert.Equal(t, id1, entries[1].ID)
	require.NotNil(t, entries[1].Record)
	assert.Equal(t, london, *entries[1].Record)
	assert.Equal(t, base, entries[1].SearchedAt)
}

func TestSearchRepository_RecentRespectsLimit(t *testing.T) {
	ctx := context.Background()
	repo := sqlite.NewSearchRepository(newTestDB(t), zerolog.Nop())

	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := repo.Save(ctx, models.SearchEntry{
			Query:      "Kyiv",
			Outcome:    "provider_unavailable",
			SearchedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	entries, err := repo.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, base.Add(4*time.Hour), entries[0].SearchedAt)
	assert.Equal(t, base.Add(2*time.Hour), entries[2].SearchedAt)
}

func TestSearchRepository_DeleteOlderThan(t *testing.T) {
	ctx := context.Background()
	repo := sqlite.NewSearchRepository(newTestDB(t), zerolog.Nop())

	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	for _, age := range []time.Duration{40 * 24 * time.Hour, 31 * 24 * time.Hour, 2 * time.Hour} {
		_, err := repo.Save(ctx, models.SearchEntry{
			Query:      "Odesa",
			Outcome:    models.OutcomeSuccess,
			Record:     &models.WeatherRecord{City: "Odesa"},
			SearchedAt: now.Add(-age),
		})
		require.NoError(t, err)
	}

	deleted, err := repo.DeleteOlderThan(ctx, now.Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	entries, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, now.Add(-2*time.Hour), entries[0].SearchedAt)
}
