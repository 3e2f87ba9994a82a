package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/city-weather-dashboard/internal/models"
)

// SearchRepository stores the search history.
type SearchRepository struct {
	DB  *sql.DB
	log zerolog.Logger
}

func NewSearchRepository(db *sql.DB, logger zerolog.Logger) *SearchRepository {
	logger = logger.With().Str("component", "SearchRepository").Logger()
	return &SearchRepository{DB: db, log: logger}
}

// Save inserts one history entry and returns its id.
func (r *SearchRepository) Save(ctx context.Context, entry models.SearchEntry) (int64, error) {
	var rec models.WeatherRecord
	if entry.Record != nil {
		rec = *entry.Record
	}

	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO searches
		    (query, outcome, message, city, country, temperature, feels_like,
		     humidity, wind_speed, condition, aqi, searched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Query, entry.Outcome, entry.Message,
		rec.City, rec.Country, rec.Temperature, rec.FeelsLike,
		rec.Humidity, rec.WindSpeed, rec.Condition, rec.AQI,
		entry.SearchedAt.UnixMilli(),
	)
	if err != nil {
		r.log.Error().Err(err).Ctx(ctx).
			Str("query", entry.Query).
			Msg("failed to insert search")
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	r.log.Debug().Ctx(ctx).
		Int64("id", id).
		Str("query", entry.Query).
		Str("outcome", entry.Outcome).
		Msg("search recorded")
	return id, nil
}

// Recent returns up to limit entries, newest first.
func (r *SearchRepository) Recent(ctx context.Context, limit int) ([]models.SearchEntry, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, query, outcome, message, city, country, temperature, feels_like,
		       humidity, wind_speed, condition, aqi, searched_at
		FROM searches
		ORDER BY searched_at DESC, id DESC
		LIMIT ?`, limit,
	)
	if err != nil {
		r.log.Error().Err(err).Ctx(ctx).Msg("failed to query recent searches")
		return nil, err
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			r.log.Error().Err(err).Msg("failed to close rows")
		}
	}(rows)

	entries := make([]models.SearchEntry, 0, limit)
	for rows.Next() {
		var (
			e          models.SearchEntry
			rec        models.WeatherRecord
			searchedAt int64
		)
		if err := rows.Scan(
			&e.ID, &e.Query, &e.Outcome, &e.Message,
			&rec.City, &rec.Country, &rec.Temperature, &rec.FeelsLike,
			&rec.Humidity, &rec.WindSpeed, &rec.Condition, &rec.AQI,
			&searchedAt,
		); err != nil {
			r.log.Error().Err(err).Ctx(ctx).Msg("failed to scan search row")
			return nil, err
		}
		e.SearchedAt = time.UnixMilli(searchedAt).UTC()
		if e.Outcome == models.OutcomeSuccess {
			e.Record = &rec
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// DeleteOlderThan removes entries searched before cutoff and reports how many went.
func (r *SearchRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM searches WHERE searched_at < ?", cutoff.UnixMilli(),
	)
	if err != nil {
		r.log.Error().Err(err).Ctx(ctx).
			Time("cutoff", cutoff).
			Msg("failed to delete old searches")
		return 0, err
	}

	count, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	r.log.Info().Ctx(ctx).
		Time("cutoff", cutoff).
		Int64("deleted", count).
		Msg("old searches deleted")
	return count, nil
}
