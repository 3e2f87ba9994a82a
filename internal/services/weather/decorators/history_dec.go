package decorators

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/city-weather-dashboard/internal/models"
	"github.com/Nazarious-ucu/city-weather-dashboard/internal/services/weather"
)

type weatherFetcher interface {
	FetchWeather(ctx context.Context, city string) (models.WeatherRecord, error)
}

type searchStore interface {
	Save(ctx context.Context, entry models.SearchEntry) (int64, error)
}

// RecordingService writes every lookup, failed or not, to the search history.
// A history write failure is logged and never changes the lookup result.
type RecordingService struct {
	inner  weatherFetcher
	store  searchStore
	logger zerolog.Logger
	now    func() time.Time
}

func NewRecordingService(
	inner weatherFetcher,
	store searchStore,
	logger zerolog.Logger,
) *RecordingService {
	return &RecordingService{
		inner:  inner,
		store:  store,
		logger: logger.With().Str("component", "RecordingService").Logger(),
		now:    time.Now,
	}
}

func (s *RecordingService) FetchWeather(ctx context.Context, city string) (models.WeatherRecord, error) {
	record, err := s.inner.FetchWeather(ctx, city)

	entry := models.SearchEntry{
		Query:      city,
		SearchedAt: s.now().UTC(),
	}
	if err != nil {
		entry.Outcome = string(weather.KindOf(err))
		entry.Message = weather.UserMessage(err)
	} else {
		entry.Outcome = models.OutcomeSuccess
		entry.Record = &record
	}

	// The caller may already be gone; the history row should still be written.
	if _, serr := s.store.Save(context.WithoutCancel(ctx), entry); serr != nil {
		s.logger.Error().
			Ctx(ctx).
			Str("city", city).
			Str("outcome", entry.Outcome).
			Err(serr).
			Msg("failed to record search")
	}

	return record, err
}
