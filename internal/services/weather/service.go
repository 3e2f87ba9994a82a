package weather

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/city-weather-dashboard/internal/models"
)

type provider interface {
	CurrentWeather(ctx context.Context, city string) (Observation, error)
	AirQualityIndex(ctx context.Context, lat, lon float64) (int, error)
}

// Service resolves a city name into a WeatherRecord. It keeps no state
// between calls; every lookup is a fresh pair of provider requests.
type Service struct {
	logger   zerolog.Logger
	provider provider
}

func NewService(logger zerolog.Logger, p provider) *Service {
	return &Service{
		logger:   logger.With().Str("component", "WeatherService").Logger(),
		provider: p,
	}
}

// FetchWeather looks up current conditions for city, then the air quality at
// the returned coordinates. A failed air quality lookup leaves AQI at 0.
// Errors are always *FetchError.
func (s *Service) FetchWeather(ctx context.Context, city string) (models.WeatherRecord, error) {
	s.logger.Info().
		Ctx(ctx).
		Str("city", city).
		Msg("fetching weather")

	obs, err := s.provider.CurrentWeather(ctx, city)
	if err != nil {
		fe := asFetchError(err)
		s.logger.Error().
			Ctx(ctx).
			Str("city", city).
			Str("kind", string(fe.Kind)).
			Err(err).
			Msg("current weather lookup failed")
		return models.WeatherRecord{}, fe
	}

	record := models.WeatherRecord{
		City:        obs.City,
		Country:     obs.Country,
		Temperature: obs.Temperature,
		FeelsLike:   obs.FeelsLike,
		Humidity:    obs.Humidity,
		WindSpeed:   obs.WindSpeed,
		Condition:   obs.Condition,
		AQI:         s.airQuality(ctx, obs),
	}

	s.logger.Info().
		Ctx(ctx).
		Str("city", record.City).
		Str("country", record.Country).
		Int("aqi", record.AQI).
		Msg("weather fetched")

	return record, nil
}

func (s *Service) airQuality(ctx context.Context, obs Observation) int {
	index, err := s.provider.AirQualityIndex(ctx, obs.Lat, obs.Lon)
	if err != nil {
		s.logger.Warn().
			Ctx(ctx).
			Str("city", obs.City).
			Float64("lat", obs.Lat).
			Float64("lon", obs.Lon).
			Err(err).
			Msg("air quality lookup failed, reporting aqi 0")
		return 0
	}
	return MapAQIIndex(index)
}
