package decorators

import (
	"context"
	"time"

	"github.com/Nazarious-ucu/city-weather-dashboard/internal/models"
	"github.com/Nazarious-ucu/city-weather-dashboard/internal/services/weather"
)

type lookupObserver interface {
	ObserveLookup(outcome string, d time.Duration)
}

type InstrumentedService struct {
	inner    weatherFetcher
	observer lookupObserver
}

func NewInstrumentedService(inner weatherFetcher, observer lookupObserver) *InstrumentedService {
	return &InstrumentedService{inner: inner, observer: observer}
}

func (s *InstrumentedService) FetchWeather(ctx context.Context, city string) (models.WeatherRecord, error) {
	start := time.Now()
	record, err := s.inner.FetchWeather(ctx, city)

	outcome := models.OutcomeSuccess
	if err != nil {
		outcome = string(weather.KindOf(err))
	}
	s.observer.ObserveLookup(outcome, time.Since(start))

	return record, err
}
