package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

type BreakerConfig struct {
	TimeInterval time.Duration
	TimeTimeOut  time.Duration
	RepeatNumber uint32
}

// BreakerProvider guards each provider endpoint with its own circuit breaker,
// so a failing air quality endpoint never blocks current weather lookups.
type BreakerProvider struct {
	name    string
	current *gobreaker.CircuitBreaker
	air     *gobreaker.CircuitBreaker
	wrapped provider
}

func NewBreakerProvider(name string, cfg BreakerConfig, wrapped provider) *BreakerProvider {
	return &BreakerProvider{
		name:    name,
		current: gobreaker.NewCircuitBreaker(breakerSettings(name+"-current", cfg)),
		air:     gobreaker.NewCircuitBreaker(breakerSettings(name+"-air", cfg)),
		wrapped: wrapped,
	}
}

func breakerSettings(name string, cfg BreakerConfig) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    cfg.TimeInterval,
		Timeout:     cfg.TimeTimeOut,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.RepeatNumber
		},
		IsSuccessful: providerHealthy,
	}
}

// providerHealthy reports whether err still means the provider answered properly.
// An unknown city, a rejected key or a caller that went away is not an outage.
func providerHealthy(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	switch KindOf(err) {
	case KindCityNotFound, KindInvalidCredentials:
		return true
	default:
		return false
	}
}

func (b *BreakerProvider) CurrentWeather(ctx context.Context, city string) (Observation, error) {
	result, err := b.current.Execute(func() (interface{}, error) {
		return b.wrapped.CurrentWeather(ctx, city)
	})
	if err != nil {
		return Observation{}, b.wrapErr(err)
	}
	res, ok := result.(Observation)
	if !ok {
		return Observation{}, newFetchError(KindUnknown, fmt.Errorf("%s returned unexpected result", b.name))
	}
	return res, nil
}

func (b *BreakerProvider) AirQualityIndex(ctx context.Context, lat, lon float64) (int, error) {
	result, err := b.air.Execute(func() (interface{}, error) {
		return b.wrapped.AirQualityIndex(ctx, lat, lon)
	})
	if err != nil {
		return 0, b.wrapErr(err)
	}
	res, ok := result.(int)
	if !ok {
		return 0, newFetchError(KindUnknown, fmt.Errorf("%s returned unexpected result", b.name))
	}
	return res, nil
}

func (b *BreakerProvider) wrapErr(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return newFetchError(KindProviderUnavailable, fmt.Errorf("%s unavailable: %w", b.name, err))
	}
	return fmt.Errorf("%s: %w", b.name, err)
}
