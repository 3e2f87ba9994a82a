package weather_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/city-weather-dashboard/internal/services/weather"
)

var breakerCfg = weather.BreakerConfig{
	TimeInterval: 30 * time.Second,
	TimeTimeOut:  15 * time.Second,
	RepeatNumber: 5,
}

const (
	breakerName = "TestAPI"
	city        = "Lviv"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) CurrentWeather(ctx context.Context, city string) (weather.Observation, error) {
	args := m.Called(ctx, city)
	data, ok := args.Get(0).(weather.Observation)
	if !ok {
		return weather.Observation{}, args.Error(1)
	}
	return data, args.Error(1)
}

func (m *mockProvider) AirQualityIndex(ctx context.Context, lat, lon float64) (int, error) {
	args := m.Called(ctx, lat, lon)
	return args.Int(0), args.Error(1)
}

func outage() error {
	return &weather.FetchError{Kind: weather.KindProviderUnavailable, Err: errors.New("status 503")}
}

func TestBreakerProvider_Success(t *testing.T) {
	wrapped := new(mockProvider)
	expected := weather.Observation{City: city, Temperature: 20, Condition: "clear sky"}

	wrapped.
		On("CurrentWeather", mock.Anything, city).
		Return(expected, nil).
		Once()

	bp := weather.NewBreakerProvider(breakerName, breakerCfg, wrapped)

	data, err := bp.CurrentWeather(context.Background(), city)
	assert.NoError(t, err)
	assert.Equal(t, expected, data)

	wrapped.AssertExpectations(t)
}

func TestBreakerProvider_UnderlyingErrorKeepsKind(t *testing.T) {
	wrapped := new(mockProvider)

	wrapped.
		On("CurrentWeather", mock.Anything, city).
		Return(weather.Observation{}, outage()).
		Once()

	bp := weather.NewBreakerProvider(breakerName, breakerCfg, wrapped)

	data, err := bp.CurrentWeather(context.Background(), city)
	require.Error(t, err)
	assert.Empty(t, data)
	assert.ErrorIs(t, err, weather.ErrProviderUnavailable)
	assert.Contains(t, err.Error(), breakerName)

	wrapped.AssertExpectations(t)
}

func TestBreakerProvider_TripCircuitAfterFiveFailures(t *testing.T) {
	wrapped := new(mockProvider)

	wrapped.
		On("CurrentWeather", mock.Anything, city).
		Return(weather.Observation{}, outage()).
		Times(5)

	bp := weather.NewBreakerProvider(breakerName, breakerCfg, wrapped)

	for i := 1; i <= 5; i++ {
		_, err := bp.CurrentWeather(context.Background(), city)
		assert.Error(t, err, "call #%d should error before trip", i)
	}

	_, err := bp.CurrentWeather(context.Background(), city)
	require.Error(t, err)
	assert.ErrorIs(t, err, weather.ErrProviderUnavailable)
	assert.Contains(t, err.Error(), "circuit breaker is open")

	wrapped.AssertNumberOfCalls(t, "CurrentWeather", 5)
}

func TestBreakerProvider_ClientErrorsDoNotTrip(t *testing.T) {
	wrapped := new(mockProvider)

	wrapped.
		On("CurrentWeather", mock.Anything, "Atlantis").
		Return(weather.Observation{}, &weather.FetchError{Kind: weather.KindCityNotFound}).
		Times(10)

	bp := weather.NewBreakerProvider(breakerName, breakerCfg, wrapped)

	for i := 0; i < 10; i++ {
		_, err := bp.CurrentWeather(context.Background(), "Atlantis")
		assert.ErrorIs(t, err, weather.ErrCityNotFound, "call #%d", i+1)
	}

	wrapped.AssertNumberOfCalls(t, "CurrentWeather", 10)
}

func TestBreakerProvider_AirQualityBreakerIsIndependent(t *testing.T) {
	wrapped := new(mockProvider)
	expected := weather.Observation{City: city, Lat: 49.84, Lon: 24.03}

	wrapped.
		On("AirQualityIndex", mock.Anything, 49.84, 24.03).
		Return(0, outage()).
		Times(5)
	wrapped.
		On("CurrentWeather", mock.Anything, city).
		Return(expected, nil).
		Once()

	bp := weather.NewBreakerProvider(breakerName, breakerCfg, wrapped)

	for i := 0; i < 6; i++ {
		_, err := bp.AirQualityIndex(context.Background(), 49.84, 24.03)
		assert.Error(t, err)
	}

	data, err := bp.CurrentWeather(context.Background(), city)
	require.NoError(t, err)
	assert.Equal(t, expected, data)

	wrapped.AssertNumberOfCalls(t, "AirQualityIndex", 5)
	wrapped.AssertExpectations(t)
}

func TestBreakerProvider_CallerCancellationDoesNotTrip(t *testing.T) {
	wrapped := new(mockProvider)
	cancelled := &weather.FetchError{
		Kind: weather.KindUnknown,
		Err:  fmt.Errorf("request /weather: %w", context.Canceled),
	}

	wrapped.
		On("CurrentWeather", mock.Anything, city).
		Return(weather.Observation{}, cancelled).
		Times(10)

	bp := weather.NewBreakerProvider(breakerName, breakerCfg, wrapped)

	for i := 0; i < 10; i++ {
		_, err := bp.CurrentWeather(context.Background(), city)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled, "call #%d", i+1)
		assert.NotContains(t, err.Error(), "circuit breaker is open")
	}

	wrapped.AssertNumberOfCalls(t, "CurrentWeather", 10)
}
