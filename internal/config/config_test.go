//go:build unit

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/city-weather-dashboard/internal/config"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := config.NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.WeatherAPIKey)
	assert.Equal(t, "https://api.openweathermap.org/data/2.5", cfg.OpenWeatherMapURL)
	assert.Equal(t, "localhost:8080", cfg.ServerAddress())
	assert.Equal(t, 10*time.Second, cfg.ClientTimeout())
	assert.Equal(t, 30*24*time.Hour, cfg.Retention())
	assert.Equal(t, uint32(5), cfg.Breaker.RepeatNumber)
	assert.Equal(t, "0 0 3 * * *", cfg.History.PruneSpec)
}

func TestNewConfig_FromEnvironment(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "real-key")
	t.Setenv("OPEN_WEATHER_MAP_URL", "http://127.0.0.1:9999")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("HISTORY_RETENTION_DAYS", "7")

	cfg, err := config.NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "real-key", cfg.WeatherAPIKey)
	assert.Equal(t, "http://127.0.0.1:9999", cfg.OpenWeatherMapURL)
	assert.Equal(t, "localhost:9090", cfg.ServerAddress())
	assert.Equal(t, 7*24*time.Hour, cfg.Retention())
}

func TestNewConfig_InvalidNumber(t *testing.T) {
	t.Setenv("BREAKER_REPEAT_NUM", "many")

	_, err := config.NewConfig()
	assert.Error(t, err)
}
