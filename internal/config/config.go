package config

import (
	"net"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Server struct {
	Host        string `envconfig:"SERVER_HOST" default:"localhost"`
	Port        string `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout int    `envconfig:"SERVER_TIMEOUT" default:"10"`
}

type Breaker struct {
	TimeInterval int    `envconfig:"BREAKER_INTERVAL" default:"30"`
	TimeTimeOut  int    `envconfig:"BREAKER_TIMEOUT" default:"10"`
	RepeatNumber uint32 `envconfig:"BREAKER_REPEAT_NUM" default:"5"`
}

type DB struct {
	Source string `envconfig:"DB_NAME" default:"weather-history.db"`
}

type History struct {
	RetentionDays int    `envconfig:"HISTORY_RETENTION_DAYS" default:"30"`
	PruneSpec     string `envconfig:"HISTORY_PRUNE_SPEC" default:"0 0 3 * * *"`
}

type Config struct {
	// The key falls back to a placeholder so the service starts without one;
	// the provider then answers 401 and lookups report invalid credentials.
	WeatherAPIKey     string `envconfig:"WEATHER_API_KEY" default:"demo"`
	OpenWeatherMapURL string `envconfig:"OPEN_WEATHER_MAP_URL" default:"https://api.openweathermap.org/data/2.5"`
	HTTPClientTimeout int    `envconfig:"HTTP_CLIENT_TIMEOUT" default:"10"`

	Server  Server
	Breaker Breaker
	DB      DB
	History History

	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	LogsPath     string `envconfig:"LOGS_PATH" default:"./log/city-weather.log"`
	HTTPLogsPath string `envconfig:"HTTP_LOGS_PATH" default:"./log/provider-http.log"`
}

func NewConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) ServerAddress() string {
	return net.JoinHostPort(c.Server.Host, c.Server.Port)
}

func (c *Config) ClientTimeout() time.Duration {
	return time.Duration(c.HTTPClientTimeout) * time.Second
}

func (c *Config) Retention() time.Duration {
	return time.Duration(c.History.RetentionDays) * 24 * time.Hour
}
