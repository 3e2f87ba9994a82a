package app

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerfiles "github.com/swaggo/files"
	swagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/Nazarious-ucu/city-weather-dashboard/docs"
	"github.com/Nazarious-ucu/city-weather-dashboard/internal/config"
	"github.com/Nazarious-ucu/city-weather-dashboard/internal/handlers/history"
	"github.com/Nazarious-ucu/city-weather-dashboard/internal/handlers/weather"
	"github.com/Nazarious-ucu/city-weather-dashboard/internal/repository/sqlite"
	"github.com/Nazarious-ucu/city-weather-dashboard/internal/retention"
	loggerT "github.com/Nazarious-ucu/city-weather-dashboard/internal/services/logger"
	metricsSvc "github.com/Nazarious-ucu/city-weather-dashboard/internal/services/metrics"
	serviceWeather "github.com/Nazarious-ucu/city-weather-dashboard/internal/services/weather"
	"github.com/Nazarious-ucu/city-weather-dashboard/internal/services/weather/decorators"
	fLogger "github.com/Nazarious-ucu/city-weather-dashboard/pkg/logger"
)

const (
	timeoutDuration = 5 * time.Second

	providerName = "OpenWeather"
)

// ServiceContainer holds initialized dependencies. Nothing in it is running yet.
type ServiceContainer struct {
	WeatherService *decorators.RecordingService
	History        *sqlite.SearchRepository
	Pruner         *retention.Pruner

	Router     *gin.Engine
	Srv        *http.Server
	Db         *sql.DB
	fileLogger *zap.Logger
}

// App ties together config, logger, and metrics for startup/shutdown.
type App struct {
	cfg config.Config
	l   zerolog.Logger
	m   *metricsSvc.Metrics
}

// New prepares a new App with given config, zerolog logger, and metrics.
func New(cfg config.Config, logger zerolog.Logger, met *metricsSvc.Metrics) *App {
	return &App{
		cfg: cfg,
		l:   logger,
		m:   met,
	}
}

// Init opens the history database, builds the weather pipeline and registers the HTTP routes.
func (a *App) Init(ctx context.Context) (ServiceContainer, error) {
	a.l.Info().
		Str("provider_url", a.cfg.OpenWeatherMapURL).
		Str("db", a.cfg.DB.Source).
		Msg("initializing city weather service")

	db, err := sqlite.Open(ctx, a.cfg.DB.Source)
	if err != nil {
		a.l.Error().Err(err).Msg("failed to open history database")
		return ServiceContainer{}, err
	}

	if err := sqlite.Migrate(db); err != nil {
		a.l.Error().Err(err).Msg("failed to apply migrations")
		_ = db.Close()
		return ServiceContainer{}, err
	}

	fileLogger, err := fLogger.NewFileLogger(a.cfg.HTTPLogsPath)
	if err != nil {
		a.l.Error().Err(err).Msg("failed to create file logger, provider traffic will not be logged")
		fileLogger = zap.NewNop()
	}

	httpLogClient := &http.Client{
		Transport: loggerT.NewRoundTripper(fileLogger),
		Timeout:   a.cfg.ClientTimeout(),
	}

	breakerCfg := serviceWeather.BreakerConfig{
		TimeInterval: time.Duration(a.cfg.Breaker.TimeInterval) * time.Second,
		TimeTimeOut:  time.Duration(a.cfg.Breaker.TimeTimeOut) * time.Second,
		RepeatNumber: a.cfg.Breaker.RepeatNumber,
	}
	openWeather := serviceWeather.NewBreakerProvider(providerName, breakerCfg,
		serviceWeather.NewClientOpenWeatherMap(a.cfg.WeatherAPIKey, a.cfg.OpenWeatherMapURL, httpLogClient, a.l),
	)

	historyRepo := sqlite.NewSearchRepository(db, a.l)

	weatherService := decorators.NewRecordingService(
		decorators.NewInstrumentedService(serviceWeather.NewService(a.l, openWeather), a.m),
		historyRepo,
		a.l,
	)

	pruner := retention.New(historyRepo, a.m, a.l, a.cfg.History.PruneSpec, a.cfg.Retention())

	router := gin.New()
	router.Use(gin.Recovery(), a.m.HTTPMiddleware())

	weatherHandler := weather.NewHandler(weatherService, a.l)
	historyHandler := history.NewHandler(historyRepo, a.l)

	api := router.Group("/api")
	{
		api.GET("/weather", weatherHandler.GetWeather)
		api.GET("/history", historyHandler.GetHistory)
	}
	router.GET("/metrics", gin.WrapH(a.m.Handler()))
	router.GET("/swagger/*any", swagger.WrapHandler(swaggerfiles.Handler))

	httpServer := &http.Server{
		Addr:        a.cfg.ServerAddress(),
		Handler:     router,
		ReadTimeout: time.Duration(a.cfg.Server.ReadTimeout) * time.Second,
	}

	return ServiceContainer{
		WeatherService: weatherService,
		History:        historyRepo,
		Pruner:         pruner,
		Router:         router,
		Srv:            httpServer,
		Db:             db,
		fileLogger:     fileLogger,
	}, nil
}

// Start serves HTTP and runs the retention pruner until ctx is cancelled.
func (a *App) Start(ctx context.Context) error {
	srvContainer, err := a.Init(ctx)
	if err != nil {
		return err
	}

	if err := srvContainer.Pruner.Start(ctx); err != nil {
		_ = a.Shutdown(srvContainer)
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		a.l.Info().Str("address", srvContainer.Srv.Addr).Msg("HTTP server running")
		if err := srvContainer.Srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		a.l.Info().Msg("shutdown signal received, stopping city weather service")
	case err := <-serveErr:
		if err != nil {
			a.l.Error().Err(err).Msg("HTTP server failed")
			_ = a.Shutdown(srvContainer)
			return err
		}
	}

	if err := a.Shutdown(srvContainer); err != nil {
		a.l.Error().Err(err).Msg("failed to shutdown application")
		return err
	}
	a.l.Info().Msg("application shutdown successfully")
	return nil
}

// Shutdown stops the pruner and HTTP server, then closes the database and syncs loggers.
func (a *App) Shutdown(srvContainer ServiceContainer) error {
	a.l.Info().Msg("stopping city weather service…")

	if srvContainer.Pruner != nil {
		srvContainer.Pruner.Stop()
	}

	var errs []error
	if srvContainer.Srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), timeoutDuration)
		defer cancel()

		if err := srvContainer.Srv.Shutdown(ctx); err != nil {
			a.l.Error().Err(err).Msg("HTTP shutdown error")
			errs = append(errs, err)
		} else {
			a.l.Info().Msg("HTTP server stopped")
		}
	}

	if err := a.Close(srvContainer); err != nil {
		errs = append(errs, err)
	}

	a.l.Info().Msg("shutdown complete")
	return errors.Join(errs...)
}

// Close releases the database and file logger without touching the HTTP server.
func (a *App) Close(srvContainer ServiceContainer) error {
	if srvContainer.fileLogger != nil {
		if err := srvContainer.fileLogger.Sync(); err != nil {
			a.l.Warn().Err(err).Msg("failed to sync file logger")
		}
	}

	if srvContainer.Db == nil {
		return nil
	}
	if err := srvContainer.Db.Close(); err != nil {
		a.l.Error().Err(err).Msg("DB close error")
		return err
	}
	a.l.Info().Msg("database closed")
	return nil
}
