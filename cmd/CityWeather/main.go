package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Nazarious-ucu/city-weather-dashboard/internal/app"
	"github.com/Nazarious-ucu/city-weather-dashboard/internal/config"
	"github.com/Nazarious-ucu/city-weather-dashboard/internal/handlers/cli"
	"github.com/Nazarious-ucu/city-weather-dashboard/internal/handlers/history"
	metricsSvc "github.com/Nazarious-ucu/city-weather-dashboard/internal/services/metrics"
	"github.com/Nazarious-ucu/city-weather-dashboard/internal/services/weather"
	"github.com/Nazarious-ucu/city-weather-dashboard/pkg/logger"
)

const (
	serviceName      = "CityWeather"
	metricsNamespace = "city_weather"
)

// @title City Weather API
// @version 1.0
// @description Current weather and air quality by city name, with search history.
// @host localhost:8080
// @BasePath /api
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "cityweather",
		Short:        "City weather and air quality",
		Long:         "Looks up current weather and air quality for a city and keeps a search history",
		SilenceUsage: true,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, l, err := setup(true)
			if err != nil {
				return err
			}

			return app.New(*cfg, l, metricsSvc.NewMetrics(metricsNamespace)).Start(ctx)
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <city>",
		Short: "Print the weather card for a city",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			return runGet(cmd.Context(), cmd, strings.Join(args, " "), output)
		},
	}
	getCmd.Flags().StringP("output", "o", cli.OutputText, "Output format (text, json)")

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Print recent searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			output, _ := cmd.Flags().GetString("output")
			return runHistory(cmd.Context(), cmd, limit, output)
		},
	}
	historyCmd.Flags().IntP("limit", "n", history.DefaultLimit, "Number of entries to show")
	historyCmd.Flags().StringP("output", "o", cli.OutputText, "Output format (text, json)")

	rootCmd.AddCommand(serveCmd, getCmd, historyCmd)
	return rootCmd
}

// setup loads configuration and builds the logger. Only the server writes the log file.
func setup(withLogFile bool) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load configuration: %w", err)
	}

	logsPath := ""
	level := zerolog.WarnLevel.String()
	if withLogFile {
		logsPath = cfg.LogsPath
		level = cfg.LogLevel
	}

	l, err := logger.NewLoggerWithLevel(logsPath, serviceName, level)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, l, nil
}

func runGet(ctx context.Context, cmd *cobra.Command, city, output string) error {
	if err := cli.ValidateOutput(output); err != nil {
		return err
	}

	city = strings.TrimSpace(city)
	if city == "" {
		return errors.New("city cannot be empty")
	}

	cfg, l, err := setup(false)
	if err != nil {
		return err
	}

	a := app.New(*cfg, l, metricsSvc.NewMetrics(metricsNamespace))
	container, err := a.Init(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close(container)
	}()

	record, err := container.WeatherService.FetchWeather(ctx, city)
	if err != nil {
		return errors.New(weather.UserMessage(err))
	}

	return cli.RenderCard(cmd.OutOrStdout(), record, output)
}

func runHistory(ctx context.Context, cmd *cobra.Command, limit int, output string) error {
	if err := cli.ValidateOutput(output); err != nil {
		return err
	}
	if limit < 1 {
		return errors.New("limit must be a positive integer")
	}
	if limit > history.MaxLimit {
		limit = history.MaxLimit
	}

	cfg, l, err := setup(false)
	if err != nil {
		return err
	}

	a := app.New(*cfg, l, metricsSvc.NewMetrics(metricsNamespace))
	container, err := a.Init(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close(container)
	}()

	entries, err := container.History.Recent(ctx, limit)
	if err != nil {
		return err
	}

	return cli.RenderHistory(cmd.OutOrStdout(), entries, output)
}
