package weather

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/city-weather-dashboard/internal/models"
	"github.com/Nazarious-ucu/city-weather-dashboard/internal/services/weather"
)

const timeoutDuration = 10 * time.Second

type weatherFetcher interface {
	FetchWeather(ctx context.Context, city string) (models.WeatherRecord, error)
}

// Response is the weather record plus its AQI category label.
type Response struct {
	models.WeatherRecord
	AQICategory string `json:"aqiCategory"`
}

// ErrorResponse carries the user-facing message and the error kind.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

type Handler struct {
	service weatherFetcher
	logger  zerolog.Logger
}

func NewHandler(svc weatherFetcher, logger zerolog.Logger) *Handler {
	return &Handler{
		service: svc,
		logger:  logger.With().Str("component", "WeatherHandler").Logger(),
	}
}

// GetWeather
// @Summary Get current weather
// @Description Returns current conditions and air quality for a city
// @Tags weather
// @Produce json
// @Param city query string true "City name"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /weather [get]
func (h *Handler) GetWeather(c *gin.Context) {
	city := strings.TrimSpace(c.Query("city"))
	if city == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "city query parameter is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	record, err := h.service.FetchWeather(ctx, city)
	if err != nil {
		kind := weather.KindOf(err)
		h.logger.Warn().
			Ctx(ctx).
			Str("city", city).
			Str("kind", string(kind)).
			Err(err).
			Msg("weather request failed")
		c.JSON(statusFor(kind), ErrorResponse{
			Error: weather.UserMessage(err),
			Kind:  string(kind),
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		WeatherRecord: record,
		AQICategory:   models.AQICategory(record.AQI),
	})
}

func statusFor(kind weather.ErrorKind) int {
	switch kind {
	case weather.KindCityNotFound:
		return http.StatusNotFound
	case weather.KindInvalidCredentials:
		return http.StatusBadGateway
	case weather.KindProviderUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
