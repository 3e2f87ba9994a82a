package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	currentWeatherPath = "/weather"
	airPollutionPath   = "/air_pollution"

	unknownCondition = "Unknown"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type currentWeatherResponse struct {
	Name  string `json:"name"`
	Coord *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Sys *struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main *struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind *struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
}

// missingSections lists the required top-level sections absent from the response.
func (r currentWeatherResponse) missingSections() []string {
	var missing []string
	if r.Coord == nil {
		missing = append(missing, "coord")
	}
	if r.Main == nil {
		missing = append(missing, "main")
	}
	if r.Sys == nil {
		missing = append(missing, "sys")
	}
	if r.Wind == nil {
		missing = append(missing, "wind")
	}
	return missing
}

type airPollutionResponse struct {
	List []struct {
		Main struct {
			AQI int `json:"aqi"`
		} `json:"main"`
	} `json:"list"`
}

// Observation is the current-weather payload mapped out of the provider response.
type Observation struct {
	City        string
	Country     string
	Lat         float64
	Lon         float64
	Temperature float64
	FeelsLike   float64
	Humidity    int
	WindSpeed   float64
	Condition   string
}

// ClientOpenWeatherMap talks to the OpenWeatherMap current weather and air pollution endpoints.
type ClientOpenWeatherMap struct {
	APIKey string
	apiURL string
	client HTTPClient
	logger zerolog.Logger
}

// NewClientOpenWeatherMap constructs a new OpenWeatherMap client. apiURL is the
// API base, e.g. https://api.openweathermap.org/data/2.5.
func NewClientOpenWeatherMap(apiKey, apiURL string,
	httpClient HTTPClient, logger zerolog.Logger,
) *ClientOpenWeatherMap {
	return &ClientOpenWeatherMap{
		APIKey: apiKey,
		apiURL: strings.TrimRight(apiURL, "/"),
		client: httpClient,
		logger: logger.With().Str("component", "ClientOpenWeatherMap").Logger(),
	}
}

// CurrentWeather fetches current conditions for a city by name.
func (s *ClientOpenWeatherMap) CurrentWeather(ctx context.Context, city string) (Observation, error) {
	start := time.Now()

	query := url.Values{}
	query.Set("q", city)
	query.Set("units", "metric")

	var raw currentWeatherResponse
	if err := s.get(ctx, currentWeatherPath, query, &raw); err != nil {
		return Observation{}, err
	}

	if missing := raw.missingSections(); len(missing) > 0 {
		s.logger.Error().
			Ctx(ctx).
			Str("city", city).
			Strs("missing", missing).
			Msg("current weather response is incomplete")
		return Observation{}, newFetchError(KindUnknown,
			fmt.Errorf("response for %q has no %s", city, strings.Join(missing, ", ")))
	}

	obs := Observation{
		City:        raw.Name,
		Country:     raw.Sys.Country,
		Lat:         raw.Coord.Lat,
		Lon:         raw.Coord.Lon,
		Temperature: raw.Main.Temp,
		FeelsLike:   raw.Main.FeelsLike,
		Humidity:    raw.Main.Humidity,
		WindSpeed:   raw.Wind.Speed,
		Condition:   unknownCondition,
	}
	if len(raw.Weather) > 0 && raw.Weather[0].Description != "" {
		obs.Condition = raw.Weather[0].Description
	}

	s.logger.Info().
		Ctx(ctx).
		Str("city", city).
		Dur("duration_ms", time.Since(start)).
		Msg("successfully fetched current weather")

	return obs, nil
}

// AirQualityIndex fetches the coarse 1-5 air quality index at the given coordinates.
// A response without entries yields 0.
func (s *ClientOpenWeatherMap) AirQualityIndex(ctx context.Context, lat, lon float64) (int, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	var raw airPollutionResponse
	if err := s.get(ctx, airPollutionPath, query, &raw); err != nil {
		return 0, err
	}

	if len(raw.List) == 0 {
		return 0, nil
	}
	return raw.List[0].Main.AQI, nil
}

func (s *ClientOpenWeatherMap) get(ctx context.Context, path string, query url.Values, out any) error {
	logQuery := query.Encode()
	query.Set("appid", s.APIKey)
	endpoint := s.apiURL + path + "?" + query.Encode()

	s.logger.Debug().
		Ctx(ctx).
		Str("path", path).
		Str("query", logQuery).
		Msg("starting OpenWeatherMap request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		err = requestError(path, err)
		s.logger.Error().
			Ctx(ctx).
			Err(err).
			Str("path", path).
			Msg("failed to create HTTP request")
		return newFetchError(KindUnknown, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		err = requestError(path, err)
		s.logger.Error().
			Ctx(ctx).
			Err(err).
			Str("path", path).
			Msg("error sending HTTP request to OpenWeatherMap")
		return newFetchError(KindUnknown, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			s.logger.Error().
				Err(cerr).
				Str("path", path).
				Msg("failed to close response body")
		}
	}()

	if err := statusError(resp); err != nil {
		s.logger.Error().
			Ctx(ctx).
			Str("path", path).
			Str("status", resp.Status).
			Msg("OpenWeatherMap API returned non-success status")
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		s.logger.Error().
			Ctx(ctx).
			Err(err).
			Str("path", path).
			Msg("failed to decode OpenWeatherMap response")
		return newFetchError(KindUnknown, fmt.Errorf("decode %s response: %w", path, err))
	}

	return nil
}

// requestError drops the request URL, which carries the API key, from transport errors.
func requestError(path string, err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		err = uerr.Err
	}
	return fmt.Errorf("request %s: %w", path, err)
}

func statusError(resp *http.Response) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	cause := fmt.Errorf("OpenWeatherMap error: status %s", resp.Status)
	switch resp.StatusCode {
	case http.StatusNotFound:
		return newFetchError(KindCityNotFound, cause)
	case http.StatusUnauthorized:
		return newFetchError(KindInvalidCredentials, cause)
	default:
		return newFetchError(KindProviderUnavailable, cause)
	}
}
