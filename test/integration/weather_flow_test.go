//go:build integration

package integration

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getJSON(t *testing.T, path string) (int, string) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, testServerURL+path, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func(body io.ReadCloser) {
		assert.NoError(t, body.Close(), "failed to close response body")
	}(resp.Body)

	bodyBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed reading response body")

	return resp.StatusCode, string(bodyBytes)
}

func TestWeatherFlow(t *testing.T) {
	testCases := []struct {
		name     string
		city     string
		wantCode int
		wantBody string
	}{
		{
			name:     "valid city",
			city:     "London",
			wantCode: http.StatusOK,
			wantBody: `{"city":"London","country":"GB","temperature":15,"feelsLike":13,"humidity":70,` +
				`"windSpeed":3.2,"condition":"clear sky","aqi":75,"aqiCategory":"Moderate"}`,
		},
		{
			name:     "air quality unavailable",
			city:     "Smogtown",
			wantCode: http.StatusOK,
			wantBody: `{"city":"Smogtown","country":"XX","temperature":31.6,"feelsLike":35.2,"humidity":40,` +
				`"windSpeed":1.1,"condition":"haze","aqi":0,"aqiCategory":"Good"}`,
		},
		{
			name:     "unknown city",
			city:     "Atlantis",
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"City not found. Please enter a valid city name.","kind":"city_not_found"}`,
		},
		{
			name:     "provider down",
			city:     "Stormville",
			wantCode: http.StatusServiceUnavailable,
			wantBody: `{"error":"Failed to fetch weather data. Please try again.","kind":"provider_unavailable"}`,
		},
		{
			name:     "missing city",
			city:     "   ",
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"city query parameter is required"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := getJSON(t, "/api/weather?city="+url.QueryEscape(tc.city))

			assert.Equal(t, tc.wantCode, code)
			assert.JSONEq(t, tc.wantBody, body)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	getJSON(t, "/api/weather?city=London")

	code, body := getJSON(t, "/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, strings.Contains(body, `city_weather_weather_lookups_total{outcome="success"}`))
	assert.True(t, strings.Contains(body, `city_weather_http_requests_total`))
}
