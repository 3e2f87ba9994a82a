package models

// WeatherRecord is the normalized result of a single city lookup.
type WeatherRecord struct {
	City        string  `json:"city"`
	Country     string  `json:"country"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feelsLike"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
	Condition   string  `json:"condition"`
	AQI         int     `json:"aqi"`
}

const (
	AQIGood               = "Good"
	AQIModerate           = "Moderate"
	AQIUnhealthySensitive = "Unhealthy for Sensitive"
	AQIUnhealthy          = "Unhealthy"
	AQIVeryUnhealthy      = "Very Unhealthy"
	AQIHazardous          = "Hazardous"
)

// AQICategory returns the health label for a value on the 0-500 AQI scale.
func AQICategory(aqi int) string {
	switch {
	case aqi <= 50:
		return AQIGood
	case aqi <= 100:
		return AQIModerate
	case aqi <= 150:
		return AQIUnhealthySensitive
	case aqi <= 200:
		return AQIUnhealthy
	case aqi <= 300:
		return AQIVeryUnhealthy
	default:
		return AQIHazardous
	}
}
