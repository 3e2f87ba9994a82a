package weather

const defaultAQI = 50

// aqiScale maps the provider's coarse 1-5 air quality index onto
// representative values of the 0-500 AQI scale.
var aqiScale = map[int]int{
	1: 25,
	2: 75,
	3: 125,
	4: 175,
	5: 250,
}

// MapAQIIndex converts a coarse index to the 0-500 scale. Unmapped or missing (0) indexes give 50.
func MapAQIIndex(index int) int {
	if v, ok := aqiScale[index]; ok {
		return v
	}
	return defaultAQI
}
