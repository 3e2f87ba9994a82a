package models

import "time"

const OutcomeSuccess = "success"

type SearchEntry struct {
	ID         int64          `json:"id"`
	Query      string         `json:"query"`
	Outcome    string         `json:"outcome"`
	Message    string         `json:"message,omitempty"`
	Record     *WeatherRecord `json:"record,omitempty"`
	SearchedAt time.Time      `json:"searchedAt"`
}
