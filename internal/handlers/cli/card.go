package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Nazarious-ucu/city-weather-dashboard/internal/models"
)

const (
	OutputText = "text"
	OutputJSON = "json"

	cardWidth  = 32
	timeLayout = "2006-01-02 15:04:05"
)

type cardJSON struct {
	models.WeatherRecord
	AQICategory string `json:"aqiCategory"`
}

// ValidateOutput rejects output formats other than text and json.
func ValidateOutput(output string) error {
	switch output {
	case OutputText, OutputJSON, "":
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", output)
	}
}

// RenderCard writes a weather record in the requested output format.
func RenderCard(w io.Writer, record models.WeatherRecord, output string) error {
	if err := ValidateOutput(output); err != nil {
		return err
	}

	switch output {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cardJSON{WeatherRecord: record, AQICategory: models.AQICategory(record.AQI)})
	default:
		return renderText(w, record)
	}
}

func renderText(w io.Writer, record models.WeatherRecord) error {
	title := record.City
	if record.Country != "" {
		title += ", " + record.Country
	}

	var b strings.Builder
	fmt.Fprintln(&b, title)
	fmt.Fprintln(&b, strings.Repeat("=", cardWidth))
	fmt.Fprintf(&b, "Temperature:  %d°C\n", roundHalfUp(record.Temperature))
	fmt.Fprintf(&b, "Condition:    %s\n", record.Condition)
	fmt.Fprintf(&b, "Feels like:   %d°C\n", roundHalfUp(record.FeelsLike))
	fmt.Fprintf(&b, "Humidity:     %d%%\n", record.Humidity)
	fmt.Fprintf(&b, "Wind:         %d m/s\n", roundHalfUp(record.WindSpeed))
	fmt.Fprintf(&b, "Air quality:  %d (%s)\n", record.AQI, models.AQICategory(record.AQI))

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderHistory writes search history entries as an aligned table.
func RenderHistory(w io.Writer, entries []models.SearchEntry, output string) error {
	if err := ValidateOutput(output); err != nil {
		return err
	}

	if output == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No searches recorded yet.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tQUERY\tOUTCOME\tDETAILS")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			e.SearchedAt.In(time.Local).Format(timeLayout), e.Query, e.Outcome, details(e))
	}
	return tw.Flush()
}

func details(e models.SearchEntry) string {
	if e.Record == nil {
		return e.Message
	}
	r := e.Record
	return fmt.Sprintf("%s, %s %d°C %s, AQI %d",
		r.City, r.Country, roundHalfUp(r.Temperature), r.Condition, r.AQI)
}

// roundHalfUp rounds to the nearest integer with halves going up, so -2.5 becomes -2.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
