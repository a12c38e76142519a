package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/stadiumwatch/twick-events/internal/event"
)

// OutputFormat specifies the output format.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// ScrapeResult is the scrape command's output document.
type ScrapeResult struct {
	ScrapedAt  time.Time          `json:"scraped_at"`
	Source     string             `json:"source"`
	EventCount int                `json:"event_count"`
	DayCount   int                `json:"day_count"`
	Errors     []string           `json:"errors,omitempty"`
	Changes    event.ChangeReport `json:"changes"`
	Events     event.Snapshot     `json:"events"`
}

// NextResult is the next command's output document.
type NextResult struct {
	Status string       `json:"status"`
	Event  *event.Event `json:"event,omitempty"`
	Date   string       `json:"date,omitempty"`
}

// StatusResult is the status command's output document.
type StatusResult struct {
	ConfigPath      string       `json:"config_path"`
	DataDir         string       `json:"data_dir"`
	EventCount      int          `json:"event_count"`
	DayCount        int          `json:"day_count"`
	UpdatedAt       string       `json:"updated_at,omitempty"`
	NextEvent       *event.Event `json:"next_event,omitempty"`
	MQTTEnabled     bool         `json:"mqtt_enabled"`
	CalendarEnabled bool         `json:"calendar_enabled"`
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// WriteScrapeResult writes the scrape result in the requested format.
func WriteScrapeResult(w io.Writer, result *ScrapeResult, format OutputFormat, verbose bool) error {
	if format == FormatJSON {
		return writeJSON(w, result)
	}

	if result.EventCount == 0 {
		fmt.Fprintln(w, "No upcoming events found.")
		return nil
	}

	for _, day := range result.Events {
		fmt.Fprintf(w, "\n%s:\n", day.Date)
		for _, ev := range day.Events {
			line := ev.Fixture
			if ev.Emoji != "" {
				line = ev.Emoji + " " + line
			}
			if ev.StartTime != "" {
				line += " at " + ev.StartTime
			}
			if ev.Crowd != "" {
				line += fmt.Sprintf(" (crowd: %s)", ev.Crowd)
			}
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	fmt.Fprintf(w, "\nTotal: %d events across %d days\n", result.EventCount, result.DayCount)

	if result.Changes.Significant {
		fmt.Fprintf(w, "Changes since last run: %d new, %d cancelled\n",
			len(result.Changes.NewEvents), len(result.Changes.CancelledEvents))
	}
	if verbose && len(result.Errors) > 0 {
		fmt.Fprintf(w, "\n%d rows dropped:\n", len(result.Errors))
		for _, line := range result.Errors {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	return nil
}

// WriteNextResult writes the next-event result in the requested format.
func WriteNextResult(w io.Writer, result *NextResult, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, result)
	}
	if result.Event == nil {
		fmt.Fprintln(w, "No upcoming events.")
		return nil
	}
	fmt.Fprintln(w, event.Describe(*result.Event))
	return nil
}

// WriteStatusResult writes the status report in the requested format.
func WriteStatusResult(w io.Writer, result *StatusResult, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, result)
	}
	fmt.Fprintf(w, "Config:   %s\n", result.ConfigPath)
	fmt.Fprintf(w, "Data dir: %s\n", result.DataDir)
	fmt.Fprintf(w, "Events:   %d across %d days\n", result.EventCount, result.DayCount)
	if result.UpdatedAt != "" {
		fmt.Fprintf(w, "Updated:  %s\n", result.UpdatedAt)
	}
	if result.NextEvent != nil {
		fmt.Fprintf(w, "Next:     %s\n", event.Describe(*result.NextEvent))
	}
	fmt.Fprintf(w, "MQTT:     %s\n", enabledWord(result.MQTTEnabled))
	fmt.Fprintf(w, "Calendar: %s\n", enabledWord(result.CalendarEnabled))
	return nil
}

func enabledWord(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}
