// Package cli implements the command-line interface for twick-events.
//
// The cli package provides the Cobra-based CLI with subcommands for
// scraping the fixtures page, querying the next event, rendering the
// iCalendar file, publishing to MQTT, running one full cycle, running
// as a scheduled service, and reporting status. It coordinates the
// scraper, event, storage, mqtt, calendar, and service packages and
// supports text and JSON output.
package cli
