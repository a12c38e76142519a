// Package scraper fetches the Twickenham Stadium fixtures page and
// extracts raw event rows from its events table. Parsing is tolerant:
// rows missing columns are skipped and free-text fields are passed
// through untouched for the event package to normalize.
package scraper
