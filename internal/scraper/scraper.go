package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"

	"github.com/stadiumwatch/twick-events/internal/event"
)

const (
	// FixturesURL is the Richmond council page listing events at
	// Twickenham Stadium.
	FixturesURL = "https://www.richmond.gov.uk/services/parks_and_open_spaces/events_in_richmonds_parks/twickenham_stadium_events"

	UserAgent = "twick-events/1.0 (github.com/stadiumwatch/twick-events)"

	// tableCaption identifies the fixtures table among the page's
	// other table.table elements.
	tableCaption = "events at twickenham stadium"
)

// Stats describes one fetch, including retries.
type Stats struct {
	RawEventCount int           `json:"raw_events_count"`
	FetchDuration time.Duration `json:"fetch_duration"`
	Attempts      int           `json:"retry_attempts"`
	DataSource    string        `json:"data_source"`
}

// Scraper fetches and parses the stadium fixtures page.
type Scraper struct {
	client     *http.Client
	url        string
	maxRetries int
	retryDelay time.Duration
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithURL overrides the fixtures page URL.
func WithURL(url string) Option {
	return func(s *Scraper) { s.url = url }
}

// WithTimeout overrides the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) { s.client.Timeout = d }
}

// WithRetries sets the attempt count and the delay between attempts.
func WithRetries(attempts int, delay time.Duration) Option {
	return func(s *Scraper) {
		if attempts > 0 {
			s.maxRetries = attempts
		}
		s.retryDelay = delay
	}
}

// New creates a Scraper with the default URL, a 10s timeout, and
// 3 attempts 5s apart.
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client:     &http.Client{Timeout: 10 * time.Second},
		url:        FixturesURL,
		maxRetries: 3,
		retryDelay: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URL returns the fixtures page this scraper targets.
func (s *Scraper) URL() string { return s.url }

// FetchEvents fetches the fixtures page and extracts raw event rows,
// retrying temporary outages at a constant interval. An empty result
// with a nil error means the page parsed but listed no events, which
// is normal between seasons.
func (s *Scraper) FetchEvents(ctx context.Context) ([]event.RawEvent, Stats, error) {
	start := time.Now()
	stats := Stats{DataSource: "live"}

	var rows []event.RawEvent
	operation := func() error {
		stats.Attempts++
		fetched, err := s.fetchOnce(ctx)
		if err != nil {
			return err
		}
		rows = fetched
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(s.retryDelay), uint64(s.maxRetries-1)),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		stats.FetchDuration = time.Since(start)
		stats.DataSource = "failed"
		return nil, stats, fmt.Errorf("fetching events: %w", err)
	}

	stats.FetchDuration = time.Since(start)
	stats.RawEventCount = len(rows)
	return rows, stats, nil
}

func (s *Scraper) fetchOnce(ctx context.Context) ([]event.RawEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return ParseEvents(resp.Body)
}

// ParseEvents extracts raw event rows from the fixtures page HTML.
// Only tables captioned as Twickenham Stadium events are read; the
// header row is skipped and rows need at least date, fixture, and
// time columns. The optional fourth column is the expected crowd.
func ParseEvents(r io.Reader) ([]event.RawEvent, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	rows := make([]event.RawEvent, 0)
	doc.Find("table.table").Each(func(_ int, table *goquery.Selection) {
		caption := strings.ToLower(strings.TrimSpace(table.Find("caption").Text()))
		if !strings.Contains(caption, tableCaption) {
			return
		}
		table.Find("tr").Each(func(i int, row *goquery.Selection) {
			if i == 0 {
				return // header row
			}
			cols := row.Find("td")
			if cols.Length() < 3 {
				return
			}
			raw := event.RawEvent{
				DateText: strings.TrimSpace(cols.Eq(0).Text()),
				Fixture:  strings.TrimSpace(cols.Eq(1).Text()),
				TimeText: strings.TrimSpace(cols.Eq(2).Text()),
			}
			if cols.Length() > 3 {
				raw.CrowdText = strings.TrimSpace(cols.Eq(3).Text())
			}
			rows = append(rows, raw)
		})
	})

	return rows, nil
}
