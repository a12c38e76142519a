package event

// RawEvent is one unprocessed row scraped from the stadium fixtures
// table. All fields are free text exactly as published; rows are
// recreated on every scrape cycle.
type RawEvent struct {
	DateText  string `json:"date"`
	Fixture   string `json:"fixture"`
	TimeText  string `json:"time"`
	CrowdText string `json:"crowd,omitempty"`
}

// Event is a normalized, classified fixture on a single day.
//
// StartTime is a canonical 24-hour "HH:MM" string, or several such
// times joined by " & " when the source row listed more than one
// kickoff. An empty StartTime or Crowd means the source text was
// missing or unparseable; callers decide disposition.
type Event struct {
	Fixture    string   `json:"fixture"`
	Date       string   `json:"date"` // ISO YYYY-MM-DD
	StartTime  string   `json:"start_time,omitempty"`
	Crowd      string   `json:"crowd,omitempty"`
	Category   Category `json:"event_type"`
	Emoji      string   `json:"emoji"`
	Icon       string   `json:"mdi_icon"`
	EventIndex int      `json:"event_index,omitempty"`
	EventCount int      `json:"event_count,omitempty"`
}

// DaySummary groups one day's events. Events are unique by fixture
// text and sorted by start time; EarliestStart is the first kickoff of
// the day, empty when no event has a known time.
type DaySummary struct {
	Date          string  `json:"date"`
	Events        []Event `json:"events"`
	EarliestStart string  `json:"earliest_start,omitempty"`
}

// Snapshot is the complete day-grouped result of one scrape cycle,
// ordered by date ascending. Snapshots are immutable values; loading
// and saving them between cycles belongs to the storage package.
type Snapshot []DaySummary

// Flatten returns the snapshot's events as a single list with the day
// date set on every event, for payloads that carry no day grouping.
func (s Snapshot) Flatten() []Event {
	flat := make([]Event, 0, s.EventCount())
	for _, day := range s {
		for _, ev := range day.Events {
			if ev.Date == "" {
				ev.Date = day.Date
			}
			flat = append(flat, ev)
		}
	}
	return flat
}

// EventCount returns the total number of events across all days.
func (s Snapshot) EventCount() int {
	n := 0
	for _, day := range s {
		n += len(day.Events)
	}
	return n
}
