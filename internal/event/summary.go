package event

import (
	"fmt"
	"sort"
	"time"
)

// missingTimeSortKey sorts events without a known kickoff after every
// timed event on the same day.
const missingTimeSortKey = "23:59"

// Summarize turns raw scraped rows into a date-grouped snapshot.
// Rows whose date cannot be parsed are dropped and reported in the
// returned error lines; rows dated before today are dropped silently.
// Within each day, events are unique by fixture text and sorted by
// start time.
func Summarize(raw []RawEvent, today time.Time) (Snapshot, []string) {
	var errs []string
	cutoff := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	days := make(map[string]*DaySummary)
	seen := make(map[string]map[string]bool) // date -> fixture -> present

	for _, row := range raw {
		date := NormalizeDate(row.DateText)
		if date == "" {
			errs = append(errs, fmt.Sprintf("could not parse date: %q", row.DateText))
			continue
		}
		day, err := time.Parse(ISODate, date)
		if err != nil {
			errs = append(errs, fmt.Sprintf("invalid normalized date: %q", date))
			continue
		}
		if day.Before(cutoff) {
			continue
		}

		if seen[date] == nil {
			seen[date] = make(map[string]bool)
		}
		if seen[date][row.Fixture] {
			continue
		}
		seen[date][row.Fixture] = true

		class := Classify(row.Fixture)
		ev := Event{
			Fixture:   row.Fixture,
			Date:      date,
			StartTime: NormalizeTime(row.TimeText),
			Crowd:     FormatCrowd(row.CrowdText),
			Category:  class.Category,
			Emoji:     class.Emoji,
			Icon:      class.Icon,
		}

		bucket := days[date]
		if bucket == nil {
			bucket = &DaySummary{Date: date}
			days[date] = bucket
		}
		bucket.Events = append(bucket.Events, ev)
	}

	snapshot := make(Snapshot, 0, len(days))
	for _, bucket := range days {
		sort.SliceStable(bucket.Events, func(i, j int) bool {
			return startSortKey(bucket.Events[i]) < startSortKey(bucket.Events[j])
		})
		for i := range bucket.Events {
			bucket.Events[i].EventIndex = i + 1
			bucket.Events[i].EventCount = len(bucket.Events)
		}
		bucket.EarliestStart = earliestStart(bucket.Events)
		snapshot = append(snapshot, *bucket)
	}
	sort.Slice(snapshot, func(i, j int) bool { return snapshot[i].Date < snapshot[j].Date })
	return snapshot, errs
}

func startSortKey(ev Event) string {
	if t := EarliestTime(ev.StartTime); t != "" {
		return t
	}
	return missingTimeSortKey
}

func earliestStart(events []Event) string {
	earliest := ""
	for _, ev := range events {
		t := EarliestTime(ev.StartTime)
		if t == "" {
			continue
		}
		if earliest == "" || t < earliest {
			earliest = t
		}
	}
	return earliest
}
