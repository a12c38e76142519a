package event

import (
	"strings"
	"time"
)

// NextEventRules controls how today's events age out when selecting
// the next upcoming event.
type NextEventRules struct {
	// EndOfDayCutoff is an "HH:MM" wall-clock time after which all of
	// today's events are considered over.
	EndOfDayCutoff string
	// Delay is how long after kickoff an event keeps being "next" when
	// another event follows it the same day.
	Delay time.Duration
}

// DefaultNextEventRules mirrors the service defaults: today's listings
// expire at 23:00, and a same-day follow-up takes over one hour after
// the previous kickoff.
func DefaultNextEventRules() NextEventRules {
	return NextEventRules{EndOfDayCutoff: "23:00", Delay: time.Hour}
}

// NextEvent returns the next upcoming event and its day summary, or
// nils when the snapshot holds nothing current or future. Days in the
// future win outright; for today the cutoff and delay rules decide
// whether an earlier kickoff still counts.
func NextEvent(snap Snapshot, now time.Time, rules NextEventRules) (*Event, *DaySummary) {
	cutoff, err := time.Parse("15:04", rules.EndOfDayCutoff)
	if err != nil {
		cutoff, _ = time.Parse("15:04", "23:00")
	}
	today := now.Format(ISODate)

	for i := range snap {
		day := snap[i]
		if day.Date < today || len(day.Events) == 0 {
			continue
		}
		if day.Date > today {
			return &day.Events[0], &day
		}

		// Today: past the cutoff, the whole day is over.
		if !clockOf(now).Before(cutoff) {
			continue
		}
		for j := range day.Events {
			ev := day.Events[j]
			start := EarliestTime(ev.StartTime)
			if start == "" {
				// No kickoff time; it cannot be called over before the
				// cutoff, so it is the next event.
				return &day.Events[j], &day
			}
			startClock, err := time.Parse("15:04", start)
			if err != nil {
				continue
			}
			hasFollowUp := j+1 < len(day.Events)
			if hasFollowUp && !clockOf(now).Before(startClock.Add(rules.Delay)) {
				continue // handed over to the later event
			}
			return &day.Events[j], &day
		}
	}
	return nil, nil
}

// clockOf strips the date, leaving a comparable wall-clock value on
// time.Parse's reference day.
func clockOf(t time.Time) time.Time {
	parsed, _ := time.Parse("15:04", t.Format("15:04"))
	return parsed
}

// DaySummaryFor returns the day group for an ISO date, or nil.
func (s Snapshot) DaySummaryFor(date string) *DaySummary {
	for i := range s {
		if s[i].Date == date {
			return &s[i]
		}
	}
	return nil
}

// ShortLabel returns the label to display for an event within a width
// budget: the fixture with its glyph prefixed when it fits, otherwise
// the fixture alone.
func ShortLabel(ev Event, budget int) string {
	if ev.Emoji != "" && FitsWithGlyph(ev.Fixture+" ", ev.Emoji, budget) {
		return ev.Emoji + " " + ev.Fixture
	}
	return ev.Fixture
}

// joinNonEmpty is a small helper for human-readable one-line event
// descriptions.
func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// Describe renders an event as a single human-readable line, used by
// the CLI and calendar descriptions.
func Describe(ev Event) string {
	return joinNonEmpty(" | ", ev.Date, ev.Fixture, ev.StartTime, ev.Crowd)
}
