// Package calendar renders an event snapshot as an iCalendar file so
// upcoming fixtures can be subscribed to from any calendar client.
package calendar

import (
	"crypto/sha1"
	"fmt"
	"os"
	"path/filepath"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/stadiumwatch/twick-events/internal/event"
)

const (
	prodID   = "-//twick-events//Twickenham Events//EN"
	location = "Twickenham Stadium, London"

	// matchDuration is how long a timed fixture blocks the calendar.
	matchDuration = 3 * time.Hour
)

// Options controls calendar rendering.
type Options struct {
	// MaxLabelWidth is the display budget for summaries; when the
	// fixture plus its glyph exceeds it, the glyph is omitted rather
	// than the fixture truncated.
	MaxLabelWidth int
}

// eventUID derives a stable per-fixture UID so calendar clients treat
// re-exports of the same event as updates, not duplicates.
func eventUID(date, fixture string) string {
	h := sha1.New()
	h.Write([]byte(date + "|" + fixture))
	return fmt.Sprintf("%x@twick-events", h.Sum(nil))
}

// Build renders the snapshot as a calendar. Events with a known
// kickoff become timed entries; the rest are all-day.
func Build(snap event.Snapshot, opts Options) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(prodID)
	cal.SetCalscale("GREGORIAN")

	now := time.Now().UTC()
	for _, day := range snap {
		dayStart, err := time.Parse(event.ISODate, day.Date)
		if err != nil {
			continue
		}
		for _, ev := range day.Events {
			entry := cal.AddEvent(eventUID(day.Date, ev.Fixture))
			entry.SetDtStampTime(now)
			entry.SetSummary(event.ShortLabel(ev, opts.MaxLabelWidth))
			entry.SetLocation(location)
			entry.SetDescription(event.Describe(ev))
			entry.SetStatus(ics.ObjectStatusConfirmed)
			entry.SetTimeTransparency(ics.TransparencyOpaque)

			start := EarliestKickoff(dayStart, ev)
			if start != nil {
				entry.SetStartAt(*start)
				entry.SetEndAt(start.Add(matchDuration))
			} else {
				entry.SetAllDayStartAt(dayStart)
				entry.SetAllDayEndAt(dayStart.AddDate(0, 0, 1))
			}
		}
	}
	return cal
}

// EarliestKickoff resolves an event's first start time on its day, or
// nil when no kickoff time is known.
func EarliestKickoff(day time.Time, ev event.Event) *time.Time {
	first := event.EarliestTime(ev.StartTime)
	if first == "" {
		return nil
	}
	clock, err := time.Parse("15:04", first)
	if err != nil {
		return nil
	}
	start := time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), 0, 0, time.UTC)
	return &start
}

// Write renders the snapshot and writes the .ics file, creating parent
// directories as needed.
func Write(path string, snap event.Snapshot, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating calendar directory: %w", err)
	}
	cal := Build(snap, opts)
	if err := os.WriteFile(path, []byte(cal.Serialize()), 0o644); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	return nil
}
