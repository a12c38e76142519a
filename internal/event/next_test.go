package event

import (
	"testing"
	"time"
)

func nextTestSnapshot() Snapshot {
	return Snapshot{
		{
			Date:          "2025-03-01",
			EarliestStart: "12:00",
			Events: []Event{
				{Fixture: "Early Match", Date: "2025-03-01", StartTime: "12:00"},
				{Fixture: "Late Match", Date: "2025-03-01", StartTime: "18:00"},
			},
		},
		{
			Date:          "2025-03-08",
			EarliestStart: "15:00",
			Events: []Event{
				{Fixture: "Next Week", Date: "2025-03-08", StartTime: "15:00"},
			},
		},
	}
}

func TestNextEvent(t *testing.T) {
	rules := DefaultNextEventRules()
	tests := []struct {
		name        string
		now         time.Time
		wantFixture string
		wantNil     bool
	}{
		{
			name:        "Before event day",
			now:         time.Date(2025, 2, 20, 9, 0, 0, 0, time.UTC),
			wantFixture: "Early Match",
		},
		{
			name:        "Morning of the day",
			now:         time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
			wantFixture: "Early Match",
		},
		{
			name: "Within delay after kickoff",
			// 12:30 is less than an hour after the 12:00 kickoff, so the
			// early match is still current.
			now:         time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC),
			wantFixture: "Early Match",
		},
		{
			name:        "Delay elapsed hands over to late match",
			now:         time.Date(2025, 3, 1, 13, 30, 0, 0, time.UTC),
			wantFixture: "Late Match",
		},
		{
			name:        "After cutoff rolls to next day",
			now:         time.Date(2025, 3, 1, 23, 30, 0, 0, time.UTC),
			wantFixture: "Next Week",
		},
		{
			name:    "Everything in the past",
			now:     time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC),
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, day := NextEvent(nextTestSnapshot(), tt.now, rules)
			if tt.wantNil {
				if ev != nil || day != nil {
					t.Fatalf("want no next event, got %+v", ev)
				}
				return
			}
			if ev == nil {
				t.Fatal("want next event, got nil")
			}
			if ev.Fixture != tt.wantFixture {
				t.Errorf("next = %q, want %q", ev.Fixture, tt.wantFixture)
			}
			if day == nil || day.Date != ev.Date {
				t.Errorf("day summary mismatch for %+v", ev)
			}
		})
	}
}

func TestNextEventNoStartTime(t *testing.T) {
	snap := Snapshot{{
		Date:   "2025-03-01",
		Events: []Event{{Fixture: "Untimed", Date: "2025-03-01"}},
	}}
	now := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
	ev, _ := NextEvent(snap, now, DefaultNextEventRules())
	if ev == nil || ev.Fixture != "Untimed" {
		t.Fatalf("untimed event should remain next before cutoff, got %+v", ev)
	}
}

func TestDescribe(t *testing.T) {
	ev := Event{Fixture: "England v Wales", Date: "2025-02-08", StartTime: "16:45", Crowd: "82,000"}
	want := "2025-02-08 | England v Wales | 16:45 | 82,000"
	if got := Describe(ev); got != want {
		t.Errorf("Describe = %q, want %q", got, want)
	}
	bare := Event{Fixture: "Mystery"}
	if got := Describe(bare); got != "Mystery" {
		t.Errorf("Describe bare = %q", got)
	}
}
