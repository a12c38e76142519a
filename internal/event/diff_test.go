package event

import (
	"reflect"
	"testing"
)

func snapshotOf(refs ...EventRef) Snapshot {
	days := make(map[string]*DaySummary)
	var order []string
	for _, ref := range refs {
		day, ok := days[ref.Date]
		if !ok {
			day = &DaySummary{Date: ref.Date}
			days[ref.Date] = day
			order = append(order, ref.Date)
		}
		day.Events = append(day.Events, Event{Fixture: ref.Fixture, Date: ref.Date})
	}
	snap := make(Snapshot, 0, len(order))
	for _, date := range order {
		snap = append(snap, *days[date])
	}
	return snap
}

func TestDetectChanges(t *testing.T) {
	tests := []struct {
		name          string
		current       Snapshot
		previous      Snapshot
		wantNew       []EventRef
		wantCancelled []EventRef
		wantSig       bool
	}{
		{
			name: "One added event",
			previous: snapshotOf(
				EventRef{Date: "2025-01-07", Fixture: "A"},
			),
			current: snapshotOf(
				EventRef{Date: "2025-01-07", Fixture: "A"},
				EventRef{Date: "2025-01-14", Fixture: "B"},
			),
			wantNew:       []EventRef{{Date: "2025-01-14", Fixture: "B"}},
			wantCancelled: []EventRef{},
			wantSig:       true,
		},
		{
			name: "Identical snapshots",
			previous: snapshotOf(
				EventRef{Date: "2025-01-07", Fixture: "A"},
			),
			current: snapshotOf(
				EventRef{Date: "2025-01-07", Fixture: "A"},
			),
			wantNew:       []EventRef{},
			wantCancelled: []EventRef{},
			wantSig:       false,
		},
		{
			name:     "Cancelled event",
			previous: snapshotOf(EventRef{Date: "2025-01-07", Fixture: "A"}),
			current:  Snapshot{},
			wantNew:  []EventRef{},
			wantCancelled: []EventRef{
				{Date: "2025-01-07", Fixture: "A"},
			},
			wantSig: true,
		},
		{
			name:     "Empty previous reports everything new",
			previous: nil,
			current: snapshotOf(
				EventRef{Date: "2025-01-07", Fixture: "A"},
				EventRef{Date: "2025-01-14", Fixture: "B"},
			),
			wantNew: []EventRef{
				{Date: "2025-01-07", Fixture: "A"},
				{Date: "2025-01-14", Fixture: "B"},
			},
			wantCancelled: []EventRef{},
			wantSig:       true,
		},
		{
			name: "Renamed fixture reports both sides",
			previous: snapshotOf(
				EventRef{Date: "2025-01-07", Fixture: "England v Wales"},
			),
			current: snapshotOf(
				EventRef{Date: "2025-01-07", Fixture: "England v France"},
			),
			wantNew:       []EventRef{{Date: "2025-01-07", Fixture: "England v France"}},
			wantCancelled: []EventRef{{Date: "2025-01-07", Fixture: "England v Wales"}},
			wantSig:       true,
		},
		{
			name:          "Both empty",
			previous:      Snapshot{},
			current:       Snapshot{},
			wantNew:       []EventRef{},
			wantCancelled: []EventRef{},
			wantSig:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectChanges(tt.current, tt.previous)
			if !reflect.DeepEqual(got.NewEvents, tt.wantNew) {
				t.Errorf("NewEvents = %v, want %v", got.NewEvents, tt.wantNew)
			}
			if !reflect.DeepEqual(got.CancelledEvents, tt.wantCancelled) {
				t.Errorf("CancelledEvents = %v, want %v", got.CancelledEvents, tt.wantCancelled)
			}
			if got.Significant != tt.wantSig {
				t.Errorf("Significant = %v, want %v", got.Significant, tt.wantSig)
			}
		})
	}
}

// A time change alone does not alter identity and must not report.
func TestDetectChangesIgnoresTimeAndCrowd(t *testing.T) {
	previous := Snapshot{{
		Date: "2025-01-07",
		Events: []Event{
			{Fixture: "England v Wales", Date: "2025-01-07", StartTime: "15:00", Crowd: "82,000"},
		},
	}}
	current := Snapshot{{
		Date: "2025-01-07",
		Events: []Event{
			{Fixture: "England v Wales", Date: "2025-01-07", StartTime: "17:30", Crowd: "60,000"},
		},
	}}
	got := DetectChanges(current, previous)
	if got.Significant {
		t.Errorf("time/crowd change reported as significant: %+v", got)
	}
}
