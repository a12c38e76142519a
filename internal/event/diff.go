package event

import "sort"

// EventRef identifies an event across scrape cycles. Identity is the
// (date, fixture) pair only: time and crowd changes do not alter
// identity, so callers needing time-change alerts must compare those
// fields themselves.
type EventRef struct {
	Date    string `json:"date"`
	Fixture string `json:"fixture"`
}

// ChangeReport is the structured diff between two snapshots.
type ChangeReport struct {
	NewEvents       []EventRef `json:"new_events"`
	CancelledEvents []EventRef `json:"cancelled_events"`
	Significant     bool       `json:"significant"`
}

// DetectChanges diffs the current snapshot against the previous one.
// Events present only in current are new; events present only in
// previous are cancelled (or renamed). An empty previous snapshot
// means every current event reports as new; callers apply their own
// cold-start suppression. Results are sorted for stable output.
func DetectChanges(current, previous Snapshot) ChangeReport {
	currentSet := identitySet(current)
	previousSet := identitySet(previous)

	report := ChangeReport{
		NewEvents:       make([]EventRef, 0),
		CancelledEvents: make([]EventRef, 0),
	}
	for ref := range currentSet {
		if !previousSet[ref] {
			report.NewEvents = append(report.NewEvents, ref)
		}
	}
	for ref := range previousSet {
		if !currentSet[ref] {
			report.CancelledEvents = append(report.CancelledEvents, ref)
		}
	}
	sortRefs(report.NewEvents)
	sortRefs(report.CancelledEvents)
	report.Significant = len(report.NewEvents) > 0 || len(report.CancelledEvents) > 0
	return report
}

func identitySet(snap Snapshot) map[EventRef]bool {
	set := make(map[EventRef]bool, snap.EventCount())
	for _, day := range snap {
		for _, ev := range day.Events {
			date := ev.Date
			if date == "" {
				date = day.Date
			}
			set[EventRef{Date: date, Fixture: ev.Fixture}] = true
		}
	}
	return set
}

func sortRefs(refs []EventRef) {
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Date != refs[j].Date {
			return refs[i].Date < refs[j].Date
		}
		return refs[i].Fixture < refs[j].Fixture
	})
}
