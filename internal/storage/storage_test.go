package storage

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stadiumwatch/twick-events/internal/event"
)

func TestLoadSnapshotMissingFile(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	snap, err := store.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(snap) != 0 {
		t.Errorf("missing file should load as empty snapshot, got %+v", snap)
	}
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	snap := event.Snapshot{
		{
			Date:          "2025-02-08",
			EarliestStart: "16:45",
			Events: []event.Event{
				{
					Fixture:    "England v Wales",
					Date:       "2025-02-08",
					StartTime:  "16:45",
					Crowd:      "82,000",
					Category:   event.CategoryRugby,
					Emoji:      "🏉",
					Icon:       "mdi:rugby",
					EventIndex: 1,
					EventCount: 1,
				},
			},
		},
	}

	if err := store.SaveSnapshot(snap); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	loaded, err := store.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if !reflect.DeepEqual(loaded, snap) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, snap)
	}
}

func TestLoadStoredTimestamp(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	stored, err := store.LoadStored()
	if err != nil {
		t.Fatalf("LoadStored: %v", err)
	}
	if stored.UpdatedAt != "" {
		t.Errorf("missing file should have no timestamp, got %q", stored.UpdatedAt)
	}

	if err := store.SaveSnapshot(event.Snapshot{}); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	stored, err = store.LoadStored()
	if err != nil {
		t.Fatalf("LoadStored after save: %v", err)
	}
	if stored.UpdatedAt == "" {
		t.Error("saved snapshot should carry a timestamp")
	}
}

func TestNewCreatesNestedDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	store, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := store.SaveSnapshot(event.Snapshot{}); err != nil {
		t.Fatalf("SaveSnapshot into created dir: %v", err)
	}
}
