package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stadiumwatch/twick-events/internal/config"
	"github.com/stadiumwatch/twick-events/internal/event"
	"github.com/stadiumwatch/twick-events/internal/mqtt"
	"github.com/stadiumwatch/twick-events/internal/scraper"
	"github.com/stadiumwatch/twick-events/internal/storage"
)

type stubFetcher struct {
	raw []event.RawEvent
	err error
}

func (f *stubFetcher) FetchEvents(context.Context) ([]event.RawEvent, scraper.Stats, error) {
	if f.err != nil {
		return nil, scraper.Stats{}, f.err
	}
	return f.raw, scraper.Stats{
		RawEventCount: len(f.raw),
		FetchDuration: 120 * time.Millisecond,
		Attempts:      1,
	}, nil
}

type recordingPublisher struct {
	snapshots  []event.Snapshot
	alerts     []event.ChangeReport
	discovery  int
	publishErr error
}

func (p *recordingPublisher) PublishSnapshot(_ context.Context, snap event.Snapshot, _ mqtt.CycleStatus) error {
	if p.publishErr != nil {
		return p.publishErr
	}
	p.snapshots = append(p.snapshots, snap)
	return nil
}

func (p *recordingPublisher) PublishAlert(_ context.Context, report event.ChangeReport) error {
	if report.Significant {
		p.alerts = append(p.alerts, report)
	}
	return nil
}

func (p *recordingPublisher) PublishDiscovery(context.Context, string, string) error {
	p.discovery++
	return nil
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format(event.ISODate)
}

func newTestService(t *testing.T, fetcher Fetcher, pub FeedPublisher) (*Service, *config.Config) {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Calendar.Enabled = true
	cfg.Calendar.Path = filepath.Join(cfg.DataDir, "events.ics")

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	return New(cfg, fetcher, store, pub, "test"), cfg
}

func TestCycle(t *testing.T) {
	fetcher := &stubFetcher{raw: []event.RawEvent{
		{DateText: futureDate(7), Fixture: "England v Wales", TimeText: "16:45", CrowdText: "82,000"},
		{DateText: futureDate(9), Fixture: "Taylor Swift Concert", TimeText: "7pm"},
	}}
	pub := &recordingPublisher{}
	svc, cfg := newTestService(t, fetcher, pub)

	result, err := svc.Cycle(context.Background())
	if err != nil {
		t.Fatalf("Cycle: %v", err)
	}
	if got := result.Snapshot.EventCount(); got != 2 {
		t.Errorf("events = %d, want 2", got)
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}

	// A cold start reports everything as new; no alert should fire.
	if len(pub.snapshots) != 1 || len(pub.alerts) != 0 {
		t.Errorf("publishes = %d snapshots, %d alerts; want 1, 0",
			len(pub.snapshots), len(pub.alerts))
	}
	if pub.discovery != 1 {
		t.Errorf("discovery publishes = %d, want 1", pub.discovery)
	}

	// Snapshot persisted and calendar rendered.
	store, _ := storage.New(cfg.DataDir)
	saved, err := store.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if saved.EventCount() != 2 {
		t.Errorf("persisted events = %d, want 2", saved.EventCount())
	}
	data, err := os.ReadFile(cfg.Calendar.Path)
	if err != nil {
		t.Fatalf("calendar not written: %v", err)
	}
	if !strings.Contains(string(data), "England v Wales") {
		t.Error("calendar missing fixture")
	}
}

func TestCycleAlertsOnChange(t *testing.T) {
	fetcher := &stubFetcher{raw: []event.RawEvent{
		{DateText: futureDate(7), Fixture: "England v Wales", TimeText: "16:45"},
	}}
	pub := &recordingPublisher{}
	svc, _ := newTestService(t, fetcher, pub)

	if _, err := svc.Cycle(context.Background()); err != nil {
		t.Fatalf("first cycle: %v", err)
	}
	fetcher.raw = append(fetcher.raw, event.RawEvent{
		DateText: futureDate(14), Fixture: "England v France", TimeText: "15:00",
	})
	result, err := svc.Cycle(context.Background())
	if err != nil {
		t.Fatalf("second cycle: %v", err)
	}
	if !result.Changes.Significant {
		t.Fatal("added fixture should be significant")
	}
	if len(pub.alerts) != 1 {
		t.Fatalf("alerts = %d, want 1", len(pub.alerts))
	}
	if got := pub.alerts[0].NewEvents; len(got) != 1 || got[0].Fixture != "England v France" {
		t.Errorf("alert new events = %+v", got)
	}

	// Discovery only goes out once.
	if pub.discovery != 1 {
		t.Errorf("discovery publishes = %d, want 1", pub.discovery)
	}
}

func TestCycleFetchFailure(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("site unreachable")}
	pub := &recordingPublisher{}
	svc, _ := newTestService(t, fetcher, pub)

	if _, err := svc.Cycle(context.Background()); err == nil {
		t.Fatal("expected error from fetch failure")
	}
	if len(pub.snapshots) != 0 {
		t.Error("nothing should publish when the fetch fails")
	}
}

func TestCyclePublishErrorIsNonFatal(t *testing.T) {
	fetcher := &stubFetcher{raw: []event.RawEvent{
		{DateText: futureDate(7), Fixture: "England v Wales", TimeText: "16:45"},
	}}
	pub := &recordingPublisher{publishErr: fmt.Errorf("broker down")}
	svc, _ := newTestService(t, fetcher, pub)

	result, err := svc.Cycle(context.Background())
	if err != nil {
		t.Fatalf("Cycle: %v", err)
	}
	found := false
	for _, line := range result.Errors {
		if strings.Contains(line, "broker down") {
			found = true
		}
	}
	if !found {
		t.Errorf("publish failure missing from errors: %v", result.Errors)
	}
}

func TestCycleWithoutPublisher(t *testing.T) {
	fetcher := &stubFetcher{raw: []event.RawEvent{
		{DateText: futureDate(7), Fixture: "England v Wales", TimeText: "16:45"},
	}}
	svc, _ := newTestService(t, fetcher, nil)

	result, err := svc.Cycle(context.Background())
	if err != nil {
		t.Fatalf("Cycle: %v", err)
	}
	if result.Snapshot.EventCount() != 1 {
		t.Errorf("events = %d, want 1", result.Snapshot.EventCount())
	}
}

func TestRunInvalidSchedule(t *testing.T) {
	fetcher := &stubFetcher{}
	svc, cfg := newTestService(t, fetcher, nil)
	cfg.Service.Schedule = "not a schedule"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := svc.Run(ctx); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}
