// Package service runs the scrape-process-publish cycle, once or on a
// cron schedule.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/stadiumwatch/twick-events/internal/calendar"
	"github.com/stadiumwatch/twick-events/internal/config"
	"github.com/stadiumwatch/twick-events/internal/event"
	"github.com/stadiumwatch/twick-events/internal/logger"
	"github.com/stadiumwatch/twick-events/internal/mqtt"
	"github.com/stadiumwatch/twick-events/internal/scraper"
	"github.com/stadiumwatch/twick-events/internal/storage"
)

// Fetcher fetches raw events from the fixtures page.
type Fetcher interface {
	FetchEvents(ctx context.Context) ([]event.RawEvent, scraper.Stats, error)
}

// FeedPublisher publishes the processed feed. *mqtt.Publisher
// implements it; tests substitute a recorder.
type FeedPublisher interface {
	PublishSnapshot(ctx context.Context, snap event.Snapshot, status mqtt.CycleStatus) error
	PublishAlert(ctx context.Context, report event.ChangeReport) error
	PublishDiscovery(ctx context.Context, prefix, version string) error
}

// Service ties the scraper, processor, storage, and outputs together.
type Service struct {
	cfg       *config.Config
	fetcher   Fetcher
	store     *storage.Storage
	publisher FeedPublisher
	version   string

	discoverySent bool
}

// New builds a service. publisher may be nil when MQTT is disabled.
func New(cfg *config.Config, fetcher Fetcher, store *storage.Storage, publisher FeedPublisher, version string) *Service {
	return &Service{
		cfg:       cfg,
		fetcher:   fetcher,
		store:     store,
		publisher: publisher,
		version:   version,
	}
}

// CycleResult reports what one cycle produced.
type CycleResult struct {
	Snapshot event.Snapshot
	Changes  event.ChangeReport
	Errors   []string
	Stats    scraper.Stats
}

// Cycle runs one full pass: scrape, summarize, detect changes against
// the stored snapshot, publish, persist, and render the calendar.
// Processing errors are collected into the result rather than aborting
// the cycle; only a failed fetch or a failed persist is fatal.
func (s *Service) Cycle(ctx context.Context) (*CycleResult, error) {
	raw, stats, err := s.fetcher.FetchEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching events: %w", err)
	}

	snap, errs := event.Summarize(raw, time.Now())
	for _, line := range errs {
		logger.Warn("event dropped", logger.Fields{"reason": line})
	}

	previous, err := s.store.LoadSnapshot()
	if err != nil {
		errs = append(errs, fmt.Sprintf("loading previous snapshot: %v", err))
		previous = event.Snapshot{}
	}
	report := event.DetectChanges(snap, previous)
	// On a cold start every event reports as new; that is not a
	// change worth alerting on.
	coldStart := len(previous) == 0
	if report.Significant && !coldStart {
		logger.Info("event changes detected", logger.Fields{
			"new":       len(report.NewEvents),
			"cancelled": len(report.CancelledEvents),
		})
	}

	if s.publisher != nil {
		if !s.discoverySent {
			if err := s.publisher.PublishDiscovery(ctx, s.cfg.MQTT.DiscoveryPrefix, s.version); err != nil {
				errs = append(errs, fmt.Sprintf("publishing discovery: %v", err))
			} else {
				s.discoverySent = true
			}
		}
		status := mqtt.CycleStatus{
			Errors:        errs,
			FetchDuration: stats.FetchDuration,
			FetchAttempts: stats.Attempts,
		}
		if err := s.publisher.PublishSnapshot(ctx, snap, status); err != nil {
			errs = append(errs, fmt.Sprintf("publishing snapshot: %v", err))
		}
		if !coldStart {
			if err := s.publisher.PublishAlert(ctx, report); err != nil {
				errs = append(errs, fmt.Sprintf("publishing alert: %v", err))
			}
		}
	}

	if err := s.store.SaveSnapshot(snap); err != nil {
		return nil, fmt.Errorf("saving snapshot: %w", err)
	}

	if s.cfg.Calendar.Enabled {
		opts := calendar.Options{MaxLabelWidth: s.cfg.Calendar.MaxLabelWidth}
		if err := calendar.Write(s.cfg.Calendar.Path, snap, opts); err != nil {
			errs = append(errs, fmt.Sprintf("writing calendar: %v", err))
		}
	}

	logger.Info("cycle complete", logger.Fields{
		"events": snap.EventCount(),
		"days":   len(snap),
		"errors": len(errs),
	})
	return &CycleResult{
		Snapshot: snap,
		Changes:  report,
		Errors:   errs,
		Stats:    stats,
	}, nil
}

// Run executes an immediate cycle, then repeats on the configured
// schedule until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if _, err := s.Cycle(ctx); err != nil {
		logger.Error("initial cycle failed", nil, err)
	}

	c := cron.New()
	_, err := c.AddFunc(s.cfg.Service.Schedule, func() {
		if _, err := s.Cycle(ctx); err != nil {
			logger.Error("cycle failed", nil, err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", s.cfg.Service.Schedule, err)
	}

	c.Start()
	logger.Info("service started", logger.Fields{"schedule": s.cfg.Service.Schedule})
	<-ctx.Done()

	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(10 * time.Second):
		logger.Warn("timed out waiting for running cycle to finish", nil)
	}
	return ctx.Err()
}
