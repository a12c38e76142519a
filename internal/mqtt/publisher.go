package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stadiumwatch/twick-events/internal/config"
	"github.com/stadiumwatch/twick-events/internal/event"
	"github.com/stadiumwatch/twick-events/internal/logger"
)

// AllUpcomingPayload is the retained all-events document.
type AllUpcomingPayload struct {
	Events      []event.Event `json:"events"`
	Count       int           `json:"count"`
	LastUpdated string        `json:"last_updated"`
}

// NextPayload is the retained next-event document. Status is "none"
// when nothing upcoming exists, so consumers can template on it
// without null checks.
type NextPayload struct {
	Status string       `json:"status"`
	Event  *event.Event `json:"event,omitempty"`
	Date   string       `json:"date,omitempty"`
}

// StatusPayload summarizes the last cycle for health dashboards.
type StatusPayload struct {
	Status        string   `json:"status"`
	EventCount    int      `json:"event_count"`
	DayCount      int      `json:"day_count"`
	ErrorCount    int      `json:"error_count"`
	Errors        []string `json:"errors,omitempty"`
	LastRun       string   `json:"last_run"`
	FetchSeconds  float64  `json:"fetch_seconds"`
	FetchAttempts int      `json:"fetch_attempts"`
}

// AlertPayload wraps a significant change report.
type AlertPayload struct {
	Type      string             `json:"type"`
	Changes   event.ChangeReport `json:"changes"`
	Timestamp string             `json:"timestamp"`
}

// CycleStatus carries the per-cycle numbers the status topic reports.
type CycleStatus struct {
	Errors        []string
	FetchDuration time.Duration
	FetchAttempts int
}

// BuildAllUpcoming flattens the snapshot into the retained all-events
// document.
func BuildAllUpcoming(snap event.Snapshot, now time.Time) AllUpcomingPayload {
	return AllUpcomingPayload{
		Events:      snap.Flatten(),
		Count:       snap.EventCount(),
		LastUpdated: now.UTC().Format(time.RFC3339),
	}
}

// BuildNext selects the next upcoming event for the retained next
// topic.
func BuildNext(snap event.Snapshot, now time.Time, rules event.NextEventRules) NextPayload {
	if ev, day := event.NextEvent(snap, now, rules); ev != nil {
		return NextPayload{Status: "scheduled", Event: ev, Date: day.Date}
	}
	return NextPayload{Status: "none"}
}

// BuildStatus summarizes a cycle; any recorded error line degrades the
// reported status.
func BuildStatus(snap event.Snapshot, status CycleStatus, now time.Time) StatusPayload {
	state := "ok"
	if len(status.Errors) > 0 {
		state = "degraded"
	}
	return StatusPayload{
		Status:        state,
		EventCount:    snap.EventCount(),
		DayCount:      len(snap),
		ErrorCount:    len(status.Errors),
		Errors:        status.Errors,
		LastRun:       now.UTC().Format(time.RFC3339),
		FetchSeconds:  status.FetchDuration.Seconds(),
		FetchAttempts: status.FetchAttempts,
	}
}

// Publisher publishes the event feed to the configured topics. The
// events, next, and status topics are retained so Home Assistant and
// other late subscribers always see the latest state; alerts are
// fire-and-forget.
type Publisher struct {
	client *Client
	topics config.Topics
	rules  event.NextEventRules
}

// NewPublisher wires a connected client to the topic map.
func NewPublisher(client *Client, topics config.Topics, rules event.NextEventRules) *Publisher {
	return &Publisher{client: client, topics: topics, rules: rules}
}

// PublishSnapshot publishes the full feed for one scrape cycle: all
// upcoming events, the next event, and the cycle status.
func (p *Publisher) PublishSnapshot(ctx context.Context, snap event.Snapshot, status CycleStatus) error {
	now := time.Now()
	if err := p.publishJSON(ctx, p.topics.AllUpcoming, BuildAllUpcoming(snap, now), true); err != nil {
		return err
	}
	if err := p.publishJSON(ctx, p.topics.Next, BuildNext(snap, now, p.rules), true); err != nil {
		return err
	}
	return p.publishJSON(ctx, p.topics.Status, BuildStatus(snap, status, now), true)
}

// PublishAlert publishes a change report when it is significant; an
// insignificant report is a no-op.
func (p *Publisher) PublishAlert(ctx context.Context, report event.ChangeReport) error {
	if !report.Significant {
		return nil
	}
	alert := AlertPayload{
		Type:      "data_change",
		Changes:   report,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	return p.publishJSON(ctx, p.topics.Alerts, alert, false)
}

func (p *Publisher) publishJSON(ctx context.Context, topic string, payload interface{}, retain bool) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload for %s: %w", topic, err)
	}
	if err := p.client.Publish(ctx, topic, data, retain); err != nil {
		return fmt.Errorf("publishing to %s: %w", topic, err)
	}
	logger.Debug("published", logger.Fields{"topic": topic, "bytes": len(data)})
	return nil
}
