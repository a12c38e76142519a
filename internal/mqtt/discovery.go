// discovery.go: Home Assistant MQTT auto-discovery for the event feed.
// See: https://www.home-assistant.io/integrations/mqtt/#mqtt-discovery
package mqtt

import (
	"context"
	"fmt"

	"github.com/stadiumwatch/twick-events/internal/config"
)

const (
	deviceID     = "twickenham_events"
	deviceName   = "Twickenham Events"
	deviceModel  = "Stadium Event Feed"
	deviceMaker  = "stadiumwatch"
	deviceSWName = "twick-events"
)

// DiscoveryDevice is the shared device block every sensor registers
// under, so Home Assistant groups them as one device.
type DiscoveryDevice struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Manufacturer string   `json:"manufacturer"`
	Model        string   `json:"model"`
	SWVersion    string   `json:"sw_version,omitempty"`
}

// DiscoveryPayload is a Home Assistant MQTT discovery message for one
// sensor entity.
type DiscoveryPayload struct {
	Name          string          `json:"name"`
	UniqueID      string          `json:"unique_id"`
	StateTopic    string          `json:"state_topic"`
	ValueTemplate string          `json:"value_template,omitempty"`
	JSONAttrTopic string          `json:"json_attributes_topic,omitempty"`
	Icon          string          `json:"icon,omitempty"`
	Device        DiscoveryDevice `json:"device"`
}

func discoveryDevice(version string) DiscoveryDevice {
	return DiscoveryDevice{
		Identifiers:  []string{deviceID},
		Name:         deviceName,
		Manufacturer: deviceMaker,
		Model:        deviceModel,
		SWVersion:    version,
	}
}

// DiscoverySensors builds the discovery payloads for the next-event,
// event-count, and status sensors, keyed by sensor name.
func DiscoverySensors(topics config.Topics, version string) map[string]DiscoveryPayload {
	device := discoveryDevice(version)
	return map[string]DiscoveryPayload{
		"next_event": {
			Name:          "Next Event",
			UniqueID:      deviceID + "_next_event",
			StateTopic:    topics.Next,
			ValueTemplate: "{{ value_json.event.fixture if value_json.status == 'scheduled' else 'none' }}",
			JSONAttrTopic: topics.Next,
			Icon:          "mdi:stadium",
			Device:        device,
		},
		"event_count": {
			Name:          "Upcoming Events",
			UniqueID:      deviceID + "_event_count",
			StateTopic:    topics.AllUpcoming,
			ValueTemplate: "{{ value_json.count }}",
			JSONAttrTopic: topics.AllUpcoming,
			Icon:          "mdi:calendar-multiple",
			Device:        device,
		},
		"status": {
			Name:          "Feed Status",
			UniqueID:      deviceID + "_status",
			StateTopic:    topics.Status,
			ValueTemplate: "{{ value_json.status }}",
			JSONAttrTopic: topics.Status,
			Icon:          "mdi:heart-pulse",
			Device:        device,
		},
	}
}

// DiscoveryTopic returns the retained config topic for a sensor.
func DiscoveryTopic(prefix, sensor string) string {
	return fmt.Sprintf("%s/sensor/%s/%s/config", prefix, deviceID, sensor)
}

// PublishDiscovery announces the feed's sensors to Home Assistant.
// Configs are retained so entities survive HA restarts.
func (p *Publisher) PublishDiscovery(ctx context.Context, prefix, version string) error {
	for sensor, payload := range DiscoverySensors(p.topics, version) {
		topic := DiscoveryTopic(prefix, sensor)
		if err := p.publishJSON(ctx, topic, payload, true); err != nil {
			return fmt.Errorf("publishing discovery for %s: %w", sensor, err)
		}
	}
	return nil
}
