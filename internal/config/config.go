package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ScrapingConfig controls the fixtures page fetch.
type ScrapingConfig struct {
	URL               string `yaml:"url" json:"url"`
	TimeoutSeconds    int    `yaml:"timeout" json:"timeout"`
	MaxRetries        int    `yaml:"max_retries" json:"max_retries"`
	RetryDelaySeconds int    `yaml:"retry_delay" json:"retry_delay"`
}

// Topics maps the published MQTT topics.
type Topics struct {
	AllUpcoming string `yaml:"all_upcoming" json:"all_upcoming"`
	Next        string `yaml:"next" json:"next"`
	Status      string `yaml:"status" json:"status"`
	Alerts      string `yaml:"alerts" json:"alerts"`
}

// MQTTConfig holds broker connection settings and the topic map.
type MQTTConfig struct {
	Enabled         bool   `yaml:"enabled" json:"enabled"`
	BrokerURL       string `yaml:"broker_url" json:"broker_url"`
	ClientID        string `yaml:"client_id" json:"client_id"`
	Username        string `yaml:"username" json:"username"`
	Password        string `yaml:"password" json:"-"`
	Topics          Topics `yaml:"topics" json:"topics"`
	DiscoveryPrefix string `yaml:"discovery_prefix" json:"discovery_prefix"`
}

// CalendarConfig controls ICS output.
type CalendarConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
	// MaxLabelWidth is the display budget for event summaries; when a
	// fixture plus its glyph exceeds it, the glyph is omitted.
	MaxLabelWidth int `yaml:"max_label_width" json:"max_label_width"`
}

// EventRulesConfig tunes next-event selection.
type EventRulesConfig struct {
	EndOfDayCutoff      string `yaml:"end_of_day_cutoff" json:"end_of_day_cutoff"`
	NextEventDelayHours int    `yaml:"next_event_delay_hours" json:"next_event_delay_hours"`
}

// ServiceConfig controls the continuous service mode.
type ServiceConfig struct {
	// Schedule is a robfig/cron expression, e.g. "@every 4h" or
	// "0 */4 * * *".
	Schedule string `yaml:"schedule" json:"schedule"`
}

// Config is the top-level application configuration.
type Config struct {
	DataDir    string           `yaml:"data_dir" json:"data_dir"`
	LogLevel   string           `yaml:"log_level" json:"log_level"`
	Scraping   ScrapingConfig   `yaml:"scraping" json:"scraping"`
	MQTT       MQTTConfig       `yaml:"mqtt" json:"mqtt"`
	Calendar   CalendarConfig   `yaml:"calendar" json:"calendar"`
	EventRules EventRulesConfig `yaml:"event_rules" json:"event_rules"`
	Service    ServiceConfig    `yaml:"service" json:"service"`
}

// Default returns the in-memory default configuration.
func Default() *Config {
	return &Config{
		DataDir:  "~/.local/share/twick-events",
		LogLevel: "INFO",
		Scraping: ScrapingConfig{
			URL:               "https://www.richmond.gov.uk/services/parks_and_open_spaces/events_in_richmonds_parks/twickenham_stadium_events",
			TimeoutSeconds:    10,
			MaxRetries:        3,
			RetryDelaySeconds: 5,
		},
		MQTT: MQTTConfig{
			Enabled:  false,
			ClientID: "twick-events",
			Topics: Topics{
				AllUpcoming: "twickenham_events/events",
				Next:        "twickenham_events/next",
				Status:      "twickenham_events/status",
				Alerts:      "twickenham_events/alerts",
			},
			DiscoveryPrefix: "homeassistant",
		},
		Calendar: CalendarConfig{
			Enabled:       false,
			Path:          "output/twickenham_events.ics",
			MaxLabelWidth: 25,
		},
		EventRules: EventRulesConfig{
			EndOfDayCutoff:      "23:00",
			NextEventDelayHours: 1,
		},
		Service: ServiceConfig{Schedule: "@every 4h"},
	}
}

// Normalize fills missing or zero values with defaults so partial
// config files behave correctly.
func (c *Config) Normalize() {
	def := Default()
	if c.DataDir == "" {
		c.DataDir = def.DataDir
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.Scraping.URL == "" {
		c.Scraping.URL = def.Scraping.URL
	}
	if c.Scraping.TimeoutSeconds <= 0 {
		c.Scraping.TimeoutSeconds = def.Scraping.TimeoutSeconds
	}
	if c.Scraping.MaxRetries <= 0 {
		c.Scraping.MaxRetries = def.Scraping.MaxRetries
	}
	if c.Scraping.RetryDelaySeconds < 0 {
		c.Scraping.RetryDelaySeconds = def.Scraping.RetryDelaySeconds
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = def.MQTT.ClientID
	}
	if c.MQTT.Topics.AllUpcoming == "" {
		c.MQTT.Topics.AllUpcoming = def.MQTT.Topics.AllUpcoming
	}
	if c.MQTT.Topics.Next == "" {
		c.MQTT.Topics.Next = def.MQTT.Topics.Next
	}
	if c.MQTT.Topics.Status == "" {
		c.MQTT.Topics.Status = def.MQTT.Topics.Status
	}
	if c.MQTT.Topics.Alerts == "" {
		c.MQTT.Topics.Alerts = def.MQTT.Topics.Alerts
	}
	if c.MQTT.DiscoveryPrefix == "" {
		c.MQTT.DiscoveryPrefix = def.MQTT.DiscoveryPrefix
	}
	if c.Calendar.Path == "" {
		c.Calendar.Path = def.Calendar.Path
	}
	if c.Calendar.MaxLabelWidth <= 0 {
		c.Calendar.MaxLabelWidth = def.Calendar.MaxLabelWidth
	}
	if c.EventRules.EndOfDayCutoff == "" {
		c.EventRules.EndOfDayCutoff = def.EventRules.EndOfDayCutoff
	}
	if c.EventRules.NextEventDelayHours <= 0 {
		c.EventRules.NextEventDelayHours = def.EventRules.NextEventDelayHours
	}
	if c.Service.Schedule == "" {
		c.Service.Schedule = def.Service.Schedule
	}
}

// applyEnv lets deployment environments override broker settings
// without touching the config file.
func (c *Config) applyEnv() {
	if v := os.Getenv("TWICK_MQTT_BROKER"); v != "" {
		c.MQTT.BrokerURL = v
	}
	if v := os.Getenv("TWICK_MQTT_USERNAME"); v != "" {
		c.MQTT.Username = v
	}
	if v := os.Getenv("TWICK_MQTT_PASSWORD"); v != "" {
		c.MQTT.Password = v
	}
	if v := os.Getenv("TWICK_DATA_DIR"); v != "" {
		c.DataDir = v
	}
}

// Load loads configuration from a YAML file. A missing file yields
// the defaults (with env overrides applied) rather than an error, so
// the CLI works out of the box.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := Default()
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Normalize()
	cfg.applyEnv()
	return &cfg, nil
}

// Save writes the configuration atomically via a temp file + rename.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".twick-events-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// ScrapeTimeout returns the HTTP timeout as a duration.
func (c *Config) ScrapeTimeout() time.Duration {
	return time.Duration(c.Scraping.TimeoutSeconds) * time.Second
}

// RetryDelay returns the delay between fetch attempts.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Scraping.RetryDelaySeconds) * time.Second
}

// NextEventDelay returns the same-day handover delay.
func (c *Config) NextEventDelay() time.Duration {
	return time.Duration(c.EventRules.NextEventDelayHours) * time.Hour
}
