package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stadiumwatch/twick-events/internal/calendar"
	"github.com/stadiumwatch/twick-events/internal/config"
	"github.com/stadiumwatch/twick-events/internal/event"
	"github.com/stadiumwatch/twick-events/internal/logger"
	"github.com/stadiumwatch/twick-events/internal/mqtt"
	"github.com/stadiumwatch/twick-events/internal/scraper"
	"github.com/stadiumwatch/twick-events/internal/service"
	"github.com/stadiumwatch/twick-events/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	// ExitChanges signals that the scrape found new or cancelled
	// events, for cron jobs that only act on changes.
	ExitChanges = 2
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

var (
	flagConfig  string
	flagFormat  string
	flagVerbose bool
)

// NewRootCmd creates the root command and its subcommands.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "twick-events",
		Short: "Track upcoming events at Twickenham Stadium",
		Long: `Scrapes the Twickenham Stadium fixtures listing, normalizes it into
a structured feed, and publishes it to MQTT, an iCalendar file, or
the terminal.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "config/config.yaml", "Path to YAML config file")
	cmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	cmd.AddCommand(
		newScrapeCmd(),
		newNextCmd(),
		newCalendarCmd(),
		newMQTTCmd(),
		newAllCmd(),
		newServiceCmd(),
		newStatusCmd(),
	)
	return cmd
}

// loadConfig loads configuration and wires the default logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	level := logger.ParseLevel(cfg.LogLevel)
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, os.Stderr))
	return cfg, nil
}

func outputFormat() (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}
	return format, nil
}

func newScraper(cfg *config.Config) *scraper.Scraper {
	return scraper.New(
		scraper.WithURL(cfg.Scraping.URL),
		scraper.WithTimeout(cfg.ScrapeTimeout()),
		scraper.WithRetries(cfg.Scraping.MaxRetries, cfg.RetryDelay()),
	)
}

func eventRules(cfg *config.Config) event.NextEventRules {
	return event.NextEventRules{
		EndOfDayCutoff: cfg.EventRules.EndOfDayCutoff,
		Delay:          cfg.NextEventDelay(),
	}
}

// connectPublisher connects to the broker and returns a publisher plus
// a disconnect function.
func connectPublisher(ctx context.Context, cfg *config.Config) (*mqtt.Publisher, func(), error) {
	if cfg.MQTT.BrokerURL == "" {
		return nil, nil, fmt.Errorf("no MQTT broker configured (set mqtt.broker_url or TWICK_MQTT_BROKER)")
	}
	client := mqtt.NewClient(mqtt.ClientConfig{
		BrokerURL: cfg.MQTT.BrokerURL,
		ClientID:  cfg.MQTT.ClientID,
		Username:  cfg.MQTT.Username,
		Password:  cfg.MQTT.Password,
	})
	if err := client.Connect(ctx); err != nil {
		return nil, nil, fmt.Errorf("connecting to broker: %w", err)
	}
	return mqtt.NewPublisher(client, cfg.MQTT.Topics, eventRules(cfg)), client.Disconnect, nil
}

func newScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Fetch the fixtures page and print the processed events",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := storage.New(cfg.DataDir)
			if err != nil {
				return fmt.Errorf("initializing storage: %w", err)
			}

			raw, stats, err := newScraper(cfg).FetchEvents(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetching events: %w", err)
			}
			snap, errs := event.Summarize(raw, time.Now())

			previous, err := store.LoadSnapshot()
			if err != nil {
				return fmt.Errorf("loading snapshot: %w", err)
			}
			changes := event.DetectChanges(snap, previous)
			if err := store.SaveSnapshot(snap); err != nil {
				return fmt.Errorf("saving snapshot: %w", err)
			}

			result := &ScrapeResult{
				ScrapedAt:  time.Now().UTC(),
				Source:     stats.DataSource,
				EventCount: snap.EventCount(),
				DayCount:   len(snap),
				Errors:     errs,
				Changes:    changes,
				Events:     snap,
			}
			if err := WriteScrapeResult(os.Stdout, result, format, flagVerbose); err != nil {
				return err
			}
			if changes.Significant {
				os.Exit(ExitChanges)
			}
			return nil
		},
	}
}

func newNextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Print the next upcoming event from the stored snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := storage.New(cfg.DataDir)
			if err != nil {
				return fmt.Errorf("initializing storage: %w", err)
			}
			snap, err := store.LoadSnapshot()
			if err != nil {
				return fmt.Errorf("loading snapshot: %w", err)
			}

			result := &NextResult{Status: "none"}
			if ev, day := event.NextEvent(snap, time.Now(), eventRules(cfg)); ev != nil {
				result = &NextResult{Status: "scheduled", Event: ev, Date: day.Date}
			}
			return WriteNextResult(os.Stdout, result, format)
		},
	}
}

func newCalendarCmd() *cobra.Command {
	var flagOutput string
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Render the stored snapshot as an iCalendar file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := storage.New(cfg.DataDir)
			if err != nil {
				return fmt.Errorf("initializing storage: %w", err)
			}
			snap, err := store.LoadSnapshot()
			if err != nil {
				return fmt.Errorf("loading snapshot: %w", err)
			}

			path := cfg.Calendar.Path
			if flagOutput != "" {
				path = flagOutput
			}
			opts := calendar.Options{MaxLabelWidth: cfg.Calendar.MaxLabelWidth}
			if err := calendar.Write(path, snap, opts); err != nil {
				return err
			}
			fmt.Printf("Wrote %d events to %s\n", snap.EventCount(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Calendar output path (default from config)")
	return cmd
}

func newMQTTCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mqtt",
		Short: "Publish the stored snapshot to the MQTT broker",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := storage.New(cfg.DataDir)
			if err != nil {
				return fmt.Errorf("initializing storage: %w", err)
			}
			snap, err := store.LoadSnapshot()
			if err != nil {
				return fmt.Errorf("loading snapshot: %w", err)
			}

			publisher, disconnect, err := connectPublisher(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer disconnect()

			if err := publisher.PublishDiscovery(cmd.Context(), cfg.MQTT.DiscoveryPrefix, Version); err != nil {
				return fmt.Errorf("publishing discovery: %w", err)
			}
			if err := publisher.PublishSnapshot(cmd.Context(), snap, mqtt.CycleStatus{}); err != nil {
				return err
			}
			fmt.Printf("Published %d events\n", snap.EventCount())
			return nil
		},
	}
}

// buildService assembles the full pipeline for the all and service
// commands, connecting to MQTT when enabled.
func buildService(ctx context.Context, cfg *config.Config) (*service.Service, func(), error) {
	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing storage: %w", err)
	}

	var publisher service.FeedPublisher
	disconnect := func() {}
	if cfg.MQTT.Enabled {
		pub, disc, err := connectPublisher(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		publisher = pub
		disconnect = disc
	}
	return service.New(cfg, newScraper(cfg), store, publisher, Version), disconnect, nil
}

func newAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run one full cycle: scrape, publish, and write the calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, disconnect, err := buildService(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer disconnect()

			result, err := svc.Cycle(cmd.Context())
			if err != nil {
				return err
			}
			out := &ScrapeResult{
				ScrapedAt:  time.Now().UTC(),
				Source:     result.Stats.DataSource,
				EventCount: result.Snapshot.EventCount(),
				DayCount:   len(result.Snapshot),
				Errors:     result.Errors,
				Changes:    result.Changes,
				Events:     result.Snapshot,
			}
			return WriteScrapeResult(os.Stdout, out, format, flagVerbose)
		},
	}
}

func newServiceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "service",
		Short: "Run continuously on the configured schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, disconnect, err := buildService(ctx, cfg)
			if err != nil {
				return err
			}
			defer disconnect()

			if err := svc.Run(ctx); err != nil && err != context.Canceled {
				return err
			}
			logger.Info("service stopped", nil)
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored snapshot and configuration state",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := storage.New(cfg.DataDir)
			if err != nil {
				return fmt.Errorf("initializing storage: %w", err)
			}
			stored, err := store.LoadStored()
			if err != nil {
				return fmt.Errorf("loading snapshot: %w", err)
			}

			result := &StatusResult{
				ConfigPath:      flagConfig,
				DataDir:         cfg.DataDir,
				EventCount:      stored.Events.EventCount(),
				DayCount:        len(stored.Events),
				UpdatedAt:       stored.UpdatedAt,
				MQTTEnabled:     cfg.MQTT.Enabled,
				CalendarEnabled: cfg.Calendar.Enabled,
			}
			if ev, _ := event.NextEvent(stored.Events, time.Now(), eventRules(cfg)); ev != nil {
				result.NextEvent = ev
			}
			return WriteStatusResult(os.Stdout, result, format)
		},
	}
}

// Execute runs the CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
