package mqtt

import (
	"context"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/stadiumwatch/twick-events/internal/logger"
)

const (
	connectTimeout    = 30 * time.Second
	publishTimeout    = 10 * time.Second
	reconnectCooldown = 5 * time.Second
)

// ClientConfig holds broker connection settings.
type ClientConfig struct {
	BrokerURL string
	ClientID  string
	Username  string
	Password  string
	// WillTopic, when set, registers a retained last-will message so
	// consumers see the service go offline.
	WillTopic   string
	WillPayload string
}

// Client wraps the paho MQTT client with connect/publish timeouts.
type Client struct {
	config          ClientConfig
	mu              sync.Mutex
	internal        paho.Client
	lastConnAttempt time.Time
}

// NewClient creates a client for the given broker settings. No
// connection is made until Connect.
func NewClient(config ClientConfig) *Client {
	return &Client{config: config}
}

// Connect establishes the broker connection. Repeat attempts within
// the cooldown window are rejected so a flapping broker does not get
// hammered.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if since := time.Since(c.lastConnAttempt); since < reconnectCooldown {
		return fmt.Errorf("connection attempt too recent, last attempt was %v ago", since)
	}
	c.lastConnAttempt = time.Now()

	opts := paho.NewClientOptions()
	opts.AddBroker(c.config.BrokerURL)
	opts.SetClientID(c.config.ClientID)
	opts.SetUsername(c.config.Username)
	opts.SetPassword(c.config.Password)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetOnConnectHandler(c.onConnect)
	opts.SetConnectionLostHandler(c.onConnectionLost)
	if c.config.WillTopic != "" {
		opts.SetWill(c.config.WillTopic, c.config.WillPayload, 0, true)
	}

	c.internal = paho.NewClient(opts)

	token := c.internal.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connection error: %w", err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	return nil
}

// Publish sends a payload to a topic. Retained messages stay on the
// broker so late subscribers see the latest state.
func (c *Client) Publish(ctx context.Context, topic string, payload []byte, retain bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isConnected() {
		return fmt.Errorf("not connected to MQTT broker")
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	token := c.internal.Publish(topic, 0, retain, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish timeout for topic %s", topic)
	}
	return token.Error()
}

// IsConnected reports whether the broker connection is up.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isConnected()
}

func (c *Client) isConnected() bool {
	return c.internal != nil && c.internal.IsConnected()
}

// Disconnect closes the broker connection, waiting briefly for
// in-flight messages.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.internal != nil && c.internal.IsConnected() {
		c.internal.Disconnect(250)
	}
}

func (c *Client) onConnect(paho.Client) {
	logger.Info("connected to MQTT broker", logger.Fields{"broker": c.config.BrokerURL})
}

func (c *Client) onConnectionLost(_ paho.Client, err error) {
	logger.Warn("MQTT connection lost", logger.Fields{
		"broker": c.config.BrokerURL,
		"error":  err.Error(),
	})
}
