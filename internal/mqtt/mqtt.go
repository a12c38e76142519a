// Package mqtt publishes the Twickenham event feed to an MQTT broker:
// retained topics for all upcoming events, the next event, and the
// cycle status, a non-retained alert topic for significant changes,
// and Home Assistant auto-discovery configs.
package mqtt
