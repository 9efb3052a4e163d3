// Package mqtt connects the dashboard service to the MQTT broker that
// carries registry payloads, entity state changes and Lovelace documents.
//
// It wraps paho.mqtt.golang with:
//   - Subscriptions that survive reconnects
//   - Panic recovery around message handlers
//   - A retained online/offline status with a Last Will
//   - Topic builders and parsers for the dashboard hierarchy (see Topics)
package mqtt
