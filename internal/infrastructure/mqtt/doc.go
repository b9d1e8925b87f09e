// Package mqtt provides MQTT client connectivity for Domovoice.
//
// It wraps the Eclipse Paho MQTT client with connection management,
// automatic reconnection, subscription restoration, and Domovoice topic
// helpers.
//
// The bridge uses MQTT for proactive change reporting: after a successful
// state-mutating directive the reported properties are published to the
// endpoint's event topic, and the bridge announces its own availability on
// the system status topic (with a Last Will for crash detection).
//
//	Voice service -> HTTP API -> directive router
//	                                  |
//	                                  v
//	                     domovoice/event/<endpointId>
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	topic := mqtt.Topics{}.EndpointEvent("SwitchLight-12")
//	err = client.Publish(topic, payload, 1, true)
//
// # Connection Lifecycle
//
//   - Connect() establishes the connection and publishes online status
//   - Auto-reconnect restores subscriptions and re-publishes status
//   - Close() publishes a graceful offline status before disconnecting
//   - The broker publishes the LWT if the bridge dies without Close()
package mqtt
