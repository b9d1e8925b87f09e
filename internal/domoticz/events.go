package domoticz

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ashdene/domovoice/internal/alexa"
	"github.com/ashdene/domovoice/internal/infrastructure/mqtt"
)

// deviceEventTopic is the topic the Domoticz MQTT hardware plugin publishes
// device updates to.
const deviceEventTopic = "domoticz/out"

// deviceEventQoS is the subscription QoS for device updates. At-least-once
// is enough: a duplicate update republishes the same retained state.
const deviceEventQoS = 1

// EventBus is the slice of the MQTT client the device event feed uses.
// Satisfied by *mqtt.Client.
type EventBus interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	PublishRetained(topic string, payload []byte) error
}

var _ EventBus = (*mqtt.Client)(nil)

// deviceEvent is the part of a Domoticz MQTT device update the feed
// consumes. The rest of the record is refetched over the JSON API, which
// carries fields the MQTT payload lacks.
type deviceEvent struct {
	Idx json.Number `json:"idx"`
}

// stateReport is the retained payload published to an endpoint's event
// topic when its device changes outside a directive.
type stateReport struct {
	EndpointID string           `json:"endpointId"`
	Event      string           `json:"event"`
	Properties []alexa.Property `json:"properties,omitempty"`
	Timestamp  string           `json:"timestamp"`
}

// SubscribeDeviceEvents starts the proactive reporting feed: every device
// update Domoticz announces on its MQTT output topic refreshes the cached
// record and republishes the endpoint's current state as a retained change
// report. This is the state channel behind the proactivelyReported flag
// that discovery advertises on every capability.
//
// The subscription is restored automatically after a reconnect.
func (h *Handler) SubscribeDeviceEvents(bus EventBus) error {
	return bus.Subscribe(deviceEventTopic, deviceEventQoS, func(_ string, payload []byte) error {
		return h.handleDeviceEvent(context.Background(), bus, payload)
	})
}

// handleDeviceEvent processes one Domoticz device update.
func (h *Handler) handleDeviceEvent(ctx context.Context, bus EventBus, payload []byte) error {
	var ev deviceEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("decode device event: %w", err)
	}
	idx := ev.Idx.String()
	if idx == "" {
		return nil
	}

	d, err := h.client.Device(ctx, idx)
	if err != nil {
		return fmt.Errorf("refresh device %s: %w", idx, err)
	}
	if d == nil {
		// Scenes and unused devices also announce on this topic.
		return nil
	}

	h.mu.Lock()
	h.devices[idx] = *d
	h.mu.Unlock()

	kind := classifyDevice(*d)
	id := fmt.Sprintf("%s-%s", kind, idx)
	ep := h.buildEndpoint(kind, id, d.AlexaName(), d.Type)
	ep.SetDevice(h.bindDevice(kind, idx))

	report := stateReport{
		EndpointID: id,
		Event:      alexa.EventChangeReport,
		Properties: ep.ReportedProperties(ctx),
		Timestamp:  alexa.Timestamp(),
	}
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode state report: %w", err)
	}

	if err := bus.PublishRetained(mqtt.Topics{}.EndpointEvent(id), data); err != nil {
		return fmt.Errorf("publish state report: %w", err)
	}

	h.logger.Debug("proactive state report", "endpoint", id)
	return nil
}
