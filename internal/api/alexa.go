package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ashdene/domovoice/internal/alexa"
	"github.com/ashdene/domovoice/internal/infrastructure/mqtt"
)

// changeReport is the payload published to an endpoint's MQTT event topic
// after a successful state-mutating directive.
type changeReport struct {
	EndpointID string           `json:"endpointId"`
	Event      string           `json:"event"`
	Properties []alexa.Property `json:"properties,omitempty"`
	Timestamp  string           `json:"timestamp"`
}

// handleDirective accepts one directive envelope and answers with a protocol
// envelope. The HTTP status is 200 for every well-formed request; directive
// failures travel inside the envelope as ErrorResponse events.
func (s *Server) handleDirective(w http.ResponseWriter, r *http.Request) {
	var env alexa.DirectiveEnvelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		writeBadRequest(w, "invalid directive envelope")
		return
	}

	start := time.Now()
	resp := s.router.Route(r.Context(), &env)
	duration := time.Since(start)

	s.publishChangeReport(&env, resp)
	s.recordTelemetry(&env, resp, duration)

	writeJSON(w, http.StatusOK, resp)
}

// publishChangeReport pushes the reported properties of a successful
// mutating directive to the endpoint's event topic. Retained, so late
// subscribers see the last reported state.
func (s *Server) publishChangeReport(env *alexa.DirectiveEnvelope, resp alexa.ResponseEnvelope) {
	if s.mqtt == nil || env.Directive.Endpoint == nil {
		return
	}

	switch resp.Event.Header.Name {
	case alexa.EventResponse, alexa.EventActivationStarted, alexa.EventDeactivationStarted:
	default:
		return
	}

	var properties []alexa.Property
	if resp.Context != nil {
		properties = resp.Context.Properties
	}

	report := changeReport{
		EndpointID: env.Directive.Endpoint.EndpointID,
		Event:      resp.Event.Header.Name,
		Properties: properties,
		Timestamp:  alexa.Timestamp(),
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return
	}

	topic := mqtt.Topics{}.EndpointEvent(env.Directive.Endpoint.EndpointID)
	if err := s.mqtt.PublishRetained(topic, payload); err != nil {
		s.logger.Warn("change report publish failed", "topic", topic, "error", err)
	}
}

// recordTelemetry writes per-directive metrics when telemetry is enabled.
func (s *Server) recordTelemetry(env *alexa.DirectiveEnvelope, resp alexa.ResponseEnvelope, duration time.Duration) {
	if s.telemetry == nil {
		return
	}

	header := env.Directive.Header
	durationMs := float64(duration.Microseconds()) / 1000.0
	s.telemetry.WriteDirectiveMetric(header.Namespace, header.Name, resp.Event.Header.Name, durationMs)

	if header.Namespace == alexa.InterfaceDiscovery {
		if payload, ok := resp.Event.Payload.(map[string]any); ok {
			if endpoints, ok := payload["endpoints"].([]map[string]any); ok {
				s.telemetry.WriteDiscoveryMetric(len(endpoints))
			}
		}
	}
}
