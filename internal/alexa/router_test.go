package alexa

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

// fakeDevice records control calls and serves canned property values. It
// implements every control interface so individual tests can exercise any
// handler.
type fakeDevice struct {
	props    map[string]any
	resolved bool

	calls    []string
	level    int
	percent  int
	hue      float64
	sat      float64
	bri      float64
	kelvin   int
	setpoint float64
	mode     string
}

func (f *fakeDevice) Property(_ context.Context, name string) (any, bool) {
	v, ok := f.props[name]
	return v, ok
}

func (f *fakeDevice) Resolved(context.Context) bool { return f.resolved }

func (f *fakeDevice) record(call string) { f.calls = append(f.calls, call) }

func (f *fakeDevice) TurnOn(context.Context) error  { f.record("TurnOn"); return nil }
func (f *fakeDevice) TurnOff(context.Context) error { f.record("TurnOff"); return nil }

func (f *fakeDevice) SetBrightness(_ context.Context, percent int) error {
	f.record("SetBrightness")
	f.level = percent
	return nil
}

func (f *fakeDevice) SetColor(_ context.Context, hue, saturation, brightness float64) error {
	f.record("SetColor")
	f.hue, f.sat, f.bri = hue, saturation, brightness
	return nil
}

func (f *fakeDevice) SetColorTemperature(_ context.Context, kelvin int) error {
	f.record("SetColorTemperature")
	f.kelvin = kelvin
	return nil
}

func (f *fakeDevice) SetPercentage(_ context.Context, percent int) error {
	f.record("SetPercentage")
	f.percent = percent
	return nil
}

func (f *fakeDevice) Lock(context.Context) error   { f.record("Lock"); return nil }
func (f *fakeDevice) Unlock(context.Context) error { f.record("Unlock"); return nil }

func (f *fakeDevice) Activate(context.Context) error   { f.record("Activate"); return nil }
func (f *fakeDevice) Deactivate(context.Context) error { f.record("Deactivate"); return nil }

func (f *fakeDevice) SetTargetSetpoint(_ context.Context, celsius float64) error {
	f.record("SetTargetSetpoint")
	f.setpoint = celsius
	return nil
}

func (f *fakeDevice) SetThermostatMode(_ context.Context, mode string) error {
	f.record("SetThermostatMode")
	f.mode = mode
	return nil
}

// sensorDevice implements no control interfaces.
type sensorDevice struct {
	props    map[string]any
	resolved bool
}

func (s *sensorDevice) Property(_ context.Context, name string) (any, bool) {
	v, ok := s.props[name]
	return v, ok
}

func (s *sensorDevice) Resolved(context.Context) bool { return s.resolved }

// fakeBackend serves a single endpoint for directives and a fixed slice for
// discovery.
type fakeBackend struct {
	endpoint  *Endpoint
	endpoints []*Endpoint
	err       error
	panics    bool
}

func (b *fakeBackend) GetEndpoint(context.Context, *Directive) (*Endpoint, error) {
	if b.panics {
		panic("backend blew up")
	}
	return b.endpoint, b.err
}

func (b *fakeBackend) GetEndpoints(context.Context) ([]*Endpoint, error) {
	return b.endpoints, b.err
}

// newTestEndpoint builds an endpoint with the named capabilities and the
// given device bound.
func newTestEndpoint(t *testing.T, id string, dev Device, capabilities ...string) *Endpoint {
	t.Helper()
	ep := NewEndpoint(id, "Test Device", "", "Domoticz")
	for _, name := range capabilities {
		ep.AddCapability(MustCapability(name))
	}
	ep.SetDevice(dev)
	return ep
}

// directive builds a directive envelope with a correlation token and an
// endpoint reference.
func directive(namespace, name string, payload any) *DirectiveEnvelope {
	var raw json.RawMessage
	if payload != nil {
		raw, _ = json.Marshal(payload)
	}
	return &DirectiveEnvelope{Directive: Directive{
		Header: Header{
			Namespace:        namespace,
			Name:             name,
			MessageID:        "msg-1",
			PayloadVersion:   "3",
			CorrelationToken: "corr-1",
		},
		Endpoint: &EndpointRef{EndpointID: "SwitchLight-7", FriendlyName: "Test Device"},
		Payload:  raw,
	}}
}

func singleProperty(t *testing.T, resp ResponseEnvelope) Property {
	t.Helper()
	if resp.Context == nil || len(resp.Context.Properties) != 1 {
		t.Fatalf("context = %+v, want exactly one property", resp.Context)
	}
	return resp.Context.Properties[0]
}

func errorPayload(t *testing.T, resp ResponseEnvelope) ErrorPayload {
	t.Helper()
	if resp.Event.Header.Name != EventErrorResponse {
		t.Fatalf("event = %s, want ErrorResponse", resp.Event.Header.Name)
	}
	payload, ok := resp.Event.Payload.(ErrorPayload)
	if !ok {
		t.Fatalf("payload type = %T", resp.Event.Payload)
	}
	return payload
}

func TestRouteTurnOn(t *testing.T) {
	dev := &fakeDevice{resolved: true}
	backend := &fakeBackend{endpoint: newTestEndpoint(t, "SwitchLight-7", dev, InterfacePowerController)}
	router := NewRouter(backend)

	resp := router.Route(context.Background(), directive(InterfacePowerController, "TurnOn", nil))

	if resp.Event.Header.Name != EventResponse || resp.Event.Header.Namespace != InterfaceAlexa {
		t.Errorf("event = %s/%s", resp.Event.Header.Namespace, resp.Event.Header.Name)
	}
	if resp.Event.Header.CorrelationToken != "corr-1" {
		t.Errorf("correlationToken = %q, want echo", resp.Event.Header.CorrelationToken)
	}
	if resp.Event.Endpoint == nil || resp.Event.Endpoint.EndpointID != "SwitchLight-7" {
		t.Errorf("endpoint = %+v", resp.Event.Endpoint)
	}
	p := singleProperty(t, resp)
	if p.Namespace != InterfacePowerController || p.Name != PropPowerState || p.Value != PowerOn {
		t.Errorf("property = %+v", p)
	}
	if len(dev.calls) != 1 || dev.calls[0] != "TurnOn" {
		t.Errorf("device calls = %v", dev.calls)
	}
}

func TestRouteTurnOff(t *testing.T) {
	dev := &fakeDevice{resolved: true}
	backend := &fakeBackend{endpoint: newTestEndpoint(t, "SwitchLight-7", dev, InterfacePowerController)}
	router := NewRouter(backend)

	resp := router.Route(context.Background(), directive(InterfacePowerController, "TurnOff", nil))

	if p := singleProperty(t, resp); p.Value != PowerOff {
		t.Errorf("powerState = %v, want OFF", p.Value)
	}
	if len(dev.calls) != 1 || dev.calls[0] != "TurnOff" {
		t.Errorf("device calls = %v", dev.calls)
	}
}

func TestRouteSetBrightnessClamps(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"negative", -20, 0},
		{"in range", 40, 40},
		{"overflow", 150, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := &fakeDevice{resolved: true}
			backend := &fakeBackend{endpoint: newTestEndpoint(t, "SwitchLight-7", dev, InterfaceBrightnessController)}
			router := NewRouter(backend)

			resp := router.Route(context.Background(),
				directive(InterfaceBrightnessController, "SetBrightness", map[string]any{"brightness": tt.in}))

			if dev.level != tt.want {
				t.Errorf("device level = %d, want %d", dev.level, tt.want)
			}
			if p := singleProperty(t, resp); p.Value != tt.want {
				t.Errorf("reported brightness = %v, want %d", p.Value, tt.want)
			}
		})
	}
}

func TestRouteAdjustBrightness(t *testing.T) {
	tests := []struct {
		name    string
		current any
		delta   int
		want    int
	}{
		{"relative to current", 30, 25, 55},
		{"clamped high", 90, 40, 100},
		{"clamped low", 30, -100, 0},
		{"baseline when unknown", nil, 10, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := &fakeDevice{resolved: true, props: map[string]any{}}
			if tt.current != nil {
				dev.props[PropBrightness] = tt.current
			}
			backend := &fakeBackend{endpoint: newTestEndpoint(t, "SwitchLight-7", dev, InterfaceBrightnessController)}
			router := NewRouter(backend)

			resp := router.Route(context.Background(),
				directive(InterfaceBrightnessController, "AdjustBrightness", map[string]any{"brightnessDelta": tt.delta}))

			if dev.level != tt.want {
				t.Errorf("device level = %d, want %d", dev.level, tt.want)
			}
			if p := singleProperty(t, resp); p.Value != tt.want {
				t.Errorf("reported brightness = %v, want %d", p.Value, tt.want)
			}
		})
	}
}

func TestRouteSetColorEchoesRequest(t *testing.T) {
	dev := &fakeDevice{resolved: true}
	backend := &fakeBackend{endpoint: newTestEndpoint(t, "SwitchLight-7", dev, InterfaceColorController)}
	router := NewRouter(backend)

	color := map[string]any{"hue": 120.0, "saturation": 0.8, "brightness": 0.5}
	resp := router.Route(context.Background(),
		directive(InterfaceColorController, "SetColor", map[string]any{"color": color}))

	if dev.hue != 120 || dev.sat != 0.8 || dev.bri != 0.5 {
		t.Errorf("device color = %v/%v/%v", dev.hue, dev.sat, dev.bri)
	}
	p := singleProperty(t, resp)
	got, ok := p.Value.(ColorValue)
	if !ok {
		t.Fatalf("property value type = %T", p.Value)
	}
	if got.Hue != 120 || got.Saturation != 0.8 || got.Brightness != 0.5 {
		t.Errorf("reported color = %+v, want verbatim echo", got)
	}
}

func TestRouteSetColorTemperature(t *testing.T) {
	dev := &fakeDevice{resolved: true}
	backend := &fakeBackend{endpoint: newTestEndpoint(t, "SwitchLight-7", dev, InterfaceColorTemperatureController)}
	router := NewRouter(backend)

	resp := router.Route(context.Background(),
		directive(InterfaceColorTemperatureController, "SetColorTemperature",
			map[string]any{"colorTemperatureInKelvin": 4000}))

	if dev.kelvin != 4000 {
		t.Errorf("device kelvin = %d, want 4000", dev.kelvin)
	}
	if p := singleProperty(t, resp); p.Value != 4000 {
		t.Errorf("reported kelvin = %v, want 4000", p.Value)
	}
}

func TestRouteSetPercentageClamps(t *testing.T) {
	dev := &fakeDevice{resolved: true}
	backend := &fakeBackend{endpoint: newTestEndpoint(t, "Blind-3", dev, InterfacePercentageController)}
	router := NewRouter(backend)

	resp := router.Route(context.Background(),
		directive(InterfacePercentageController, "SetPercentage", map[string]any{"percentage": 150}))

	if dev.percent != 100 {
		t.Errorf("device percentage = %d, want 100", dev.percent)
	}
	if p := singleProperty(t, resp); p.Value != 100 {
		t.Errorf("reported percentage = %v, want 100", p.Value)
	}
}

func TestRouteLockUnlock(t *testing.T) {
	dev := &fakeDevice{resolved: true}
	backend := &fakeBackend{endpoint: newTestEndpoint(t, "SwitchLight-7", dev, InterfaceLockController)}
	router := NewRouter(backend)

	resp := router.Route(context.Background(), directive(InterfaceLockController, "Lock", nil))
	if p := singleProperty(t, resp); p.Value != LockLocked {
		t.Errorf("lockState after Lock = %v", p.Value)
	}

	resp = router.Route(context.Background(), directive(InterfaceLockController, "Unlock", nil))
	if p := singleProperty(t, resp); p.Value != LockUnlocked {
		t.Errorf("lockState after Unlock = %v", p.Value)
	}
}

func TestRouteSceneActivate(t *testing.T) {
	dev := &fakeDevice{resolved: true}
	backend := &fakeBackend{endpoint: newTestEndpoint(t, "Scene-2", dev, InterfaceSceneController)}
	router := NewRouter(backend)

	resp := router.Route(context.Background(), directive(InterfaceSceneController, "Activate", nil))

	h := resp.Event.Header
	if h.Namespace != InterfaceSceneController || h.Name != EventActivationStarted {
		t.Errorf("event = %s/%s", h.Namespace, h.Name)
	}
	if resp.Context != nil {
		t.Error("scene event carries context")
	}
	payload, ok := resp.Event.Payload.(map[string]any)
	if !ok {
		t.Fatalf("payload type = %T", resp.Event.Payload)
	}
	cause, ok := payload["cause"].(map[string]any)
	if !ok || cause["type"] != CauseVoiceInteraction {
		t.Errorf("cause = %v, want VOICE_INTERACTION", payload["cause"])
	}
	if ts, ok := payload["timestamp"].(string); !ok || !timestampPattern.MatchString(ts) {
		t.Errorf("timestamp = %v", payload["timestamp"])
	}
	if len(dev.calls) != 1 || dev.calls[0] != "Activate" {
		t.Errorf("device calls = %v", dev.calls)
	}
}

func TestRouteSceneDeactivate(t *testing.T) {
	dev := &fakeDevice{resolved: true}
	backend := &fakeBackend{endpoint: newTestEndpoint(t, "Scene-2", dev, InterfaceSceneController)}
	router := NewRouter(backend)

	resp := router.Route(context.Background(), directive(InterfaceSceneController, "Deactivate", nil))

	if resp.Event.Header.Name != EventDeactivationStarted {
		t.Errorf("event = %s, want DeactivationStarted", resp.Event.Header.Name)
	}
	if len(dev.calls) != 1 || dev.calls[0] != "Deactivate" {
		t.Errorf("device calls = %v", dev.calls)
	}
}

func TestRouteSetTargetTemperature(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		scale string
		want  float64
	}{
		{"celsius", 21.5, ScaleCelsius, 21.5},
		{"fahrenheit", 68, ScaleFahrenheit, 20},
		{"kelvin", 293.15, ScaleKelvin, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := &fakeDevice{resolved: true}
			backend := &fakeBackend{endpoint: newTestEndpoint(t, "Thermostat-9", dev, InterfaceThermostatController)}
			router := NewRouter(backend)

			resp := router.Route(context.Background(),
				directive(InterfaceThermostatController, "SetTargetTemperature",
					map[string]any{"targetSetpoint": map[string]any{"value": tt.value, "scale": tt.scale}}))

			if diff := dev.setpoint - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("device setpoint = %v, want %v", dev.setpoint, tt.want)
			}
			p := singleProperty(t, resp)
			got, ok := p.Value.(TemperatureValue)
			if !ok {
				t.Fatalf("property value type = %T", p.Value)
			}
			if got.Scale != ScaleCelsius {
				t.Errorf("reported scale = %q, want CELSIUS", got.Scale)
			}
			if diff := got.Value - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("reported value = %v, want %v", got.Value, tt.want)
			}
		})
	}
}

func TestRouteSetThermostatMode(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		want    string
	}{
		{"string form", map[string]any{"thermostatMode": "heat"}, "HEAT"},
		{"object form", map[string]any{"thermostatMode": map[string]any{"value": "auto"}}, "AUTO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := &fakeDevice{resolved: true}
			backend := &fakeBackend{endpoint: newTestEndpoint(t, "Thermostat-9", dev, InterfaceThermostatController)}
			router := NewRouter(backend)

			resp := router.Route(context.Background(),
				directive(InterfaceThermostatController, "SetThermostatMode", tt.payload))

			if dev.mode != tt.want {
				t.Errorf("device mode = %q, want %q", dev.mode, tt.want)
			}
			if p := singleProperty(t, resp); p.Value != tt.want {
				t.Errorf("reported mode = %v, want %q", p.Value, tt.want)
			}
		})
	}
}

func TestRouteReportState(t *testing.T) {
	dev := &fakeDevice{
		resolved: true,
		props: map[string]any{
			PropPowerState: PowerOn,
			PropBrightness: 75,
		},
	}
	backend := &fakeBackend{
		endpoint: newTestEndpoint(t, "SwitchLight-7", dev,
			InterfacePowerController, InterfaceBrightnessController),
	}
	router := NewRouter(backend)

	resp := router.Route(context.Background(), directive(InterfaceAlexa, "ReportState", nil))

	if resp.Event.Header.Name != EventStateReport {
		t.Fatalf("event = %s, want StateReport", resp.Event.Header.Name)
	}
	if resp.Context == nil || len(resp.Context.Properties) != 2 {
		t.Fatalf("context = %+v, want two properties", resp.Context)
	}
}

func TestRouteReportStateUnreachable(t *testing.T) {
	unresolved := newTestEndpoint(t, "SwitchLight-7", &fakeDevice{resolved: false}, InterfacePowerController)
	deviceless := newTestEndpoint(t, "SwitchLight-7", nil, InterfacePowerController)

	tests := []struct {
		name    string
		backend *fakeBackend
	}{
		{"unresolved device", &fakeBackend{endpoint: unresolved}},
		{"no device bound", &fakeBackend{endpoint: deviceless}},
		{"no endpoint", &fakeBackend{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := NewRouter(tt.backend)
			resp := router.Route(context.Background(), directive(InterfaceAlexa, "ReportState", nil))

			payload := errorPayload(t, resp)
			if payload.Type != ErrorTypeEndpointUnreachable {
				t.Errorf("error type = %q, want ENDPOINT_UNREACHABLE", payload.Type)
			}
		})
	}
}

func TestRouteDiscover(t *testing.T) {
	lamp := newTestEndpoint(t, "SwitchLight-7", &fakeDevice{resolved: true},
		InterfacePowerController, InterfaceBrightnessController)
	bare := NewEndpoint("SwitchLight-8", "No Capabilities", "", "Domoticz")
	backend := &fakeBackend{endpoints: []*Endpoint{lamp, bare}}
	router := NewRouter(backend)

	env := &DirectiveEnvelope{Directive: Directive{
		Header: Header{Namespace: InterfaceDiscovery, Name: "Discover", MessageID: "msg-1"},
	}}
	resp := router.Route(context.Background(), env)

	h := resp.Event.Header
	if h.Namespace != InterfaceDiscovery || h.Name != EventDiscoverResponse {
		t.Errorf("event = %s/%s", h.Namespace, h.Name)
	}
	payload, ok := resp.Event.Payload.(map[string]any)
	if !ok {
		t.Fatalf("payload type = %T", resp.Event.Payload)
	}
	views, ok := payload["endpoints"].([]map[string]any)
	if !ok || len(views) != 1 {
		t.Fatalf("endpoints = %v, want the capability-less endpoint filtered", payload["endpoints"])
	}
	if views[0]["endpointId"] != "SwitchLight-7" {
		t.Errorf("endpointId = %v", views[0]["endpointId"])
	}
}

func TestRouteUnknownDirective(t *testing.T) {
	router := NewRouter(&fakeBackend{})
	resp := router.Route(context.Background(), directive("Alexa.CameraStreamController", "InitializeCameraStreams", nil))

	payload := errorPayload(t, resp)
	if payload.Type != ErrorTypeInternal || payload.Message != "Unknown error" {
		t.Errorf("payload = %+v", payload)
	}
	if resp.Event.Header.CorrelationToken != "corr-1" {
		t.Errorf("correlationToken = %q, want echo even on error", resp.Event.Header.CorrelationToken)
	}
}

func TestRouteBackendError(t *testing.T) {
	router := NewRouter(&fakeBackend{err: errors.New("backend down")})
	resp := router.Route(context.Background(), directive(InterfacePowerController, "TurnOn", nil))

	if payload := errorPayload(t, resp); payload.Type != ErrorTypeInternal {
		t.Errorf("error type = %q, want INTERNAL_ERROR", payload.Type)
	}
}

func TestRouteHandlerPanic(t *testing.T) {
	router := NewRouter(&fakeBackend{panics: true})
	resp := router.Route(context.Background(), directive(InterfacePowerController, "TurnOn", nil))

	if payload := errorPayload(t, resp); payload.Type != ErrorTypeInternal {
		t.Errorf("error type = %q, want INTERNAL_ERROR", payload.Type)
	}
}

func TestRouteUnsupportedOperation(t *testing.T) {
	sensor := &sensorDevice{resolved: true, props: map[string]any{PropTemperature: TemperatureValue{Value: 20, Scale: ScaleCelsius}}}
	backend := &fakeBackend{endpoint: newTestEndpoint(t, "TemperatureSensor-4", sensor, InterfaceTemperatureSensor)}
	router := NewRouter(backend)

	resp := router.Route(context.Background(), directive(InterfacePowerController, "TurnOn", nil))

	if payload := errorPayload(t, resp); payload.Type != ErrorTypeInternal {
		t.Errorf("error type = %q, want INTERNAL_ERROR", payload.Type)
	}
}

func TestRouteInvalidPayload(t *testing.T) {
	dev := &fakeDevice{resolved: true}
	backend := &fakeBackend{endpoint: newTestEndpoint(t, "SwitchLight-7", dev, InterfaceBrightnessController)}
	router := NewRouter(backend)

	resp := router.Route(context.Background(),
		directive(InterfaceBrightnessController, "SetBrightness", map[string]any{}))

	if payload := errorPayload(t, resp); payload.Type != ErrorTypeInternal {
		t.Errorf("error type = %q, want INTERNAL_ERROR", payload.Type)
	}
	if len(dev.calls) != 0 {
		t.Errorf("device calls = %v, want none", dev.calls)
	}
}

func TestRouteMissingEndpoint(t *testing.T) {
	router := NewRouter(&fakeBackend{})
	env := &DirectiveEnvelope{Directive: Directive{
		Header: Header{Namespace: InterfacePowerController, Name: "TurnOn", MessageID: "msg-1"},
	}}
	resp := router.Route(context.Background(), env)

	if payload := errorPayload(t, resp); payload.Type != ErrorTypeInternal {
		t.Errorf("error type = %q, want INTERNAL_ERROR", payload.Type)
	}
}
