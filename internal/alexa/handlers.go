package alexa

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// brightnessBaseline is the assumed current level when a relative brightness
// adjustment arrives and the device cannot report its level.
const brightnessBaseline = 50

// CauseVoiceInteraction is the change cause reported in scene events.
const CauseVoiceInteraction = "VOICE_INTERACTION"

// resolveEndpoint resolves a device-targeting directive to an endpoint with
// its backend device bound.
func resolveEndpoint(ctx context.Context, b Backend, d *Directive) (*Endpoint, error) {
	if d.Endpoint == nil {
		return nil, ErrMissingEndpoint
	}
	ep, err := b.GetEndpoint(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("resolve endpoint %q: %w", d.Endpoint.EndpointID, err)
	}
	if ep == nil {
		return nil, fmt.Errorf("resolve endpoint %q: no endpoint", d.Endpoint.EndpointID)
	}
	return ep, nil
}

func handleDiscover(ctx context.Context, b Backend, d *Directive) (ResponseEnvelope, error) {
	endpoints, err := b.GetEndpoints(ctx)
	if err != nil {
		return ResponseEnvelope{}, fmt.Errorf("enumerate endpoints: %w", err)
	}

	views := make([]map[string]any, 0, len(endpoints))
	for _, ep := range endpoints {
		if !ep.HasCapabilities() {
			continue
		}
		views = append(views, ep.DiscoveryView())
	}

	payload := map[string]any{"endpoints": views}
	return NewMessage(d, InterfaceDiscovery, EventDiscoverResponse, payload, nil), nil
}

func handleTurnOn(ctx context.Context, b Backend, d *Directive) (ResponseEnvelope, error) {
	ep, err := resolveEndpoint(ctx, b, d)
	if err != nil {
		return ResponseEnvelope{}, err
	}
	pc, ok := ep.Device().(PowerControl)
	if !ok {
		return ResponseEnvelope{}, fmt.Errorf("%w: TurnOn", ErrUnsupportedOperation)
	}
	if err := pc.TurnOn(ctx); err != nil {
		return ResponseEnvelope{}, fmt.Errorf("turn on: %w", err)
	}
	return NewResponse(d, []Property{NewProperty(InterfacePowerController, PropPowerState, PowerOn)}), nil
}

func handleTurnOff(ctx context.Context, b Backend, d *Directive) (ResponseEnvelope, error) {
	ep, err := resolveEndpoint(ctx, b, d)
	if err != nil {
		return ResponseEnvelope{}, err
	}
	pc, ok := ep.Device().(PowerControl)
	if !ok {
		return ResponseEnvelope{}, fmt.Errorf("%w: TurnOff", ErrUnsupportedOperation)
	}
	if err := pc.TurnOff(ctx); err != nil {
		return ResponseEnvelope{}, fmt.Errorf("turn off: %w", err)
	}
	return NewResponse(d, []Property{NewProperty(InterfacePowerController, PropPowerState, PowerOff)}), nil
}

func handleSetBrightness(ctx context.Context, b Backend, d *Directive) (ResponseEnvelope, error) {
	var payload struct {
		Brightness *int `json:"brightness"`
	}
	if err := json.Unmarshal(d.Payload, &payload); err != nil || payload.Brightness == nil {
		return ResponseEnvelope{}, fmt.Errorf("%w: brightness", ErrInvalidPayload)
	}

	ep, err := resolveEndpoint(ctx, b, d)
	if err != nil {
		return ResponseEnvelope{}, err
	}
	bc, ok := ep.Device().(BrightnessControl)
	if !ok {
		return ResponseEnvelope{}, fmt.Errorf("%w: SetBrightness", ErrUnsupportedOperation)
	}

	level := ClampPercent(*payload.Brightness)
	if err := bc.SetBrightness(ctx, level); err != nil {
		return ResponseEnvelope{}, fmt.Errorf("set brightness: %w", err)
	}
	return NewResponse(d, []Property{NewProperty(InterfaceBrightnessController, PropBrightness, level)}), nil
}

func handleAdjustBrightness(ctx context.Context, b Backend, d *Directive) (ResponseEnvelope, error) {
	var payload struct {
		BrightnessDelta *int `json:"brightnessDelta"`
	}
	if err := json.Unmarshal(d.Payload, &payload); err != nil || payload.BrightnessDelta == nil {
		return ResponseEnvelope{}, fmt.Errorf("%w: brightnessDelta", ErrInvalidPayload)
	}

	ep, err := resolveEndpoint(ctx, b, d)
	if err != nil {
		return ResponseEnvelope{}, err
	}
	bc, ok := ep.Device().(BrightnessControl)
	if !ok {
		return ResponseEnvelope{}, fmt.Errorf("%w: AdjustBrightness", ErrUnsupportedOperation)
	}

	current := brightnessBaseline
	if v, ok := ep.Property(ctx, PropBrightness); ok {
		if n, ok := intValue(v); ok {
			current = n
		}
	}

	level := ClampPercent(current + *payload.BrightnessDelta)
	if err := bc.SetBrightness(ctx, level); err != nil {
		return ResponseEnvelope{}, fmt.Errorf("adjust brightness: %w", err)
	}
	return NewResponse(d, []Property{NewProperty(InterfaceBrightnessController, PropBrightness, level)}), nil
}

func handleSetColor(ctx context.Context, b Backend, d *Directive) (ResponseEnvelope, error) {
	var payload struct {
		Color *ColorValue `json:"color"`
	}
	if err := json.Unmarshal(d.Payload, &payload); err != nil || payload.Color == nil {
		return ResponseEnvelope{}, fmt.Errorf("%w: color", ErrInvalidPayload)
	}

	ep, err := resolveEndpoint(ctx, b, d)
	if err != nil {
		return ResponseEnvelope{}, err
	}
	cc, ok := ep.Device().(ColorControl)
	if !ok {
		return ResponseEnvelope{}, fmt.Errorf("%w: SetColor", ErrUnsupportedOperation)
	}

	color := *payload.Color
	if err := cc.SetColor(ctx, color.Hue, color.Saturation, color.Brightness); err != nil {
		return ResponseEnvelope{}, fmt.Errorf("set color: %w", err)
	}
	// The requested triple is echoed back untouched.
	return NewResponse(d, []Property{NewProperty(InterfaceColorController, PropColor, color)}), nil
}

func handleSetColorTemperature(ctx context.Context, b Backend, d *Directive) (ResponseEnvelope, error) {
	var payload struct {
		ColorTemperatureInKelvin *int `json:"colorTemperatureInKelvin"`
	}
	if err := json.Unmarshal(d.Payload, &payload); err != nil || payload.ColorTemperatureInKelvin == nil {
		return ResponseEnvelope{}, fmt.Errorf("%w: colorTemperatureInKelvin", ErrInvalidPayload)
	}

	ep, err := resolveEndpoint(ctx, b, d)
	if err != nil {
		return ResponseEnvelope{}, err
	}
	ctc, ok := ep.Device().(ColorTemperatureControl)
	if !ok {
		return ResponseEnvelope{}, fmt.Errorf("%w: SetColorTemperature", ErrUnsupportedOperation)
	}

	kelvin := *payload.ColorTemperatureInKelvin
	if err := ctc.SetColorTemperature(ctx, kelvin); err != nil {
		return ResponseEnvelope{}, fmt.Errorf("set color temperature: %w", err)
	}
	return NewResponse(d, []Property{NewProperty(InterfaceColorTemperatureController, PropColorTemperatureInKelvin, kelvin)}), nil
}

func handleSetPercentage(ctx context.Context, b Backend, d *Directive) (ResponseEnvelope, error) {
	var payload struct {
		Percentage *int `json:"percentage"`
	}
	if err := json.Unmarshal(d.Payload, &payload); err != nil || payload.Percentage == nil {
		return ResponseEnvelope{}, fmt.Errorf("%w: percentage", ErrInvalidPayload)
	}

	ep, err := resolveEndpoint(ctx, b, d)
	if err != nil {
		return ResponseEnvelope{}, err
	}
	pc, ok := ep.Device().(PercentageControl)
	if !ok {
		return ResponseEnvelope{}, fmt.Errorf("%w: SetPercentage", ErrUnsupportedOperation)
	}

	percent := ClampPercent(*payload.Percentage)
	if err := pc.SetPercentage(ctx, percent); err != nil {
		return ResponseEnvelope{}, fmt.Errorf("set percentage: %w", err)
	}
	return NewResponse(d, []Property{NewProperty(InterfacePercentageController, PropPercentage, percent)}), nil
}

func handleLock(ctx context.Context, b Backend, d *Directive) (ResponseEnvelope, error) {
	ep, err := resolveEndpoint(ctx, b, d)
	if err != nil {
		return ResponseEnvelope{}, err
	}
	lc, ok := ep.Device().(LockControl)
	if !ok {
		return ResponseEnvelope{}, fmt.Errorf("%w: Lock", ErrUnsupportedOperation)
	}
	if err := lc.Lock(ctx); err != nil {
		return ResponseEnvelope{}, fmt.Errorf("lock: %w", err)
	}
	return NewResponse(d, []Property{NewProperty(InterfaceLockController, PropLockState, LockLocked)}), nil
}

func handleUnlock(ctx context.Context, b Backend, d *Directive) (ResponseEnvelope, error) {
	ep, err := resolveEndpoint(ctx, b, d)
	if err != nil {
		return ResponseEnvelope{}, err
	}
	lc, ok := ep.Device().(LockControl)
	if !ok {
		return ResponseEnvelope{}, fmt.Errorf("%w: Unlock", ErrUnsupportedOperation)
	}
	if err := lc.Unlock(ctx); err != nil {
		return ResponseEnvelope{}, fmt.Errorf("unlock: %w", err)
	}
	return NewResponse(d, []Property{NewProperty(InterfaceLockController, PropLockState, LockUnlocked)}), nil
}

// sceneEventPayload is shared by activation and deactivation events.
func sceneEventPayload() map[string]any {
	return map[string]any{
		"cause":     map[string]any{"type": CauseVoiceInteraction},
		"timestamp": Timestamp(),
	}
}

func handleActivateScene(ctx context.Context, b Backend, d *Directive) (ResponseEnvelope, error) {
	ep, err := resolveEndpoint(ctx, b, d)
	if err != nil {
		return ResponseEnvelope{}, err
	}
	sc, ok := ep.Device().(SceneControl)
	if !ok {
		return ResponseEnvelope{}, fmt.Errorf("%w: Activate", ErrUnsupportedOperation)
	}
	if err := sc.Activate(ctx); err != nil {
		return ResponseEnvelope{}, fmt.Errorf("activate scene: %w", err)
	}
	return NewMessage(d, InterfaceSceneController, EventActivationStarted, sceneEventPayload(), nil), nil
}

func handleDeactivateScene(ctx context.Context, b Backend, d *Directive) (ResponseEnvelope, error) {
	ep, err := resolveEndpoint(ctx, b, d)
	if err != nil {
		return ResponseEnvelope{}, err
	}
	sc, ok := ep.Device().(SceneControl)
	if !ok {
		return ResponseEnvelope{}, fmt.Errorf("%w: Deactivate", ErrUnsupportedOperation)
	}
	if err := sc.Deactivate(ctx); err != nil {
		return ResponseEnvelope{}, fmt.Errorf("deactivate scene: %w", err)
	}
	return NewMessage(d, InterfaceSceneController, EventDeactivationStarted, sceneEventPayload(), nil), nil
}

func handleSetTargetTemperature(ctx context.Context, b Backend, d *Directive) (ResponseEnvelope, error) {
	var payload struct {
		TargetSetpoint *TemperatureValue `json:"targetSetpoint"`
	}
	if err := json.Unmarshal(d.Payload, &payload); err != nil || payload.TargetSetpoint == nil {
		return ResponseEnvelope{}, fmt.Errorf("%w: targetSetpoint", ErrInvalidPayload)
	}

	ep, err := resolveEndpoint(ctx, b, d)
	if err != nil {
		return ResponseEnvelope{}, err
	}
	tc, ok := ep.Device().(ThermostatControl)
	if !ok {
		return ResponseEnvelope{}, fmt.Errorf("%w: SetTargetTemperature", ErrUnsupportedOperation)
	}

	celsius := ToCelsius(payload.TargetSetpoint.Value, payload.TargetSetpoint.Scale)
	if err := tc.SetTargetSetpoint(ctx, celsius); err != nil {
		return ResponseEnvelope{}, fmt.Errorf("set target setpoint: %w", err)
	}
	value := TemperatureValue{Value: celsius, Scale: ScaleCelsius}
	return NewResponse(d, []Property{NewProperty(InterfaceThermostatController, PropTargetSetpoint, value)}), nil
}

func handleSetThermostatMode(ctx context.Context, b Backend, d *Directive) (ResponseEnvelope, error) {
	var payload struct {
		ThermostatMode json.RawMessage `json:"thermostatMode"`
	}
	if err := json.Unmarshal(d.Payload, &payload); err != nil || len(payload.ThermostatMode) == 0 {
		return ResponseEnvelope{}, fmt.Errorf("%w: thermostatMode", ErrInvalidPayload)
	}
	mode, err := decodeThermostatMode(payload.ThermostatMode)
	if err != nil {
		return ResponseEnvelope{}, err
	}

	ep, err := resolveEndpoint(ctx, b, d)
	if err != nil {
		return ResponseEnvelope{}, err
	}
	tc, ok := ep.Device().(ThermostatControl)
	if !ok {
		return ResponseEnvelope{}, fmt.Errorf("%w: SetThermostatMode", ErrUnsupportedOperation)
	}
	if err := tc.SetThermostatMode(ctx, mode); err != nil {
		return ResponseEnvelope{}, fmt.Errorf("set thermostat mode: %w", err)
	}
	return NewResponse(d, []Property{NewProperty(InterfaceThermostatController, PropThermostatMode, mode)}), nil
}

// decodeThermostatMode accepts the two payload forms the voice service
// sends: a bare string or an object with a value field. The mode is
// normalized to upper case.
func decodeThermostatMode(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.ToUpper(s), nil
	}
	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil || obj.Value == "" {
		return "", fmt.Errorf("%w: thermostatMode", ErrInvalidPayload)
	}
	return strings.ToUpper(obj.Value), nil
}

func handleReportState(ctx context.Context, b Backend, d *Directive) (ResponseEnvelope, error) {
	if d.Endpoint == nil {
		return ResponseEnvelope{}, ErrMissingEndpoint
	}
	ep, err := b.GetEndpoint(ctx, d)
	if err != nil {
		return ResponseEnvelope{}, fmt.Errorf("resolve endpoint %q: %w", d.Endpoint.EndpointID, err)
	}
	if ep == nil || ep.Device() == nil || !ep.Device().Resolved(ctx) {
		return ResponseEnvelope{}, ErrEndpointUnreachable
	}

	props := ep.ReportedProperties(ctx)
	if props == nil {
		props = []Property{}
	}
	return NewMessage(d, InterfaceAlexa, EventStateReport, nil, &Context{Properties: props}), nil
}
