package domoticz

import (
	"context"
	"strings"

	"github.com/ashdene/domovoice/internal/alexa"
)

// endpointDevice is the base device binding: lazy record resolution plus
// the property decoding shared by every endpoint kind. Bindings live for a
// single directive and are not safe for concurrent use.
type endpointDevice struct {
	h      *Handler
	kind   EndpointKind
	idx    string
	record *Device
}

// bindDevice builds the kind-specific device binding, preloading the cached
// record when one exists.
func (h *Handler) bindDevice(kind EndpointKind, idx string) alexa.Device {
	base := endpointDevice{h: h, kind: kind, idx: idx}
	if d, ok := h.cachedDevice(idx); ok {
		base.record = &d
	}

	switch kind {
	case KindScene:
		return &sceneDevice{base}
	case KindTemperatureSensor:
		return &temperatureSensorDevice{base}
	case KindThermostat:
		return &thermostatDevice{base}
	case KindBlind:
		return &blindDevice{base}
	default:
		return &switchLightDevice{base}
	}
}

// resolve returns the backing record, fetching it on first use.
func (e *endpointDevice) resolve(ctx context.Context) *Device {
	if e.record == nil {
		e.record = e.h.device(ctx, e.kind, e.idx)
	}
	return e.record
}

func (e *endpointDevice) Resolved(ctx context.Context) bool {
	return e.resolve(ctx) != nil
}

// Property decodes one capability property from the raw record. Values that
// cannot be produced are reported absent.
func (e *endpointDevice) Property(ctx context.Context, name string) (any, bool) {
	d := e.resolve(ctx)
	if d == nil {
		return nil, false
	}

	switch name {
	case alexa.PropPowerState:
		on := d.Status == "On" || d.Status == "Open" || strings.HasPrefix(d.Status, "Set Level")
		if on {
			return alexa.PowerOn, true
		}
		return alexa.PowerOff, true

	case alexa.PropColor:
		c, ok := d.parseColor()
		if !ok {
			return nil, false
		}
		h, s, v := rgbToHSV(c.R, c.G, c.B)
		return alexa.ColorValue{Hue: h * 360.0, Saturation: s, Brightness: v}, true

	case alexa.PropBrightness, alexa.PropPercentage:
		return d.Level, true

	case alexa.PropTemperature:
		if d.Temp == nil {
			return nil, false
		}
		return alexa.TemperatureValue{Value: *d.Temp, Scale: alexa.ScaleCelsius}, true

	case alexa.PropTargetSetpoint:
		if d.SetPoint == "" {
			return nil, false
		}
		value, err := d.SetPoint.Float64()
		if err != nil {
			return nil, false
		}
		return alexa.TemperatureValue{Value: value, Scale: alexa.ScaleCelsius}, true

	case alexa.PropThermostatMode:
		names := d.LevelNamesList()
		i := d.Level / d.levelInt()
		if i < 0 || i >= len(names) {
			return "AUTO", true
		}
		return strings.ToUpper(names[i]), true

	case alexa.PropDetectionState:
		if d.Status == "Open" {
			return alexa.DetectionDetected, true
		}
		return alexa.DetectionNotDetected, true
	}

	return nil, false
}

// switchLightDevice binds switches and dimmable lights.
type switchLightDevice struct{ endpointDevice }

func (s *switchLightDevice) TurnOn(ctx context.Context) error {
	return s.h.setSwitch(ctx, s.idx, "On")
}

func (s *switchLightDevice) TurnOff(ctx context.Context) error {
	return s.h.setSwitch(ctx, s.idx, "Off")
}

func (s *switchLightDevice) SetBrightness(ctx context.Context, percent int) error {
	return s.h.setLevel(ctx, s.idx, percent)
}

func (s *switchLightDevice) SetColor(ctx context.Context, hue, saturation, brightness float64) error {
	r, g, b := hsvToRGB(hue/360.0, saturation, brightness/100.0)
	return s.h.setColor(ctx, s.idx, r, g, b)
}

func (s *switchLightDevice) SetColorTemperature(ctx context.Context, kelvin int) error {
	return s.h.setColorTemperature(ctx, s.idx, kelvin)
}

// blindDevice binds window coverings. Domoticz treats On as closed, the
// voice model treats on as open, so the power commands are inverted.
type blindDevice struct{ endpointDevice }

func (b *blindDevice) TurnOn(ctx context.Context) error {
	return b.h.setSwitch(ctx, b.idx, "Off")
}

func (b *blindDevice) TurnOff(ctx context.Context) error {
	return b.h.setSwitch(ctx, b.idx, "On")
}

func (b *blindDevice) SetPercentage(ctx context.Context, percent int) error {
	return b.h.setLevel(ctx, b.idx, percent)
}

// temperatureSensorDevice binds read-only temperature sensors.
type temperatureSensorDevice struct{ endpointDevice }

// thermostatDevice binds setpoint devices with selector-based modes.
type thermostatDevice struct{ endpointDevice }

func (t *thermostatDevice) SetTargetSetpoint(ctx context.Context, celsius float64) error {
	return t.h.setSetpoint(ctx, t.idx, celsius)
}

func (t *thermostatDevice) SetThermostatMode(ctx context.Context, mode string) error {
	return t.h.setLevelByName(ctx, t.kind, t.idx, mode)
}

// sceneDevice binds Domoticz scenes and groups.
type sceneDevice struct{ endpointDevice }

func (s *sceneDevice) Activate(ctx context.Context) error {
	return s.h.setScene(ctx, s.idx, "On")
}

func (s *sceneDevice) Deactivate(ctx context.Context) error {
	return s.h.setScene(ctx, s.idx, "Off")
}
