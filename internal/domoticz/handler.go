package domoticz

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ashdene/domovoice/internal/alexa"
)

// thermostatModes is the mode set advertised for thermostat endpoints.
var thermostatModes = []string{"HEAT", "COOL", "AUTO", "OFF"}

// Handler adapts the alexa directive engine to a Domoticz server. It
// implements alexa.Backend.
//
// Device records are cached: discovery refreshes the cache wholesale,
// individual directives resolve against the cache and fall back to a
// per-index fetch on a miss.
type Handler struct {
	cfg    Config
	client *Client
	logger Logger

	mu      sync.RWMutex
	devices map[string]Device
}

// NewHandler builds a handler over the given client.
func NewHandler(cfg Config, client *Client) *Handler {
	return &Handler{
		cfg:     cfg,
		client:  client,
		logger:  nopLogger{},
		devices: make(map[string]Device),
	}
}

// SetLogger installs a logger for the handler and its client.
func (h *Handler) SetLogger(l Logger) {
	if l == nil {
		return
	}
	h.logger = l
	h.client.SetLogger(l)
}

// LoadDevices replaces the device cache with a fresh wholesale fetch.
// Scenes and groups are merged in when enabled.
func (h *Handler) LoadDevices(ctx context.Context) error {
	devices, err := h.client.Devices(ctx)
	if err != nil {
		return fmt.Errorf("load devices: %w", err)
	}

	cache := make(map[string]Device, len(devices))
	for _, d := range devices {
		cache[d.Idx.String()] = d
	}

	if h.cfg.IncludeScenesGroups {
		scenes, err := h.client.Scenes(ctx)
		if err != nil {
			h.logger.Warn("scene refresh failed", "error", err)
		}
		for _, d := range scenes {
			cache[d.Idx.String()] = d
		}
	}

	h.mu.Lock()
	h.devices = cache
	h.mu.Unlock()

	h.logger.Debug("device cache refreshed", "count", len(cache))
	return nil
}

// cachedDevice returns the cached record for an index.
func (h *Handler) cachedDevice(idx string) (Device, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	d, ok := h.devices[idx]
	return d, ok
}

// device resolves a record by index, fetching from Domoticz on a cache
// miss. Scene indexes come from a different API listing than devices.
// Returns nil when the record cannot be resolved.
func (h *Handler) device(ctx context.Context, kind EndpointKind, idx string) *Device {
	if d, ok := h.cachedDevice(idx); ok {
		return &d
	}

	if kind == KindScene {
		scenes, err := h.client.Scenes(ctx)
		if err != nil {
			h.logger.Error("scene fetch failed", "idx", idx, "error", err)
			return nil
		}
		h.mu.Lock()
		for _, d := range scenes {
			h.devices[d.Idx.String()] = d
		}
		h.mu.Unlock()

		if d, ok := h.cachedDevice(idx); ok {
			return &d
		}
		return nil
	}

	d, err := h.client.Device(ctx, idx)
	if err != nil {
		h.logger.Error("device fetch failed", "idx", idx, "error", err)
		return nil
	}
	if d == nil {
		return nil
	}

	h.mu.Lock()
	h.devices[idx] = *d
	h.mu.Unlock()
	return d
}

// GetEndpoint resolves a directive's endpoint reference. The endpoint kind
// is parsed from the id; the friendly name is taken from the request since
// per-directive resolution never consults discovery state.
func (h *Handler) GetEndpoint(ctx context.Context, d *alexa.Directive) (*alexa.Endpoint, error) {
	if d.Endpoint == nil {
		return nil, fmt.Errorf("%w: empty id", ErrInvalidEndpointID)
	}

	kind, idx, err := ParseEndpointID(d.Endpoint.EndpointID)
	if err != nil {
		return nil, err
	}

	ep := h.buildEndpoint(kind, d.Endpoint.EndpointID, d.Endpoint.FriendlyName, "")
	ep.SetDevice(h.bindDevice(kind, idx))
	return ep, nil
}

// GetEndpoints enumerates endpoints for discovery. The device cache is
// refreshed wholesale first; a failed refresh degrades to whatever the
// cache holds.
func (h *Handler) GetEndpoints(ctx context.Context) ([]*alexa.Endpoint, error) {
	if err := h.LoadDevices(ctx); err != nil {
		h.logger.Error("device refresh failed", "error", err)
	}

	h.mu.RLock()
	snapshot := make(map[string]Device, len(h.devices))
	for idx, d := range h.devices {
		snapshot[idx] = d
	}
	h.mu.RUnlock()

	endpoints := make([]*alexa.Endpoint, 0, len(snapshot))
	for idx, d := range snapshot {
		kind := classifyDevice(d)
		id := fmt.Sprintf("%s-%s", kind, idx)

		ep := h.buildEndpoint(kind, id, d.AlexaName(), d.Type)
		if kind == KindSwitchLight {
			if d.IsColorCapable() {
				ep.AddCapability(alexa.MustCapability(alexa.InterfaceColorController))
				ep.AddCapability(alexa.MustCapability(alexa.InterfaceColorTemperatureController))
			}
			ep.AddDisplayCategory("LIGHT")
		}
		ep.SetDevice(h.bindDevice(kind, idx))
		endpoints = append(endpoints, ep)
	}

	h.logger.Info("discovery endpoints", "count", len(endpoints))
	return endpoints, nil
}

// buildEndpoint assembles the endpoint shell for a kind: capabilities and
// display categories, no device binding yet.
func (h *Handler) buildEndpoint(kind EndpointKind, id, name, description string) *alexa.Endpoint {
	ep := alexa.NewEndpoint(id, name, description, h.cfg.ManufacturerName)

	switch kind {
	case KindScene:
		ep.AddCapability(alexa.MustCapability(alexa.InterfaceSceneController))
		ep.AddDisplayCategory("SCENE")
	case KindTemperatureSensor:
		ep.AddCapability(alexa.MustCapability(alexa.InterfaceTemperatureSensor))
		ep.AddDisplayCategory("TEMPERATURE_SENSOR")
	case KindThermostat:
		ep.AddCapability(alexa.MustCapability(alexa.InterfaceTemperatureSensor))
		tc := alexa.MustCapability(alexa.InterfaceThermostatController).(*alexa.ThermostatCapability)
		tc.SetSupportedModes(thermostatModes)
		ep.AddCapability(tc)
		ep.AddDisplayCategory("THERMOSTAT")
	case KindBlind:
		ep.AddCapability(alexa.MustCapability(alexa.InterfacePowerController))
		ep.AddCapability(alexa.MustCapability(alexa.InterfacePercentageController))
	default:
		ep.AddCapability(alexa.MustCapability(alexa.InterfacePowerController))
		ep.AddCapability(alexa.MustCapability(alexa.InterfaceBrightnessController))
	}
	return ep
}

// Command wrappers. Commands degrade like queries: a failed call is logged
// and otherwise dropped, the voice service still receives the optimistic
// response.

func (h *Handler) setSwitch(ctx context.Context, idx, cmd string) error {
	if err := h.client.SwitchLight(ctx, idx, cmd); err != nil {
		h.logger.Error("switch command failed", "idx", idx, "cmd", cmd, "error", err)
	}
	return nil
}

func (h *Handler) setLevel(ctx context.Context, idx string, level int) error {
	if err := h.client.SetLevel(ctx, idx, level); err != nil {
		h.logger.Error("level command failed", "idx", idx, "level", level, "error", err)
	}
	return nil
}

func (h *Handler) setColor(ctx context.Context, idx string, r, g, b int) error {
	if err := h.client.SetColor(ctx, idx, r, g, b); err != nil {
		h.logger.Error("color command failed", "idx", idx, "error", err)
	}
	return nil
}

func (h *Handler) setColorTemperature(ctx context.Context, idx string, kelvin int) error {
	if err := h.client.SetWhiteLevel(ctx, idx, kelvinToLevel(kelvin)); err != nil {
		h.logger.Error("color temperature command failed", "idx", idx, "kelvin", kelvin, "error", err)
	}
	return nil
}

func (h *Handler) setSetpoint(ctx context.Context, idx string, value float64) error {
	if err := h.client.SetSetpoint(ctx, idx, value); err != nil {
		h.logger.Error("setpoint command failed", "idx", idx, "setpoint", value, "error", err)
	}
	return nil
}

// setLevelByName translates a selector level name (thermostat mode) to its
// numeric level and sets it. Unknown names are dropped with a warning.
func (h *Handler) setLevelByName(ctx context.Context, kind EndpointKind, idx, name string) error {
	d := h.device(ctx, kind, idx)
	if d == nil {
		h.logger.Warn("level name lookup without device record", "idx", idx, "name", name)
		return nil
	}

	for i, levelName := range d.LevelNamesList() {
		if strings.EqualFold(levelName, name) {
			return h.setLevel(ctx, idx, i*d.levelInt())
		}
	}

	h.logger.Warn("unknown selector level name", "idx", idx, "name", name)
	return nil
}

func (h *Handler) setScene(ctx context.Context, idx, cmd string) error {
	if err := h.client.SwitchScene(ctx, idx, cmd); err != nil {
		h.logger.Error("scene command failed", "idx", idx, "cmd", cmd, "error", err)
	}
	return nil
}
