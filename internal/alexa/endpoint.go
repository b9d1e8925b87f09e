package alexa

import "context"

// Device is the backend attachment point for an endpoint. It supplies live
// property values; concrete implementations additionally implement the
// control interfaces (PowerControl, LockControl, ...) for the operations
// the underlying device supports.
type Device interface {
	// Property returns the current value of a named property. ok is false
	// when the property is unknown or the value cannot be produced; absent
	// values are silently omitted from reports.
	Property(ctx context.Context, name string) (any, bool)

	// Resolved reports whether the backing device data could be fetched.
	Resolved(ctx context.Context) bool
}

// Control interfaces implemented by backend devices. Handlers probe for the
// interface they need with a type assertion; a device that lacks it cannot
// serve the directive.
type (
	// PowerControl switches an endpoint on and off.
	PowerControl interface {
		TurnOn(ctx context.Context) error
		TurnOff(ctx context.Context) error
	}

	// BrightnessControl sets dimmer level as a percentage.
	BrightnessControl interface {
		SetBrightness(ctx context.Context, percent int) error
	}

	// ColorControl sets color from a hue/saturation/brightness triple as
	// carried in the SetColor payload.
	ColorControl interface {
		SetColor(ctx context.Context, hue, saturation, brightness float64) error
	}

	// ColorTemperatureControl sets white color temperature in Kelvin.
	ColorTemperatureControl interface {
		SetColorTemperature(ctx context.Context, kelvin int) error
	}

	// PercentageControl sets a generic percentage position (blinds).
	PercentageControl interface {
		SetPercentage(ctx context.Context, percent int) error
	}

	// LockControl locks and unlocks an endpoint.
	LockControl interface {
		Lock(ctx context.Context) error
		Unlock(ctx context.Context) error
	}

	// SceneControl activates and deactivates a scene or group.
	SceneControl interface {
		Activate(ctx context.Context) error
		Deactivate(ctx context.Context) error
	}

	// ThermostatControl adjusts setpoint (degrees Celsius) and mode.
	ThermostatControl interface {
		SetTargetSetpoint(ctx context.Context, celsius float64) error
		SetThermostatMode(ctx context.Context, mode string) error
	}
)

// Endpoint is one addressable device as seen by the voice service: identity
// and description attributes plus an ordered set of capabilities and an
// optional backend device binding.
type Endpoint struct {
	ID               string
	FriendlyName     string
	Description      string
	ManufacturerName string

	displayCategories []string
	capabilities      []Capability
	cookie            map[string]string
	device            Device
}

// NewEndpoint builds an endpoint with no capabilities attached.
func NewEndpoint(id, friendlyName, description, manufacturerName string) *Endpoint {
	return &Endpoint{
		ID:               id,
		FriendlyName:     friendlyName,
		Description:      description,
		ManufacturerName: manufacturerName,
	}
}

// AddCapability attaches a capability. Attachment order is preserved;
// a capability whose interface name is already attached is ignored.
func (e *Endpoint) AddCapability(c Capability) {
	for _, existing := range e.capabilities {
		if existing.Name() == c.Name() {
			return
		}
	}
	e.capabilities = append(e.capabilities, c)
}

// Capabilities returns the attached capabilities in attachment order.
func (e *Endpoint) Capabilities() []Capability { return e.capabilities }

// HasCapabilities reports whether any capability beyond the implicit
// identity interface is attached. Endpoints without one are dropped from
// discovery responses.
func (e *Endpoint) HasCapabilities() bool { return len(e.capabilities) > 0 }

// AddDisplayCategory appends a discovery display category (LIGHT, SCENE_TRIGGER, ...).
func (e *Endpoint) AddDisplayCategory(category string) {
	e.displayCategories = append(e.displayCategories, category)
}

// SetCookie stores an opaque key/value pair echoed back in discovery.
func (e *Endpoint) SetCookie(key, value string) {
	if e.cookie == nil {
		e.cookie = make(map[string]string)
	}
	e.cookie[key] = value
}

// SetDevice binds the backend device supplying live values and controls.
func (e *Endpoint) SetDevice(d Device) { e.device = d }

// Device returns the bound backend device, nil when none is bound.
func (e *Endpoint) Device() Device { return e.device }

// Property queries the bound device for a property value. Endpoints without
// a device report every property as absent.
func (e *Endpoint) Property(ctx context.Context, name string) (any, bool) {
	if e.device == nil {
		return nil, false
	}
	return e.device.Property(ctx, name)
}

// ReportedProperties samples every property supported by the attached
// capabilities. Timestamps are taken at call time; properties whose value
// cannot be produced are omitted.
func (e *Endpoint) ReportedProperties(ctx context.Context) []Property {
	var props []Property
	for _, c := range e.capabilities {
		for _, name := range c.SupportedProperties() {
			value, ok := e.Property(ctx, name)
			if !ok {
				continue
			}
			props = append(props, NewProperty(c.Name(), name, value))
		}
	}
	return props
}

// DiscoveryView returns the discovery serialization of the endpoint. The
// implicit identity interface is always emitted first, followed by the
// attached capabilities in order.
func (e *Endpoint) DiscoveryView() map[string]any {
	capabilities := make([]map[string]any, 0, len(e.capabilities)+1)
	capabilities = append(capabilities, MustCapability(InterfaceAlexa).DiscoveryView())
	for _, c := range e.capabilities {
		capabilities = append(capabilities, c.DiscoveryView())
	}

	categories := e.displayCategories
	if categories == nil {
		categories = []string{}
	}

	view := map[string]any{
		"endpointId":                 e.ID,
		"friendlyName":               e.FriendlyName,
		"description":                e.Description,
		"manufacturerName":           e.ManufacturerName,
		"displayCategories":          categories,
		"additionalApplianceDetails": map[string]any{},
		"capabilities":               capabilities,
	}
	if len(e.cookie) > 0 {
		view["cookie"] = e.cookie
	}
	return view
}
