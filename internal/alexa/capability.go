package alexa

// InterfaceVersion is the capability interface version advertised in
// discovery and carried by every envelope as payloadVersion.
const InterfaceVersion = "3"

// Capability interface names. These double as directive namespaces: a
// directive arrives with header.namespace set to the interface it targets.
const (
	InterfaceAlexa                      = "Alexa"
	InterfaceDiscovery                  = "Alexa.Discovery"
	InterfacePowerController            = "Alexa.PowerController"
	InterfaceBrightnessController       = "Alexa.BrightnessController"
	InterfaceColorController            = "Alexa.ColorController"
	InterfaceColorTemperatureController = "Alexa.ColorTemperatureController"
	InterfacePercentageController       = "Alexa.PercentageController"
	InterfaceLockController             = "Alexa.LockController"
	InterfaceSceneController            = "Alexa.SceneController"
	InterfaceSpeaker                    = "Alexa.Speaker"
	InterfaceStepSpeaker                = "Alexa.StepSpeaker"
	InterfacePlaybackController         = "Alexa.PlaybackController"
	InterfaceInputController            = "Alexa.InputController"
	InterfaceTemperatureSensor          = "Alexa.TemperatureSensor"
	InterfaceThermostatController       = "Alexa.ThermostatController"
	InterfaceContactSensor              = "Alexa.ContactSensor"
)

// Property names reported by the capability variants.
const (
	PropPowerState               = "powerState"
	PropBrightness               = "brightness"
	PropColor                    = "color"
	PropColorTemperatureInKelvin = "colorTemperatureInKelvin"
	PropPercentage               = "percentage"
	PropLockState                = "lockState"
	PropTemperature              = "temperature"
	PropTargetSetpoint           = "targetSetpoint"
	PropThermostatMode           = "thermostatMode"
	PropDetectionState           = "detectionState"
)

// Capability describes one controllable or reportable aspect of an endpoint.
//
// The set of implementations is closed: the generic interfaceCapability
// covers every variant whose discovery shape is the standard one, and
// SceneCapability / ThermostatCapability carry the two divergent shapes.
// Instances are obtained from the registry via NewCapability.
type Capability interface {
	// Name returns the protocol interface name, e.g. "Alexa.PowerController".
	Name() string

	// SupportedProperties returns the property names this capability reports.
	// Empty for declare-only variants (Speaker, PlaybackController, ...).
	SupportedProperties() []string

	// DiscoveryView returns the discovery-time serialization of the
	// capability, ready for JSON encoding.
	DiscoveryView() map[string]any
}

// interfaceCapability is the generic variant. Flags are fixed at
// construction: everything this bridge exposes is retrievable and flagged
// as proactively reported.
type interfaceCapability struct {
	name                string
	properties          []string
	proactivelyReported bool
	retrievable         bool
}

func newInterfaceCapability(name string, properties ...string) *interfaceCapability {
	return &interfaceCapability{
		name:                name,
		properties:          properties,
		proactivelyReported: true,
		retrievable:         true,
	}
}

func (c *interfaceCapability) Name() string { return c.name }

func (c *interfaceCapability) SupportedProperties() []string { return c.properties }

// DiscoveryView emits the properties block only when the variant reports at
// least one property. Declare-only variants serialize as the bare triple.
func (c *interfaceCapability) DiscoveryView() map[string]any {
	view := map[string]any{
		"type":      "AlexaInterface",
		"interface": c.name,
		"version":   InterfaceVersion,
	}
	if len(c.properties) > 0 {
		supported := make([]map[string]string, 0, len(c.properties))
		for _, p := range c.properties {
			supported = append(supported, map[string]string{"name": p})
		}
		view["properties"] = map[string]any{
			"supported":           supported,
			"proactivelyReported": c.proactivelyReported,
			"retrievable":         c.retrievable,
		}
	}
	return view
}

// SceneCapability is the SceneController variant. Its discovery shape omits
// the properties block entirely and instead carries supportsDeactivation.
type SceneCapability struct {
	interfaceCapability
	supportsDeactivation bool
}

// SetSupportsDeactivation toggles whether the scene advertises a
// deactivation action alongside activation.
func (c *SceneCapability) SetSupportsDeactivation(v bool) { c.supportsDeactivation = v }

func (c *SceneCapability) DiscoveryView() map[string]any {
	return map[string]any{
		"type":                 "AlexaInterface",
		"interface":            c.name,
		"version":              InterfaceVersion,
		"supportsDeactivation": c.supportsDeactivation,
	}
}

// ThermostatCapability is the ThermostatController variant. When supported
// modes have been set its discovery shape gains a configuration block; until
// then it serializes like the generic variant.
type ThermostatCapability struct {
	interfaceCapability
	supportedModes     []string
	supportsScheduling bool
}

// SetSupportedModes records the thermostat mode names advertised in
// discovery. Scheduling support stays off.
func (c *ThermostatCapability) SetSupportedModes(modes []string) { c.supportedModes = modes }

func (c *ThermostatCapability) DiscoveryView() map[string]any {
	view := c.interfaceCapability.DiscoveryView()
	if len(c.supportedModes) > 0 {
		view["configuration"] = map[string]any{
			"supportsScheduling": c.supportsScheduling,
			"supportedModes":     c.supportedModes,
		}
	}
	return view
}
