package alexa

import "time"

// timestampLayout renders UTC timestamps at second precision with a trailing
// Z, the form the voice service expects in property readings and event
// payloads.
const timestampLayout = "2006-01-02T15:04:05Z"

// Property is one timestamped state reading for one capability property.
type Property struct {
	Namespace                 string `json:"namespace"`
	Name                      string `json:"name"`
	Value                     any    `json:"value"`
	TimeOfSample              string `json:"timeOfSample"`
	UncertaintyInMilliseconds int    `json:"uncertaintyInMilliseconds"`
}

// NewProperty builds a reading sampled now. Uncertainty is always reported
// as zero.
func NewProperty(namespace, name string, value any) Property {
	return Property{
		Namespace:    namespace,
		Name:         name,
		Value:        value,
		TimeOfSample: Timestamp(),
	}
}

// Timestamp returns the current UTC time in the protocol's timestamp form.
func Timestamp() string {
	return time.Now().UTC().Format(timestampLayout)
}

// TemperatureValue is the protocol shape for temperature-valued properties
// and payload fields.
type TemperatureValue struct {
	Value float64 `json:"value"`
	Scale string  `json:"scale"`
}

// Temperature scales accepted in directive payloads. Readings produced by
// this bridge are always CELSIUS.
const (
	ScaleCelsius    = "CELSIUS"
	ScaleFahrenheit = "FAHRENHEIT"
	ScaleKelvin     = "KELVIN"
)

// ColorValue is the protocol shape for the color property and the SetColor
// payload: hue in degrees [0,360), saturation and brightness in [0,1].
type ColorValue struct {
	Hue        float64 `json:"hue"`
	Saturation float64 `json:"saturation"`
	Brightness float64 `json:"brightness"`
}

// Detection states reported by contact sensors.
const (
	DetectionDetected    = "DETECTED"
	DetectionNotDetected = "NOT_DETECTED"
)

// Power states reported by switchable endpoints.
const (
	PowerOn  = "ON"
	PowerOff = "OFF"
)

// Lock states reported by lockable endpoints.
const (
	LockLocked   = "LOCKED"
	LockUnlocked = "UNLOCKED"
)
