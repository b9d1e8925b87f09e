// Package domoticz adapts the alexa directive engine to a Domoticz home
// automation server.
//
// It implements alexa.Backend: endpoint ids of the form <Kind>-<idx> are
// parsed into a typed endpoint kind and a Domoticz device index, device
// records are cached from wholesale discovery refreshes and fetched lazily
// on cache misses, and directives are executed as GET commands against the
// Domoticz JSON API (/json.htm).
//
// # Degraded Operation
//
// The Domoticz API is treated as best-effort: a failed or timed-out call is
// logged and degrades to an empty result. Discovery then reports no
// endpoints and commands are dropped silently; the alexa layer still
// answers the voice service optimistically.
//
// # Endpoint Kinds
//
//   - SwitchLight: switches and dimmers, color capable when the device
//     subtype reports RGB
//   - Blind: window coverings, voice on/off inverted against Domoticz
//   - TemperatureSensor: read-only temperature reporting
//   - Thermostat: setpoint plus selector-based mode switching
//   - Scene: Domoticz scenes and groups, enumeration behind a config flag
package domoticz
