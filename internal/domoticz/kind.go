package domoticz

import (
	"fmt"
	"strings"
)

// EndpointKind classifies a Domoticz device into one of the bridge's
// endpoint variants. The kind is the first segment of every endpoint id.
type EndpointKind string

const (
	KindSwitchLight       EndpointKind = "SwitchLight"
	KindBlind             EndpointKind = "Blind"
	KindTemperatureSensor EndpointKind = "TemperatureSensor"
	KindThermostat        EndpointKind = "Thermostat"
	KindScene             EndpointKind = "Scene"
)

// ParseEndpointID splits an endpoint id into its kind and Domoticz device
// index. The id form is <Kind>-<idx>; the kind must name a known variant.
func ParseEndpointID(id string) (EndpointKind, string, error) {
	prefix, idx, ok := strings.Cut(id, "-")
	if !ok || idx == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidEndpointID, id)
	}
	switch kind := EndpointKind(prefix); kind {
	case KindSwitchLight, KindBlind, KindTemperatureSensor, KindThermostat, KindScene:
		return kind, idx, nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnknownEndpointType, prefix)
	}
}

// classifyDevice maps a raw device record to an endpoint kind using the
// Domoticz type string. Anything not recognized is treated as a switchable
// light.
func classifyDevice(d Device) EndpointKind {
	switch {
	case d.Type == "Scene" || d.Type == "Group":
		return KindScene
	case strings.Contains(d.Type, "Temp"):
		return KindTemperatureSensor
	case strings.Contains(d.Type, "Thermostat"):
		return KindThermostat
	case strings.Contains(d.Type, "Blind") || strings.Contains(d.Type, "RFY"):
		return KindBlind
	default:
		return KindSwitchLight
	}
}
