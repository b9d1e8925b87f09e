package domoticz

import "errors"

// Domain errors for the domoticz package.
var (
	// ErrInvalidEndpointID is returned when an endpoint id does not have the
	// <Kind>-<idx> form.
	ErrInvalidEndpointID = errors.New("domoticz: invalid endpoint id")

	// ErrUnknownEndpointType is returned when the kind segment of an
	// endpoint id names no known endpoint kind.
	ErrUnknownEndpointType = errors.New("domoticz: unknown endpoint type")

	// ErrRequestFailed is returned when a Domoticz API call cannot be
	// completed or answers with a non-OK HTTP status.
	ErrRequestFailed = errors.New("domoticz: request failed")
)
