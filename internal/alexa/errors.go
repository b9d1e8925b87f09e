package alexa

import "errors"

// Domain errors for the alexa package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, alexa.ErrEndpointUnreachable) {
//	    // handle unreachable backend
//	}
var (
	// ErrUnknownCapability is returned when a capability name is not registered.
	ErrUnknownCapability = errors.New("alexa: unknown capability")

	// ErrMissingEndpoint is returned when a directive that targets a device
	// carries no endpoint reference.
	ErrMissingEndpoint = errors.New("alexa: directive has no endpoint")

	// ErrUnsupportedOperation is returned when the resolved endpoint's device
	// does not implement the control required by the directive.
	ErrUnsupportedOperation = errors.New("alexa: endpoint does not support operation")

	// ErrEndpointUnreachable is returned when the backing device data for an
	// endpoint cannot be resolved. The router translates it to the protocol
	// error type ENDPOINT_UNREACHABLE instead of INTERNAL_ERROR.
	ErrEndpointUnreachable = errors.New("alexa: endpoint unreachable")

	// ErrInvalidPayload is returned when a directive payload is missing a
	// required field or cannot be decoded.
	ErrInvalidPayload = errors.New("alexa: invalid directive payload")
)
