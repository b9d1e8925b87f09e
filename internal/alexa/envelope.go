package alexa

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Event and error names used in response envelopes.
const (
	EventResponse            = "Response"
	EventErrorResponse       = "ErrorResponse"
	EventStateReport         = "StateReport"
	EventChangeReport        = "ChangeReport"
	EventDiscoverResponse    = "Discover.Response"
	EventActivationStarted   = "ActivationStarted"
	EventDeactivationStarted = "DeactivationStarted"
)

// Protocol error types carried in ErrorResponse payloads.
const (
	ErrorTypeInternal            = "INTERNAL_ERROR"
	ErrorTypeEndpointUnreachable = "ENDPOINT_UNREACHABLE"
)

// Header identifies a directive or event message.
type Header struct {
	Namespace        string `json:"namespace"`
	Name             string `json:"name"`
	MessageID        string `json:"messageId,omitempty"`
	PayloadVersion   string `json:"payloadVersion,omitempty"`
	CorrelationToken string `json:"correlationToken,omitempty"`
}

// EndpointRef identifies the endpoint a directive targets. It is echoed
// back verbatim in the response event.
type EndpointRef struct {
	EndpointID   string            `json:"endpointId"`
	FriendlyName string            `json:"friendlyName,omitempty"`
	Scope        json.RawMessage   `json:"scope,omitempty"`
	Cookie       map[string]string `json:"cookie,omitempty"`
}

// Directive is one inbound command message.
type Directive struct {
	Header   Header          `json:"header"`
	Endpoint *EndpointRef    `json:"endpoint,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// DirectiveEnvelope wraps a directive as received on the wire.
type DirectiveEnvelope struct {
	Directive Directive `json:"directive"`
}

// Context carries reported property state alongside a response event.
type Context struct {
	Properties []Property `json:"properties"`
}

// Event is the response counterpart of a directive.
type Event struct {
	Header   Header       `json:"header"`
	Endpoint *EndpointRef `json:"endpoint,omitempty"`
	Payload  any          `json:"payload"`
}

// ResponseEnvelope is one outbound protocol message.
type ResponseEnvelope struct {
	Context *Context `json:"context,omitempty"`
	Event   Event    `json:"event"`
}

// ErrorPayload is the payload of an ErrorResponse event.
type ErrorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewMessage builds a response envelope for a directive: fresh messageId,
// payloadVersion pinned, correlation token echoed when the directive carried
// one, endpoint reference copied from the request. A nil payload serializes
// as the empty object.
func NewMessage(d *Directive, namespace, name string, payload any, context *Context) ResponseEnvelope {
	if payload == nil {
		payload = struct{}{}
	}
	env := ResponseEnvelope{
		Context: context,
		Event: Event{
			Header: Header{
				Namespace:        namespace,
				Name:             name,
				MessageID:        uuid.NewString(),
				PayloadVersion:   InterfaceVersion,
				CorrelationToken: d.Header.CorrelationToken,
			},
			Payload: payload,
		},
	}
	if d.Endpoint != nil {
		ref := *d.Endpoint
		env.Event.Endpoint = &ref
	}
	return env
}

// NewResponse builds the standard Alexa/Response envelope carrying the given
// property readings in its context block.
func NewResponse(d *Directive, properties []Property) ResponseEnvelope {
	var context *Context
	if properties != nil {
		context = &Context{Properties: properties}
	}
	return NewMessage(d, InterfaceAlexa, EventResponse, nil, context)
}

// NewErrorResponse builds an Alexa/ErrorResponse envelope. Messages are
// generic by design of the caller; internal detail belongs in logs.
func NewErrorResponse(d *Directive, errorType, message string) ResponseEnvelope {
	return NewMessage(d, InterfaceAlexa, EventErrorResponse, ErrorPayload{Type: errorType, Message: message}, nil)
}
