// Package alexa implements the Alexa Smart Home v3 directive dispatch and
// capability/property translation engine.
//
// The package is backend-agnostic: it models endpoints, capabilities, and
// property readings, routes inbound directives to handlers, and builds
// protocol response envelopes. Live device data and command execution are
// supplied by a Backend implementation (see the domoticz package).
//
// # Key Types
//
//   - Capability: a named controllable/reportable aspect (Alexa.PowerController, ...)
//   - Endpoint: an addressable device exposing an ordered set of capabilities
//   - Property: one timestamped state reading for one capability property
//   - Router: maps (namespace, directive name) pairs to handler functions
//   - Backend: the contract a home-automation backend adapter must satisfy
//
// # Error Boundary
//
// Route never returns an error. Any failure inside a handler — routing miss,
// backend failure, panic — is translated into a protocol ErrorResponse
// envelope with a generic message. Internal detail is logged, never sent to
// the voice service. The single exception is ReportState, which reports
// ENDPOINT_UNREACHABLE when the backing device data cannot be resolved.
//
// # Usage
//
//	backend := domoticz.NewHandler(cfg, client)
//	router := alexa.NewRouter(backend)
//	router.SetLogger(log)
//
//	resp := router.Route(ctx, &envelope)
package alexa
