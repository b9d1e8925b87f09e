package alexa

import (
	"context"
	"errors"
)

// Generic messages sent to the voice service. Internal failure detail stays
// in logs.
const (
	errorMessageGeneric     = "Unknown error"
	errorMessageUnreachable = "Unable to reach the device"
)

// Backend resolves directives against a live home-automation system.
// Implemented by the domoticz package.
type Backend interface {
	// GetEndpoint resolves the directive's endpoint reference to an endpoint
	// with its backend device bound.
	GetEndpoint(ctx context.Context, d *Directive) (*Endpoint, error)

	// GetEndpoints enumerates every known endpoint for discovery, refreshing
	// backend device state wholesale. Backend outages yield an empty slice,
	// not an error.
	GetEndpoints(ctx context.Context) ([]*Endpoint, error)
}

// Logger is the logging interface the router uses. Satisfied by
// *logging.Logger and by *slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// HandlerFunc processes one directive and either returns a complete protocol
// response or an error for the router to translate.
type HandlerFunc func(ctx context.Context, b Backend, d *Directive) (ResponseEnvelope, error)

// directiveKey addresses one handler in the dispatch table.
type directiveKey struct {
	namespace string
	name      string
}

// Router dispatches directives by (namespace, directive name). The dispatch
// table is fixed at construction; Route itself never fails, every internal
// error surfaces as a protocol ErrorResponse.
type Router struct {
	backend  Backend
	logger   Logger
	handlers map[directiveKey]HandlerFunc
}

// NewRouter builds a router with the full dispatch table over the given
// backend.
func NewRouter(backend Backend) *Router {
	return &Router{
		backend: backend,
		logger:  nopLogger{},
		handlers: map[directiveKey]HandlerFunc{
			{InterfaceDiscovery, "Discover"}:                             handleDiscover,
			{InterfacePowerController, "TurnOn"}:                         handleTurnOn,
			{InterfacePowerController, "TurnOff"}:                        handleTurnOff,
			{InterfaceBrightnessController, "SetBrightness"}:             handleSetBrightness,
			{InterfaceBrightnessController, "AdjustBrightness"}:          handleAdjustBrightness,
			{InterfaceColorController, "SetColor"}:                       handleSetColor,
			{InterfaceColorTemperatureController, "SetColorTemperature"}: handleSetColorTemperature,
			{InterfacePercentageController, "SetPercentage"}:             handleSetPercentage,
			{InterfaceLockController, "Lock"}:                            handleLock,
			{InterfaceLockController, "Unlock"}:                          handleUnlock,
			{InterfaceSceneController, "Activate"}:                       handleActivateScene,
			{InterfaceSceneController, "Deactivate"}:                     handleDeactivateScene,
			{InterfaceThermostatController, "SetTargetTemperature"}:      handleSetTargetTemperature,
			{InterfaceThermostatController, "SetThermostatMode"}:         handleSetThermostatMode,
			{InterfaceAlexa, "ReportState"}:                              handleReportState,
		},
	}
}

// SetLogger installs a logger. Without one the router stays silent.
func (r *Router) SetLogger(l Logger) {
	if l != nil {
		r.logger = l
	}
}

// Route dispatches one directive envelope and always produces a protocol
// response. Routing misses, handler errors, and handler panics all become
// ErrorResponse envelopes with a generic message; only a ReportState
// resolution failure is distinguished as ENDPOINT_UNREACHABLE.
func (r *Router) Route(ctx context.Context, env *DirectiveEnvelope) (resp ResponseEnvelope) {
	d := &env.Directive

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("panic while handling directive",
				"namespace", d.Header.Namespace,
				"name", d.Header.Name,
				"panic", rec)
			resp = NewErrorResponse(d, ErrorTypeInternal, errorMessageGeneric)
		}
	}()

	h, ok := r.handlers[directiveKey{d.Header.Namespace, d.Header.Name}]
	if !ok {
		r.logger.Error("no handler for directive",
			"namespace", d.Header.Namespace,
			"name", d.Header.Name)
		return NewErrorResponse(d, ErrorTypeInternal, errorMessageGeneric)
	}

	out, err := h(ctx, r.backend, d)
	if err != nil {
		if errors.Is(err, ErrEndpointUnreachable) {
			r.logger.Warn("endpoint unreachable",
				"namespace", d.Header.Namespace,
				"name", d.Header.Name)
			return NewErrorResponse(d, ErrorTypeEndpointUnreachable, errorMessageUnreachable)
		}
		r.logger.Error("directive failed",
			"namespace", d.Header.Namespace,
			"name", d.Header.Name,
			"error", err)
		return NewErrorResponse(d, ErrorTypeInternal, errorMessageGeneric)
	}

	r.logger.Debug("directive handled",
		"namespace", d.Header.Namespace,
		"name", d.Header.Name,
		"event", out.Event.Header.Name)
	return out
}
