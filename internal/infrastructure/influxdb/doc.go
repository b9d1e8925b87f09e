// Package influxdb provides time-series telemetry storage for Domovoice.
//
// It wraps the InfluxDB v2 Go client with connection management, batched
// non-blocking writes, and helpers for the bridge's two measurements:
// per-directive handling metrics and discovery endpoint counts.
//
// The integration is optional and disabled by default; Connect returns
// ErrDisabled when the config leaves it off and the API server simply skips
// telemetry in that case.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    if errors.Is(err, influxdb.ErrDisabled) {
//	        // run without telemetry
//	    }
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteDirectiveMetric("Alexa.PowerController", "TurnOn", "Response", 12.5)
//
// Writes are buffered and flushed on an interval (both configurable);
// asynchronous write failures are delivered to the SetOnError callback.
package influxdb
