package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteDirectiveMetric records the handling of one voice directive.
//
// This is the primary telemetry method: every routed directive produces one
// point carrying its namespace, name, and outcome (the response event name)
// plus the handling duration. The write is non-blocking; data is batched
// and sent asynchronously.
//
// Example:
//
//	client.WriteDirectiveMetric("Alexa.PowerController", "TurnOn", "Response", 12.5)
func (c *Client) WriteDirectiveMetric(namespace, name, outcome string, durationMs float64) {
	c.WritePoint(
		"directives",
		map[string]string{
			"namespace": namespace,
			"name":      name,
			"outcome":   outcome,
		},
		map[string]interface{}{
			"duration_ms": durationMs,
		},
	)
}

// WriteDiscoveryMetric records the endpoint count of a discovery response.
//
// Useful for spotting devices dropping out of enumeration over time.
func (c *Client) WriteDiscoveryMetric(endpointCount int) {
	c.WritePoint(
		"discovery",
		nil,
		map[string]interface{}{
			"endpoints": endpointCount,
		},
	)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	c.WritePointWithTime(measurement, tags, fields, time.Now())
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
