package mqtt

import "fmt"

// Topic prefixes for the Domovoice MQTT hierarchy.
//
// All topics use the flat scheme: domovoice/{category}/{id}
const (
	// TopicPrefix is the base for all Domovoice topics.
	TopicPrefix = "domovoice"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "domovoice/system"
)

// Topics provides builders for Domovoice MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	eventTopic := topics.EndpointEvent("SwitchLight-12")
//	// Returns: "domovoice/event/SwitchLight-12"
type Topics struct{}

// EndpointEvent returns the change-report topic for one endpoint. The
// bridge publishes the properties reported after a successful
// state-mutating directive here.
//
// Example: domovoice/event/SwitchLight-12
func (Topics) EndpointEvent(endpointID string) string {
	return fmt.Sprintf("%s/event/%s", TopicPrefix, endpointID)
}

// Discovery returns the topic carrying the endpoint count of the last
// discovery response.
//
// Example: domovoice/discovery
func (Topics) Discovery() string {
	return fmt.Sprintf("%s/discovery", TopicPrefix)
}

// SystemStatus returns the system status topic used for online/offline
// announcements and the LWT.
//
// Example: domovoice/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllEndpointEvents returns a pattern matching every endpoint change
// report.
//
// Pattern: domovoice/event/+
func (Topics) AllEndpointEvents() string {
	return fmt.Sprintf("%s/event/+", TopicPrefix)
}

// AllTopics returns a pattern matching all Domovoice topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: domovoice/#
func (Topics) AllTopics() string {
	return "domovoice/#"
}
