package domoticz

import (
	"encoding/json"
	"regexp"
	"strings"
)

// alexaNamePattern matches the discovery name override that users place in
// a device's Domoticz description field, e.g. "Alexa_Name: Kitchen Spots".
var alexaNamePattern = regexp.MustCompile(`(?i)Alexa_Name:\s*([^\n\r]*)`)

// Device is a raw Domoticz device or scene record as returned by the JSON
// API. Only the fields the bridge consumes are decoded.
type Device struct {
	Idx         json.Number `json:"idx"`
	Name        string      `json:"Name"`
	Type        string      `json:"Type"`
	SubType     string      `json:"SubType"`
	Status      string      `json:"Status"`
	Level       int         `json:"Level"`
	LevelInt    int         `json:"LevelInt"`
	LevelNames  string      `json:"LevelNames"`
	Color       string      `json:"Color"`
	Temp        *float64    `json:"Temp"`
	SetPoint    json.Number `json:"SetPoint"`
	Description string      `json:"Description"`
}

// AlexaName returns the name the device is discovered under: the
// Alexa_Name override from the description when present, the device name
// otherwise, and a generic fallback when both are empty.
func (d Device) AlexaName() string {
	if m := alexaNamePattern.FindStringSubmatch(d.Description); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			return name
		}
	}
	if d.Name != "" {
		return d.Name
	}
	return "Device " + d.Idx.String()
}

// LevelNamesList splits the pipe-delimited selector level names. Empty for
// devices without selector levels.
func (d Device) LevelNamesList() []string {
	if d.LevelNames == "" {
		return nil
	}
	return strings.Split(d.LevelNames, "|")
}

// levelInt returns the selector level step, defaulting to the Domoticz
// standard step of 10 when the record does not carry one.
func (d Device) levelInt() int {
	if d.LevelInt <= 0 {
		return 10
	}
	return d.LevelInt
}

// deviceColor is the JSON color blob stored in a device's Color field.
type deviceColor struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// parseColor decodes the Color field. ok is false when the field is empty
// or malformed.
func (d Device) parseColor() (deviceColor, bool) {
	if d.Color == "" {
		return deviceColor{}, false
	}
	var c deviceColor
	if err := json.Unmarshal([]byte(d.Color), &c); err != nil {
		return deviceColor{}, false
	}
	return c, true
}

// IsColorCapable reports whether the device should be offered color and
// color temperature control.
func (d Device) IsColorCapable() bool {
	return strings.Contains(d.SubType, "RGB") || strings.Contains(d.Type, "Color")
}
