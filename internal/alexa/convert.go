package alexa

// ClampPercent bounds a percentage value to [0, 100].
func ClampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ToCelsius normalizes a temperature value to degrees Celsius. Unknown
// scales are treated as already Celsius.
func ToCelsius(value float64, scale string) float64 {
	switch scale {
	case ScaleFahrenheit:
		return (value - 32) / 1.8
	case ScaleKelvin:
		return value - 273.15
	default:
		return value
	}
}

// intValue coerces a property value produced by a backend into an int.
// JSON decoding yields float64 for numbers, backends may hand over ints.
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
