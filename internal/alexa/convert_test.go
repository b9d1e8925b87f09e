package alexa

import "testing"

func TestClampPercent(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"below range", -10, 0},
		{"lower bound", 0, 0},
		{"mid range", 55, 55},
		{"upper bound", 100, 100},
		{"above range", 150, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampPercent(tt.in); got != tt.want {
				t.Errorf("ClampPercent(%d) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestToCelsius(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		scale string
		want  float64
	}{
		{"fahrenheit freezing", 32, ScaleFahrenheit, 0},
		{"fahrenheit room", 68, ScaleFahrenheit, 20},
		{"kelvin zero", 273.15, ScaleKelvin, 0},
		{"kelvin room", 293.15, ScaleKelvin, 20},
		{"celsius passthrough", 21.5, ScaleCelsius, 21.5},
		{"unknown scale passthrough", 21.5, "GIBBERISH", 21.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToCelsius(tt.value, tt.scale)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("ToCelsius(%v, %s) = %v, want %v", tt.value, tt.scale, got, tt.want)
			}
		})
	}
}

func TestIntValue(t *testing.T) {
	if v, ok := intValue(42); !ok || v != 42 {
		t.Errorf("intValue(int) = %d, %v", v, ok)
	}
	if v, ok := intValue(42.9); !ok || v != 42 {
		t.Errorf("intValue(float64) = %d, %v", v, ok)
	}
	if _, ok := intValue("42"); ok {
		t.Error("intValue(string) ok = true, want false")
	}
}
