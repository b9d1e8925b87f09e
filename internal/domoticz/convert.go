package domoticz

import "math"

// rgbToHSV converts 8-bit RGB channels to hue, saturation, value, each in
// [0, 1].
func rgbToHSV(r, g, b int) (h, s, v float64) {
	rf := float64(r) / 255.0
	gf := float64(g) / 255.0
	bf := float64(b) / 255.0

	maxc := math.Max(rf, math.Max(gf, bf))
	minc := math.Min(rf, math.Min(gf, bf))
	v = maxc
	if maxc == minc {
		return 0, 0, v
	}
	s = (maxc - minc) / maxc

	rc := (maxc - rf) / (maxc - minc)
	gc := (maxc - gf) / (maxc - minc)
	bc := (maxc - bf) / (maxc - minc)
	switch maxc {
	case rf:
		h = bc - gc
	case gf:
		h = 2.0 + rc - bc
	default:
		h = 4.0 + gc - rc
	}
	h = math.Mod(h/6.0, 1.0)
	if h < 0 {
		h += 1.0
	}
	return h, s, v
}

// hsvToRGB converts hue, saturation, value in [0, 1] to 8-bit RGB channels.
func hsvToRGB(h, s, v float64) (r, g, b int) {
	to8 := func(f float64) int { return int(f * 255) }
	if s == 0 {
		return to8(v), to8(v), to8(v)
	}
	i := int(h * 6.0)
	f := h*6.0 - float64(i)
	p := v * (1.0 - s)
	q := v * (1.0 - s*f)
	t := v * (1.0 - s*(1.0-f))
	// Sextant selection must wrap non-negatively for hues outside [0, 1).
	switch ((i % 6) + 6) % 6 {
	case 0:
		return to8(v), to8(t), to8(p)
	case 1:
		return to8(q), to8(v), to8(p)
	case 2:
		return to8(p), to8(v), to8(t)
	case 3:
		return to8(p), to8(q), to8(v)
	case 4:
		return to8(t), to8(p), to8(v)
	default:
		return to8(v), to8(p), to8(q)
	}
}

// Color temperature bounds the bridge maps onto the Domoticz 0-100 white
// level.
const (
	kelvinMin = 2000
	kelvinMax = 6500
)

// kelvinToLevel maps a color temperature in Kelvin to a Domoticz white
// level, clamped to [0, 100].
func kelvinToLevel(kelvin int) int {
	level := (kelvin - kelvinMin) * 100 / (kelvinMax - kelvinMin)
	if level < 0 {
		return 0
	}
	if level > 100 {
		return 100
	}
	return level
}
