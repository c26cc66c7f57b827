package material

import (
	"fmt"
	"math"
	"sort"
)

// RampResolution is the number of evenly spaced samples exported per ramp.
const RampResolution = 100

// Colour spaces a ramp can be defined in.
const (
	ColorModeRGB = "RGB"
	ColorModeHSV = "HSV"
	ColorModeHSL = "HSL"
)

// RampStop is a ramp element. Color is in the ramp's colour space plus alpha;
// HSL stops are ordered hue, saturation, lightness.
type RampStop struct {
	Position float32    `yaml:"position"`
	Color    [4]float32 `yaml:"color"`
}

// Ramp is a piecewise linear colour ramp.
type Ramp struct {
	ColorMode string     `yaml:"color_mode"`
	Stops     []RampStop `yaml:"stops"`
}

// Evaluate returns the colour at pos in the ramp's colour space. Positions
// outside the stops clamp to the nearest stop.
func (r *Ramp) Evaluate(pos float32) [4]float32 {
	stops := r.sortedStops()
	return evaluate(stops, pos)
}

// Sample evaluates the ramp at step/resolution for every step and returns
// RGBA colours.
func (r *Ramp) Sample(resolution int) ([][4]float32, error) {
	var convert func(a, b, c float64) (float64, float64, float64)
	switch r.ColorMode {
	case ColorModeRGB, "":
	case ColorModeHSV:
		convert = hsvToRGB
	case ColorModeHSL:
		convert = func(h, s, l float64) (float64, float64, float64) { return hlsToRGB(h, l, s) }
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidColorMode, r.ColorMode)
	}

	stops := r.sortedStops()
	points := make([][4]float32, resolution)
	for step := range points {
		c := evaluate(stops, float32(step)/float32(resolution))
		if convert != nil {
			cr, cg, cb := convert(float64(c[0]), float64(c[1]), float64(c[2]))
			c = [4]float32{float32(cr), float32(cg), float32(cb), c[3]}
		}
		points[step] = c
	}
	return points, nil
}

func (r *Ramp) sortedStops() []RampStop {
	stops := append([]RampStop(nil), r.Stops...)
	sort.SliceStable(stops, func(i, j int) bool {
		return stops[i].Position < stops[j].Position
	})
	return stops
}

func evaluate(stops []RampStop, pos float32) [4]float32 {
	switch {
	case len(stops) == 0:
		return [4]float32{}
	case pos <= stops[0].Position:
		return stops[0].Color
	case pos >= stops[len(stops)-1].Position:
		return stops[len(stops)-1].Color
	}

	i := sort.Search(len(stops), func(i int) bool { return stops[i].Position > pos })
	a, b := stops[i-1], stops[i]
	t := (pos - a.Position) / (b.Position - a.Position)
	var out [4]float32
	for k := range out {
		out[k] = a.Color[k] + (b.Color[k]-a.Color[k])*t
	}
	return out
}

func hsvToRGB(h, s, v float64) (float64, float64, float64) {
	if s == 0 {
		return v, v, v
	}
	i := math.Floor(h * 6)
	f := h*6 - i
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))
	switch int(i) % 6 {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}

func hlsToRGB(h, l, s float64) (float64, float64, float64) {
	if s == 0 {
		return l, l, l
	}
	var m2 float64
	if l <= 0.5 {
		m2 = l * (1 + s)
	} else {
		m2 = l + s - l*s
	}
	m1 := 2*l - m2
	return hueChannel(m1, m2, h+1.0/3), hueChannel(m1, m2, h), hueChannel(m1, m2, h-1.0/3)
}

func hueChannel(m1, m2, hue float64) float64 {
	hue = hue - math.Floor(hue)
	switch {
	case hue < 1.0/6:
		return m1 + (m2-m1)*hue*6
	case hue < 0.5:
		return m2
	case hue < 2.0/3:
		return m1 + (m2-m1)*(2.0/3-hue)*6
	default:
		return m1
	}
}
