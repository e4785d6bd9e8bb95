// Package presentation maps metric values onto colors and node sizes for
// rendering. Colors and sizes are always derived from the min and max of the
// current result set.
package presentation

import (
	"fmt"
	"math"
)

// PaletteSize is the number of color bins.
const PaletteSize = 6

// Palette is an ordered list of hex colors from lowest to highest bin.
type Palette []string

// Palettes sampled at six evenly spaced points.
var (
	Paired  = Palette{"#a6cee3", "#b2df8a", "#fb9a99", "#ff7f00", "#6a3d9a", "#b15928"}
	Viridis = Palette{"#440154", "#414487", "#2a788e", "#22a884", "#7ad151", "#fde725"}
	Blues   = Palette{"#f7fbff", "#d0e1f2", "#94c4df", "#4a98c9", "#1764ab", "#08306b"}
)

// SizeRange is the interval node sizes are interpolated into.
type SizeRange struct {
	Min, Max float64
}

// Size ranges per metric family.
var (
	DegreeSizes = SizeRange{Min: 600, Max: 5000}
	MetricSizes = SizeRange{Min: 1000, Max: 6000}
)

// Bounds returns the smallest and largest of values, or zeros when empty.
func Bounds(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}

	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	return lo, hi
}

// MapToColor returns the bin of value among bins equal-width bins over
// [lo, hi]. A degenerate range puts every value in bin 0.
func MapToColor(value, lo, hi float64, bins int) int {
	if bins <= 1 || hi <= lo {
		return 0
	}

	bin := int(math.Floor((value - lo) / (hi - lo) * float64(bins)))

	return min(max(bin, 0), bins-1)
}

// Color returns the palette color for value over [lo, hi].
func (p Palette) Color(value, lo, hi float64) string {
	return p[MapToColor(value, lo, hi, len(p))]
}

// MapToSize interpolates value from [lo, hi] into [outMin, outMax], clamped.
// A degenerate range yields outMin.
func MapToSize(value, lo, hi, outMin, outMax float64) float64 {
	if hi <= lo {
		return outMin
	}

	size := outMin + (value-lo)/(hi-lo)*(outMax-outMin)

	return math.Min(math.Max(size, outMin), outMax)
}

// Size interpolates value from [lo, hi] into r.
func (r SizeRange) Size(value, lo, hi float64) float64 {
	return MapToSize(value, lo, hi, r.Min, r.Max)
}

// Style is the color and size of one node.
type Style struct {
	Color string
	Size  float64
}

// Styles colors and sizes every value against the range of values.
func Styles(values []float64, p Palette, r SizeRange) []Style {
	lo, hi := Bounds(values)

	out := make([]Style, len(values))
	for i, v := range values {
		out[i] = Style{Color: p.Color(v, lo, hi), Size: r.Size(v, lo, hi)}
	}

	return out
}

// HSVColors returns n colors spaced evenly around the hue circle at full
// saturation and value.
func HSVColors(n int) []string {
	out := make([]string, n)
	for i := range out {
		r, g, b := hsvToRGB(float64(i)/float64(n), 1, 1)
		out[i] = fmt.Sprintf("#%02x%02x%02x", int(r*255), int(g*255), int(b*255))
	}

	return out
}

func hsvToRGB(h, s, v float64) (r, g, b float64) {
	if s == 0 {
		return v, v, v
	}

	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	switch i % 6 {
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

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
