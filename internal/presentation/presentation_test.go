package presentation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/persistorai/netgraph/internal/presentation"
)

func TestMapToColor(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  int
	}{
		{name: "minimum", value: 0, want: 0},
		{name: "just below second bin", value: 1.66, want: 0},
		{name: "second bin", value: 1.67, want: 1},
		{name: "middle", value: 5, want: 3},
		{name: "maximum clipped to last bin", value: 10, want: 5},
		{name: "below range clipped", value: -3, want: 0},
		{name: "above range clipped", value: 42, want: 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, presentation.MapToColor(tc.value, 0, 10, presentation.PaletteSize))
		})
	}
}

func TestMapToColor_DegenerateRange(t *testing.T) {
	assert.Equal(t, 0, presentation.MapToColor(3, 3, 3, presentation.PaletteSize))
	assert.Equal(t, presentation.Viridis[0], presentation.Viridis.Color(7, 7, 7))
}

func TestMapToSize(t *testing.T) {
	assert.InDelta(t, 600.0, presentation.MapToSize(0, 0, 4, 600, 5000), 1e-9)
	assert.InDelta(t, 2800.0, presentation.MapToSize(2, 0, 4, 600, 5000), 1e-9)
	assert.InDelta(t, 5000.0, presentation.MapToSize(4, 0, 4, 600, 5000), 1e-9)
	assert.InDelta(t, 5000.0, presentation.MapToSize(4.0000001, 0, 4, 600, 5000), 1e-9)
	assert.InDelta(t, 1000.0, presentation.MapToSize(9, 9, 9, 1000, 6000), 1e-9)
}

func TestStyles(t *testing.T) {
	styles := presentation.Styles([]float64{1, 1, 0}, presentation.Paired, presentation.DegreeSizes)

	assert.Equal(t, []presentation.Style{
		{Color: "#b15928", Size: 5000},
		{Color: "#b15928", Size: 5000},
		{Color: "#a6cee3", Size: 600},
	}, styles)
}

func TestStyles_AllEqual(t *testing.T) {
	styles := presentation.Styles([]float64{2, 2}, presentation.Viridis, presentation.MetricSizes)

	for _, s := range styles {
		assert.Equal(t, "#440154", s.Color)
		assert.InDelta(t, 1000.0, s.Size, 1e-9)
	}
}

func TestPalettesHaveSixColors(t *testing.T) {
	for _, p := range []presentation.Palette{presentation.Paired, presentation.Viridis, presentation.Blues} {
		assert.Len(t, p, presentation.PaletteSize)
	}
}

func TestHSVColors(t *testing.T) {
	assert.Equal(t, []string{"#ff0000", "#00ff00", "#0000ff"}, presentation.HSVColors(3))
	assert.Empty(t, presentation.HSVColors(0))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.123457, presentation.Round(0.1234567, 6))
	assert.Equal(t, 2.0, presentation.Round(2, 6))
}
