package render

import (
	"errors"
	"image/color"
	"sort"
	"strings"
)

// ErrUnknownColorScale is returned for a colorscale name with no stops.
var ErrUnknownColorScale = errors.New("unknown colorscale")

type stop struct {
	at    float64
	color color.RGBA
}

func rgb(r, g, b uint8) color.RGBA { return color.RGBA{r, g, b, 255} }

// colorScales mirrors the plotly.js built-in scales the figure can name.
var colorScales = map[string][]stop{
	"picnic": {
		{0, rgb(0, 0, 255)}, {0.1, rgb(51, 153, 255)}, {0.2, rgb(102, 204, 255)},
		{0.3, rgb(153, 204, 255)}, {0.4, rgb(204, 204, 255)}, {0.5, rgb(255, 255, 255)},
		{0.6, rgb(255, 204, 255)}, {0.7, rgb(255, 153, 255)}, {0.8, rgb(255, 102, 204)},
		{0.9, rgb(255, 102, 102)}, {1, rgb(255, 0, 0)},
	},
	"rdbu": {
		{0, rgb(5, 10, 172)}, {0.35, rgb(106, 137, 247)}, {0.5, rgb(190, 190, 190)},
		{0.6, rgb(220, 170, 132)}, {0.7, rgb(230, 145, 90)}, {1, rgb(178, 10, 28)},
	},
	"portland": {
		{0, rgb(12, 51, 131)}, {0.25, rgb(10, 136, 186)}, {0.5, rgb(242, 211, 56)},
		{0.75, rgb(242, 143, 56)}, {1, rgb(217, 30, 30)},
	},
	"ylgnbu": {
		{0, rgb(8, 29, 88)}, {0.125, rgb(37, 52, 148)}, {0.25, rgb(34, 94, 168)},
		{0.375, rgb(29, 145, 192)}, {0.5, rgb(65, 182, 196)}, {0.625, rgb(127, 205, 187)},
		{0.75, rgb(199, 233, 180)}, {0.875, rgb(237, 248, 217)}, {1, rgb(255, 255, 217)},
	},
	"viridis": {
		{0, rgb(68, 1, 84)}, {0.11, rgb(72, 40, 120)}, {0.22, rgb(62, 73, 137)},
		{0.33, rgb(49, 104, 142)}, {0.44, rgb(38, 130, 142)}, {0.55, rgb(31, 158, 137)},
		{0.66, rgb(53, 183, 121)}, {0.77, rgb(110, 206, 88)}, {0.88, rgb(181, 222, 43)},
		{1, rgb(253, 231, 37)},
	},
	"bluered": {{0, rgb(0, 0, 255)}, {1, rgb(255, 0, 0)}},
	"greys":   {{0, rgb(0, 0, 0)}, {1, rgb(255, 255, 255)}},
}

// HasColorScale reports whether name is a known colorscale (case-insensitive).
func HasColorScale(name string) bool {
	_, ok := colorScales[strings.ToLower(name)]
	return ok
}

// ColorScales returns the known colorscale names.
func ColorScales() []string {
	names := make([]string, 0, len(colorScales))
	for n := range colorScales {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ColorAt interpolates the named scale at t, clamped to [0, 1].
func ColorAt(name string, t float64) (color.RGBA, error) {
	stops, ok := colorScales[strings.ToLower(name)]
	if !ok {
		return color.RGBA{}, ErrUnknownColorScale
	}
	t = max(0, min(1, t))
	for i := 1; i < len(stops); i++ {
		lo, hi := stops[i-1], stops[i]
		if t > hi.at {
			continue
		}
		f := (t - lo.at) / (hi.at - lo.at)
		return color.RGBA{
			R: lerp(lo.color.R, hi.color.R, f),
			G: lerp(lo.color.G, hi.color.G, f),
			B: lerp(lo.color.B, hi.color.B, f),
			A: 255,
		}, nil
	}
	return stops[len(stops)-1].color, nil
}

func lerp(a, b uint8, f float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*f + 0.5)
}
