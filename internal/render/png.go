package render

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"regexp"

	"github.com/fogleman/gg"

	"foodgraph/kg/internal/graph"
)

// Options controls the raster surface.
type Options struct {
	Width      int
	Height     int
	FontPath   string  // TTF face; empty uses the built-in bitmap face
	FontSize   float64 // points, only used with FontPath
	LabelLimit int     // label every node up to this many nodes
}

// DefaultOptions returns a 1200x800 canvas.
func DefaultOptions() Options {
	return Options{Width: 1200, Height: 800, FontSize: 12, LabelLimit: 40}
}

const (
	marginTop    = 48.0
	marginBottom = 28.0
	marginSide   = 24.0
	colorbarW    = 15.0
	colorbarGap  = 70.0
)

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// PNG rasterises fig and writes it as PNG.
func PNG(w io.Writer, fig *graph.Figure, opts Options) error {
	dc, err := Draw(fig, opts)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

// Draw paints fig onto a new canvas.
func Draw(fig *graph.Figure, opts Options) (*gg.Context, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", opts.Width, opts.Height)
	}
	nodes := fig.Nodes()
	if nodes != nil && !HasColorScale(nodes.ColorScale) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColorScale, nodes.ColorScale)
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	if opts.FontPath != "" {
		size := opts.FontSize
		if size <= 0 {
			size = 12
		}
		if err := dc.LoadFontFace(opts.FontPath, size); err != nil {
			return nil, fmt.Errorf("loading font: %w", err)
		}
	}

	dc.SetColor(color.White)
	dc.Clear()

	plot := newViewport(fig, float64(opts.Width), float64(opts.Height))

	if edges := fig.Edges(); edges != nil {
		drawEdges(dc, plot, edges)
	}
	if nodes != nil && len(nodes.Labels) > 0 {
		if err := drawNodes(dc, plot, nodes, opts.LabelLimit); err != nil {
			return nil, err
		}
		if err := drawColorbar(dc, nodes, float64(opts.Width), float64(opts.Height)); err != nil {
			return nil, err
		}
	}

	dc.SetColor(color.Black)
	if fig.Title != "" {
		dc.DrawStringAnchored(fig.Title, float64(opts.Width)/2, marginTop/2, 0.5, 0.5)
	}
	for _, a := range fig.Annotations {
		x := marginSide + a.X*float64(opts.Width)
		y := float64(opts.Height) - marginBottom/2 - a.Y*float64(opts.Height)
		dc.DrawStringAnchored(htmlTag.ReplaceAllString(a.Text, ""), x, y, 0, 0.5)
	}
	return dc, nil
}

// viewport maps layout coordinates onto canvas pixels, flipping y.
type viewport struct {
	minX, minY, scale float64
	offX, offY        float64
}

func newViewport(fig *graph.Figure, w, h float64) viewport {
	minX, minY, maxX, maxY := -1.0, -1.0, 1.0, 1.0
	if n := fig.Nodes(); n != nil && len(n.X) > 0 {
		minX, maxX = n.X[0], n.X[0]
		minY, maxY = n.Y[0], n.Y[0]
		for i := range n.X {
			minX, maxX = math.Min(minX, n.X[i]), math.Max(maxX, n.X[i])
			minY, maxY = math.Min(minY, n.Y[i]), math.Max(maxY, n.Y[i])
		}
	}
	spanX := math.Max(maxX-minX, 1e-9)
	spanY := math.Max(maxY-minY, 1e-9)

	// leave room for the largest markers and the colorbar
	pad := 30.0
	availW := w - 2*marginSide - colorbarGap - 2*pad
	availH := h - marginTop - marginBottom - 2*pad
	scale := math.Min(availW/spanX, availH/spanY)

	return viewport{
		minX:  minX,
		minY:  minY,
		scale: scale,
		offX:  marginSide + pad + (availW-spanX*scale)/2,
		offY:  marginTop + pad + (availH-spanY*scale)/2 + spanY*scale,
	}
}

func (v viewport) at(x, y float64) (float64, float64) {
	return v.offX + (x-v.minX)*v.scale, v.offY - (y-v.minY)*v.scale
}

func drawEdges(dc *gg.Context, v viewport, edges *graph.EdgeLayer) {
	dc.SetHexColor(edges.Color)
	dc.SetLineWidth(edges.Width)
	open := false
	for i := range edges.X {
		if edges.X[i] == nil || edges.Y[i] == nil {
			open = false
			continue
		}
		x, y := v.at(*edges.X[i], *edges.Y[i])
		if open {
			dc.LineTo(x, y)
		} else {
			dc.MoveTo(x, y)
			open = true
		}
	}
	dc.Stroke()
}

func degreeRange(degrees []int) (lo, hi int) {
	lo, hi = degrees[0], degrees[0]
	for _, d := range degrees[1:] {
		lo, hi = min(lo, d), max(hi, d)
	}
	return lo, hi
}

func degreeColor(scale string, d, lo, hi int) (color.RGBA, error) {
	t := 0.0
	if hi > lo {
		t = float64(d-lo) / float64(hi-lo)
	}
	return ColorAt(scale, t)
}

func drawNodes(dc *gg.Context, v viewport, nodes *graph.NodeLayer, labelLimit int) error {
	lo, hi := degreeRange(nodes.Degree)
	minSize := nodes.Size[0]
	for _, s := range nodes.Size {
		minSize = math.Min(minSize, s)
	}

	for i := range nodes.Labels {
		x, y := v.at(nodes.X[i], nodes.Y[i])
		c, err := degreeColor(nodes.ColorScale, nodes.Degree[i], lo, hi)
		if err != nil {
			return err
		}
		r := nodes.Size[i] / 2
		dc.DrawCircle(x, y, r)
		dc.SetColor(color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(255 * nodes.Opacity)})
		dc.FillPreserve()
		dc.SetColor(color.Gray{Y: 120})
		dc.SetLineWidth(nodes.LineWidth)
		dc.Stroke()
	}

	dc.SetColor(color.Black)
	for i, label := range nodes.Labels {
		if len(nodes.Labels) > labelLimit && nodes.Size[i] <= minSize {
			continue
		}
		x, y := v.at(nodes.X[i], nodes.Y[i])
		dc.DrawStringAnchored(label, x, y-nodes.Size[i]/2-4, 0.5, 0)
	}
	return nil
}

func drawColorbar(dc *gg.Context, nodes *graph.NodeLayer, w, h float64) error {
	lo, hi := degreeRange(nodes.Degree)
	x := w - marginSide - colorbarW - 40
	top := marginTop + 20
	bottom := h - marginBottom - 20
	steps := int(bottom - top)
	for s := 0; s < steps; s++ {
		c, err := ColorAt(nodes.ColorScale, 1-float64(s)/float64(steps))
		if err != nil {
			return err
		}
		dc.SetColor(c)
		dc.DrawRectangle(x, top+float64(s), colorbarW, 1)
		dc.Fill()
	}
	dc.SetColor(color.Black)
	dc.DrawStringAnchored(fmt.Sprint(hi), x+colorbarW+4, top, 0, 0.5)
	dc.DrawStringAnchored(fmt.Sprint(lo), x+colorbarW+4, bottom, 0, 0.5)
	dc.DrawStringAnchored(nodes.ColorbarTitle, x+colorbarW/2, top-10, 0.5, 0)
	return nil
}
