package graph

import (
	"fmt"
	"strconv"
)

// Options holds the tunables of the figure builder.
type Options struct {
	Threshold     float64       `yaml:"threshold" json:"threshold"`
	HighlightSize float64       `yaml:"highlight_size" json:"highlight_size"`
	DefaultSize   float64       `yaml:"default_size" json:"default_size"`
	ColorScale    string        `yaml:"colorscale" json:"colorscale"`
	EdgeColor     string        `yaml:"edge_color" json:"edge_color"`
	Title         string        `yaml:"title" json:"title"`
	Attribution   string        `yaml:"attribution" json:"attribution"`
	Layout        LayoutOptions `yaml:"layout" json:"layout"`
}

// DefaultOptions returns the stock figure settings.
func DefaultOptions() Options {
	return Options{
		Threshold:     0.55,
		HighlightSize: 50,
		DefaultSize:   15,
		ColorScale:    "Picnic",
		EdgeColor:     "#888888",
		Title:         "Knowledge Graph of Recipe Ingredients",
		Attribution:   "Created By: <a href='https://github.com/gborn'> Glad Nayak</a>",
		Layout:        LayoutOptions{Iterations: 50},
	}
}

// LayerKind tags a figure layer.
type LayerKind string

const (
	LayerEdges      LayerKind = "edges"
	LayerNodes      LayerKind = "nodes"
	LayerEdgeLabels LayerKind = "edge_labels"
)

// Layer is one visual layer of a Figure: *EdgeLayer, *NodeLayer or *EdgeLabelLayer.
type Layer interface {
	Kind() LayerKind
}

// EdgeLayer draws every edge as a segment. X and Y hold start, end and a nil
// gap per edge so a polyline renders disconnected segments.
type EdgeLayer struct {
	Type    LayerKind  `json:"kind"`
	X       []*float64 `json:"x"`
	Y       []*float64 `json:"y"`
	Text    []string   `json:"text"`
	Width   float64    `json:"width"`
	Color   string     `json:"color"`
	Opacity float64    `json:"opacity"`
}

// NodeLayer holds one marker per graph node.
type NodeLayer struct {
	Type          LayerKind `json:"kind"`
	Labels        []string  `json:"labels"`
	X             []float64 `json:"x"`
	Y             []float64 `json:"y"`
	Size          []float64 `json:"size"`
	Degree        []int     `json:"degree"`
	Text          []string  `json:"text"`
	ColorScale    string    `json:"colorscale"`
	ColorbarTitle string    `json:"colorbar_title"`
	Opacity       float64   `json:"opacity"`
	LineWidth     float64   `json:"line_width"`
}

// EdgeLabelLayer holds invisible markers at edge midpoints that carry the
// edge hover text.
type EdgeLabelLayer struct {
	Type LayerKind `json:"kind"`
	X    []float64 `json:"x"`
	Y    []float64 `json:"y"`
	Text []string  `json:"text"`
}

func (*EdgeLayer) Kind() LayerKind      { return LayerEdges }
func (*NodeLayer) Kind() LayerKind      { return LayerNodes }
func (*EdgeLabelLayer) Kind() LayerKind { return LayerEdgeLabels }

// Annotation is static text placed in paper coordinates.
type Annotation struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Figure is a self-contained description of the rendered graph.
type Figure struct {
	Title       string       `json:"title"`
	Layers      []Layer      `json:"layers"`
	HoverMode   string       `json:"hovermode"`
	ShowAxes    bool         `json:"show_axes"`
	ShowLegend  bool         `json:"show_legend"`
	Template    string       `json:"template"`
	Annotations []Annotation `json:"annotations"`
}

// Edges returns the edge layer, or nil if the figure has none.
func (f *Figure) Edges() *EdgeLayer {
	for _, l := range f.Layers {
		if e, ok := l.(*EdgeLayer); ok {
			return e
		}
	}
	return nil
}

// Nodes returns the node layer, or nil if the figure has none.
func (f *Figure) Nodes() *NodeLayer {
	for _, l := range f.Layers {
		if n, ok := l.(*NodeLayer); ok {
			return n
		}
	}
	return nil
}

// EdgeLabels returns the edge hover anchor layer, or nil if the figure has none.
func (f *Figure) EdgeLabels() *EdgeLabelLayer {
	for _, l := range f.Layers {
		if e, ok := l.(*EdgeLabelLayer); ok {
			return e
		}
	}
	return nil
}

// NodeCount returns the number of node markers.
func (f *Figure) NodeCount() int {
	if n := f.Nodes(); n != nil {
		return len(n.Labels)
	}
	return 0
}

// EdgeCount returns the number of drawn edges.
func (f *Figure) EdgeCount() int {
	if e := f.EdgeLabels(); e != nil {
		return len(e.Text)
	}
	return 0
}

// EdgeText formats the hover text of an edge.
func EdgeText(a, b string, weight float64) string {
	return fmt.Sprintf("%s, %s: %s", a, b, strconv.FormatFloat(weight, 'g', -1, 64))
}

// Build turns a masked similarity matrix into a figure. labels must be aligned
// with the matrix rows; highlighted labels get the larger marker size.
func Build(m *Matrix, labels, highlighted []string, opts Options) (*Figure, error) {
	g, err := NewKnowledge(m, labels, opts.Threshold)
	if err != nil {
		return nil, err
	}
	return Compose(g, SpringLayout(g, opts.Layout), highlighted, opts), nil
}

// FromEmbeddings runs the whole pipeline from raw vectors to a figure.
func FromEmbeddings(labels []string, vectors [][]float64, highlighted []string, opts Options) (*Figure, *Knowledge, error) {
	if len(labels) != len(vectors) {
		return nil, nil, fmt.Errorf("%w: %d labels for %d vectors", ErrInvalidInput, len(labels), len(vectors))
	}
	m, err := BuildSimilarity(vectors)
	if err != nil {
		return nil, nil, err
	}
	g, err := NewKnowledge(m, labels, opts.Threshold)
	if err != nil {
		return nil, nil, err
	}
	return Compose(g, SpringLayout(g, opts.Layout), highlighted, opts), g, nil
}

// Compose assembles the figure geometry for a laid out graph.
func Compose(g *Knowledge, pos map[string]Point, highlighted []string, opts Options) *Figure {
	hl := make(map[string]bool, len(highlighted))
	for _, h := range highlighted {
		hl[h] = true
	}

	edges := &EdgeLayer{
		Type:    LayerEdges,
		X:       make([]*float64, 0, 3*len(g.Edges)),
		Y:       make([]*float64, 0, 3*len(g.Edges)),
		Text:    make([]string, 0, len(g.Edges)),
		Width:   2,
		Color:   opts.EdgeColor,
		Opacity: 0.7,
	}
	labels := &EdgeLabelLayer{
		Type: LayerEdgeLabels,
		X:    make([]float64, 0, len(g.Edges)),
		Y:    make([]float64, 0, len(g.Edges)),
		Text: make([]string, 0, len(g.Edges)),
	}
	for _, e := range g.Edges {
		p0, p1 := pos[e.Source], pos[e.Target]
		edges.X = append(edges.X, ptr(p0.X), ptr(p1.X), nil)
		edges.Y = append(edges.Y, ptr(p0.Y), ptr(p1.Y), nil)

		text := EdgeText(e.Source, e.Target, e.Weight)
		edges.Text = append(edges.Text, text)
		labels.X = append(labels.X, (p0.X+p1.X)/2)
		labels.Y = append(labels.Y, (p0.Y+p1.Y)/2)
		labels.Text = append(labels.Text, text)
	}

	nodes := &NodeLayer{
		Type:          LayerNodes,
		Labels:        make([]string, 0, len(g.Nodes)),
		X:             make([]float64, 0, len(g.Nodes)),
		Y:             make([]float64, 0, len(g.Nodes)),
		Size:          make([]float64, 0, len(g.Nodes)),
		Degree:        make([]int, 0, len(g.Nodes)),
		Text:          make([]string, 0, len(g.Nodes)),
		ColorScale:    opts.ColorScale,
		ColorbarTitle: "Node Connections",
		Opacity:       0.9,
		LineWidth:     2,
	}
	for _, id := range g.Nodes {
		p := pos[id]
		size := opts.DefaultSize
		if hl[id] {
			size = opts.HighlightSize
		}
		nodes.Labels = append(nodes.Labels, id)
		nodes.X = append(nodes.X, p.X)
		nodes.Y = append(nodes.Y, p.Y)
		nodes.Size = append(nodes.Size, size)
		nodes.Degree = append(nodes.Degree, g.Degree(id))
		nodes.Text = append(nodes.Text, id)
	}

	fig := &Figure{
		Title:      opts.Title,
		Layers:     []Layer{edges, nodes, labels},
		HoverMode:  "closest",
		ShowAxes:   false,
		ShowLegend: false,
		Template:   "plotly_white",
	}
	if opts.Attribution != "" {
		fig.Annotations = []Annotation{{Text: opts.Attribution, X: 0.005, Y: -0.002}}
	}
	return fig
}

func ptr(v float64) *float64 { return &v }
