package graph

import "fmt"

// Edge is an undirected similarity edge between two labels.
type Edge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

// Knowledge is the thresholded ingredient graph. Nodes are keyed by label,
// so repeated labels in the input collapse onto a single node.
type Knowledge struct {
	Nodes      []string            // first-appearance order
	Edges      []Edge              // matrix scan order
	Adj        map[string][]string // undirected
	Labels     []string            // every label handed to the builder
	Duplicates []string            // labels that occurred more than once
	Threshold  float64

	edgeIdx map[pairKey]int
}

type pairKey struct{ a, b string }

func newPairKey(u, v string) pairKey {
	if u > v {
		return pairKey{v, u}
	}
	return pairKey{u, v}
}

// NewKnowledge selects every matrix entry above threshold and assembles the
// undirected graph over labels. labels must be aligned with the matrix rows.
//
// Duplicate labels are merged: an edge between two copies of the same label
// is dropped, and a pair seen twice keeps the later weight.
func NewKnowledge(m *Matrix, labels []string, threshold float64) (*Knowledge, error) {
	if len(labels) != m.Size() {
		return nil, fmt.Errorf("%w: %d labels for a %dx%d similarity matrix",
			ErrInvalidInput, len(labels), m.Size(), m.Size())
	}

	g := &Knowledge{
		Adj:       make(map[string][]string),
		Labels:    labels,
		Threshold: threshold,
		edgeIdx:   make(map[pairKey]int),
	}

	seen := make(map[string]int, len(labels))
	for _, l := range labels {
		seen[l]++
		if seen[l] == 2 {
			g.Duplicates = append(g.Duplicates, l)
		}
	}

	for _, c := range m.Edges(threshold) {
		g.AddEdge(labels[c.Row], labels[c.Col], c.Weight)
	}
	return g, nil
}

// AddEdge inserts or updates the edge u-v. Self loops are ignored.
func (g *Knowledge) AddEdge(u, v string, weight float64) {
	if u == v {
		return
	}
	key := newPairKey(u, v)
	if i, ok := g.edgeIdx[key]; ok {
		g.Edges[i].Weight = weight
		return
	}
	g.addNode(u)
	g.addNode(v)
	g.edgeIdx[key] = len(g.Edges)
	g.Edges = append(g.Edges, Edge{Source: u, Target: v, Weight: weight})
	g.Adj[u] = append(g.Adj[u], v)
	g.Adj[v] = append(g.Adj[v], u)
}

func (g *Knowledge) addNode(label string) {
	if _, ok := g.Adj[label]; ok {
		return
	}
	g.Adj[label] = nil
	g.Nodes = append(g.Nodes, label)
}

// HasNode reports whether label has at least one edge.
func (g *Knowledge) HasNode(label string) bool {
	_, ok := g.Adj[label]
	return ok
}

// Degree returns the number of edges incident to label.
func (g *Knowledge) Degree(label string) int {
	return len(g.Adj[label])
}

// Weight returns the weight of edge u-v and whether it exists.
func (g *Knowledge) Weight(u, v string) (float64, bool) {
	i, ok := g.edgeIdx[newPairKey(u, v)]
	if !ok {
		return 0, false
	}
	return g.Edges[i].Weight, true
}

// Isolated returns the distinct input labels that received no edge.
func (g *Knowledge) Isolated() []string {
	var out []string
	done := make(map[string]bool)
	for _, l := range g.Labels {
		if done[l] || g.HasNode(l) {
			continue
		}
		done[l] = true
		out = append(out, l)
	}
	return out
}
