package graph

import "sort"

// HubItem is an ingredient with high connectivity
type HubItem struct {
	Label     string  `json:"label"`
	Degree    int     `json:"degree"`
	Strongest string  `json:"strongest_neighbor"`
	MaxWeight float64 `json:"max_weight"`
}

// DegreeBucket is one bucket in the degree histogram
type DegreeBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// TopologyReport describes the shape of a thresholded ingredient graph
type TopologyReport struct {
	TotalItems        int            `json:"total_items"`
	TotalNodes        int            `json:"total_nodes"`
	TotalEdges        int            `json:"total_edges"`
	NumComponents     int            `json:"num_components"`
	LargestComponent  int            `json:"largest_component"`
	SmallestComponent int            `json:"smallest_component"`
	IsolatedCount     int            `json:"isolated_count"`
	IsolatedLabels    []string       `json:"isolated_labels"`
	DuplicateLabels   []string       `json:"duplicate_labels,omitempty"`
	MeanWeight        float64        `json:"mean_weight"`
	DegreeHistogram   []DegreeBucket `json:"degree_histogram"`
	Hubs              []HubItem      `json:"hubs"`
}

// ComputeTopology analyzes components, isolated items, degree distribution and hubs.
// Components only count nodes that have at least one edge. A negative topN
// keeps every isolated label and hub.
func ComputeTopology(g *Knowledge, hubThreshold, topN int) *TopologyReport {
	isolated := g.Isolated()
	report := &TopologyReport{
		TotalItems:      len(g.Nodes) + len(isolated),
		TotalNodes:      len(g.Nodes),
		TotalEdges:      len(g.Edges),
		IsolatedCount:   len(isolated),
		DuplicateLabels: g.Duplicates,
		DegreeHistogram: defaultHistogram(),
	}
	if topN >= 0 && len(isolated) > topN {
		isolated = isolated[:topN]
	}
	report.IsolatedLabels = isolated

	if len(g.Nodes) == 0 {
		return report
	}

	index := make(map[string]int, len(g.Nodes))
	for i, id := range g.Nodes {
		index[id] = i
	}
	ds := newDisjointSet(len(g.Nodes))
	var total float64
	for _, e := range g.Edges {
		ds.union(index[e.Source], index[e.Target])
		total += e.Weight
	}
	report.MeanWeight = total / float64(len(g.Edges))

	sizes := ds.componentSizes()
	report.NumComponents = len(sizes)
	report.LargestComponent = sizes[0]
	report.SmallestComponent = sizes[len(sizes)-1]

	for _, id := range g.Nodes {
		report.DegreeHistogram[degreeBucket(g.Degree(id))].Count++
	}

	var hubs []HubItem
	for _, id := range g.Nodes {
		degree := g.Degree(id)
		if degree <= hubThreshold {
			continue
		}
		hub := HubItem{Label: id, Degree: degree}
		for _, nb := range g.Adj[id] {
			if w, _ := g.Weight(id, nb); w > hub.MaxWeight {
				hub.MaxWeight = w
				hub.Strongest = nb
			}
		}
		hubs = append(hubs, hub)
	}
	sort.SliceStable(hubs, func(i, j int) bool { return hubs[i].Degree > hubs[j].Degree })
	if topN >= 0 && len(hubs) > topN {
		hubs = hubs[:topN]
	}
	report.Hubs = hubs

	return report
}

func defaultHistogram() []DegreeBucket {
	return []DegreeBucket{
		{Label: "1"}, {Label: "2-3"}, {Label: "4-7"},
		{Label: "8-15"}, {Label: "16-31"}, {Label: "32+"},
	}
}

// degreeBucket maps a degree of at least 1 onto a log-scale bucket.
func degreeBucket(degree int) int {
	switch {
	case degree <= 1:
		return 0
	case degree <= 3:
		return 1
	case degree <= 7:
		return 2
	case degree <= 15:
		return 3
	case degree <= 31:
		return 4
	default:
		return 5
	}
}
