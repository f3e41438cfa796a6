package graph

// CutItem is an ingredient whose removal splits its cluster
type CutItem struct {
	Label  string `json:"label"`
	Degree int    `json:"degree"`
}

// BridgeReport lists the single points of failure of the graph
type BridgeReport struct {
	CutItems    []CutItem `json:"cut_items"`
	BridgeEdges []Edge    `json:"bridge_edges"`
	CutCount    int       `json:"cut_count"`
	BridgeCount int       `json:"bridge_count"`
}

// ComputeBridges finds articulation ingredients and bridge edges with an
// iterative Tarjan walk over every component.
func ComputeBridges(g *Knowledge) *BridgeReport {
	n := len(g.Nodes)
	if n == 0 {
		return &BridgeReport{}
	}

	index := make(map[string]int, n)
	for i, id := range g.Nodes {
		index[id] = i
	}
	adj := make([][]int, n)
	for i, id := range g.Nodes {
		for _, nb := range g.Adj[id] {
			adj[i] = append(adj[i], index[nb])
		}
	}

	disc := make([]int, n)
	low := make([]int, n)
	isCut := make([]bool, n)
	var bridges [][2]int
	clock := 0

	type frame struct{ node, parent, next int }

	for root := 0; root < n; root++ {
		if disc[root] != 0 {
			continue
		}
		clock++
		disc[root], low[root] = clock, clock
		stack := []frame{{root, -1, 0}}
		children := 0

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			u := top.node

			if top.next < len(adj[u]) {
				v := adj[u][top.next]
				top.next++
				if v == top.parent {
					continue
				}
				if disc[v] != 0 {
					low[u] = min(low[u], disc[v])
					continue
				}
				clock++
				disc[v], low[v] = clock, clock
				if u == root {
					children++
				}
				stack = append(stack, frame{v, u, 0})
				continue
			}

			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				break
			}
			p := stack[len(stack)-1].node
			low[p] = min(low[p], low[u])
			if low[u] > disc[p] {
				bridges = append(bridges, [2]int{p, u})
			}
			if p != root && low[u] >= disc[p] {
				isCut[p] = true
			}
		}

		if children >= 2 {
			isCut[root] = true
		}
	}

	report := &BridgeReport{}
	for i, cut := range isCut {
		if cut {
			id := g.Nodes[i]
			report.CutItems = append(report.CutItems, CutItem{Label: id, Degree: g.Degree(id)})
		}
	}
	for _, b := range bridges {
		u, v := g.Nodes[b[0]], g.Nodes[b[1]]
		w, _ := g.Weight(u, v)
		report.BridgeEdges = append(report.BridgeEdges, Edge{Source: u, Target: v, Weight: w})
	}
	report.CutCount = len(report.CutItems)
	report.BridgeCount = len(report.BridgeEdges)
	return report
}
