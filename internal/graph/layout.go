package graph

import (
	"math"
	"math/rand"
	"time"
)

// Point is a 2D layout position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutOptions controls the spring layout.
type LayoutOptions struct {
	Iterations int   `yaml:"iterations" json:"iterations"`
	Seed       int64 `yaml:"seed" json:"seed"` // 0 seeds from the clock
}

const (
	minDistance   = 0.01
	stopThreshold = 1e-4
)

// SpringLayout places nodes with the Fruchterman-Reingold force model.
// Every pair repels with k²/d, edges attract with weight·d²/k, and the step
// size cools linearly. Positions are centered on the origin and scaled so the
// largest coordinate magnitude is 1.
func SpringLayout(g *Knowledge, opts LayoutOptions) map[string]Point {
	n := len(g.Nodes)
	out := make(map[string]Point, n)
	switch n {
	case 0:
		return out
	case 1:
		out[g.Nodes[0]] = Point{}
		return out
	}

	iterations := opts.Iterations
	if iterations <= 0 {
		iterations = 50
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	index := make(map[string]int, n)
	for i, id := range g.Nodes {
		index[id] = i
	}
	attraction := make([]float64, n*n)
	for _, e := range g.Edges {
		u, v := index[e.Source], index[e.Target]
		attraction[u*n+v] = e.Weight
		attraction[v*n+u] = e.Weight
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range xs {
		xs[i] = rng.Float64()
		ys[i] = rng.Float64()
	}

	k := math.Sqrt(1.0 / float64(n))
	t := math.Max(spread(xs), spread(ys)) * 0.1
	dt := t / float64(iterations+1)

	dx := make([]float64, n)
	dy := make([]float64, n)
	for iter := 0; iter < iterations; iter++ {
		for i := 0; i < n; i++ {
			var sx, sy float64
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				ddx := xs[i] - xs[j]
				ddy := ys[i] - ys[j]
				d := math.Max(math.Hypot(ddx, ddy), minDistance)
				f := k*k/(d*d) - attraction[i*n+j]*d/k
				sx += ddx * f
				sy += ddy * f
			}
			length := math.Hypot(sx, sy)
			if length < minDistance {
				length = 0.1
			}
			dx[i] = sx * t / length
			dy[i] = sy * t / length
		}

		var moved float64
		for i := 0; i < n; i++ {
			xs[i] += dx[i]
			ys[i] += dy[i]
			moved += dx[i]*dx[i] + dy[i]*dy[i]
		}
		t -= dt
		if math.Sqrt(moved)/float64(n) < stopThreshold {
			break
		}
	}

	rescale(xs, ys)
	for i, id := range g.Nodes {
		out[id] = Point{X: xs[i], Y: ys[i]}
	}
	return out
}

func spread(v []float64) float64 {
	lo, hi := v[0], v[0]
	for _, x := range v[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return hi - lo
}

// rescale centers the coordinates and scales them into [-1, 1].
func rescale(xs, ys []float64) {
	n := float64(len(xs))
	var mx, my float64
	for i := range xs {
		mx += xs[i]
		my += ys[i]
	}
	mx /= n
	my /= n

	var lim float64
	for i := range xs {
		xs[i] -= mx
		ys[i] -= my
		lim = math.Max(lim, math.Max(math.Abs(xs[i]), math.Abs(ys[i])))
	}
	if lim == 0 {
		return
	}
	for i := range xs {
		xs[i] /= lim
		ys[i] /= lim
	}
}
