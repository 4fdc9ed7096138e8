package geo

import (
	"math"

	"github.com/azybler/maze_solver/pkg/graph"
)

// Manhattan returns the L1 distance in pixels between two positions.
func Manhattan(a, b graph.Position) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Euclidean returns the straight-line distance in pixels.
func Euclidean(a, b graph.Position) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// PathDistance returns the number of pixels walked along a path of
// axis-aligned segments.
func PathDistance(path []graph.Position) int {
	total := 0
	for i := 1; i < len(path); i++ {
		total += Manhattan(path[i-1], path[i])
	}
	return total
}

// PointToSegmentDist computes the distance from point p to segment AB and
// returns the projection ratio along AB (clamped to [0,1]).
func PointToSegmentDist(p, a, b graph.Position) (dist float64, ratio float64) {
	if a == b {
		return Euclidean(p, a), 0
	}

	ax, ay := float64(a.X), float64(a.Y)
	dx := float64(b.X) - ax
	dy := float64(b.Y) - ay
	px, py := float64(p.X), float64(p.Y)
	lenSq := dx*dx + dy*dy

	// Project P onto line AB, clamp to [0,1].
	t := ((px-ax)*dx + (py-ay)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	ex := px - (ax + t*dx)
	ey := py - (ay + t*dy)
	return math.Sqrt(ex*ex + ey*ey), t
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
