package solver

import (
	"errors"
	"math"

	"github.com/tidwall/rtree"

	"github.com/azybler/maze_solver/pkg/geo"
	"github.com/azybler/maze_solver/pkg/graph"
)

// defaultSnapDistance is the largest distance, in pixels, a requested point may
// be from the nearest corridor.
const defaultSnapDistance = 8.0

// ErrPointTooFar is returned when a requested point is too far from any corridor.
var ErrPointTooFar = errors.New("point too far from corridor")

// SnapResult is a point snapped to the nearest node of the nearest corridor.
type SnapResult struct {
	Node graph.NodeID
	U, V graph.NodeID // corridor endpoints; U == V for an isolated node
	Dist float64      // pixels from the query point to the corridor
}

type corridor struct {
	u, v graph.NodeID
}

// Snapper finds the nearest corridor to a pixel using an R-tree over
// corridor bounding boxes.
type Snapper struct {
	tr      rtree.RTreeG[corridor]
	g       *graph.Graph
	maxDist float64
}

// NewSnapper indexes every corridor of g once. Nodes without any neighbour
// are indexed as zero-length corridors.
func NewSnapper(g *graph.Graph, maxDist float64) *Snapper {
	s := &Snapper{g: g, maxDist: maxDist}
	for i := range g.Nodes {
		u := graph.NodeID(i)
		isolated := true
		for _, d := range graph.Directions {
			if _, ok := g.Neighbor(u, d); ok {
				isolated = false
				break
			}
		}
		if isolated {
			s.insert(u, u)
			continue
		}
		// East and South cover every undirected corridor once.
		for _, d := range [2]graph.Direction{graph.East, graph.South} {
			if v, ok := g.Neighbor(u, d); ok {
				s.insert(u, v)
			}
		}
	}
	return s
}

func (s *Snapper) insert(u, v graph.NodeID) {
	a, b := s.g.Position(u), s.g.Position(v)
	lo := [2]float64{float64(min(a.X, b.X)), float64(min(a.Y, b.Y))}
	hi := [2]float64{float64(max(a.X, b.X)), float64(max(a.Y, b.Y))}
	s.tr.Insert(lo, hi, corridor{u: u, v: v})
}

// Len returns the number of indexed corridors.
func (s *Snapper) Len() int { return s.tr.Len() }

// Snap returns the node nearest to p on the corridor nearest to p.
func (s *Snapper) Snap(p graph.Position) (SnapResult, error) {
	target := [2]float64{float64(p.X), float64(p.Y)}

	var best SnapResult
	found := false
	s.tr.Nearby(
		rtree.BoxDist(target, target, func(_, _ [2]float64, c corridor) float64 {
			d, _ := geo.PointToSegmentDist(p, s.g.Position(c.u), s.g.Position(c.v))
			return d * d
		}),
		func(_, _ [2]float64, c corridor, distSq float64) bool {
			best = SnapResult{U: c.u, V: c.v, Dist: math.Sqrt(distSq)}
			found = true
			return false // items arrive nearest first
		},
	)

	if !found || best.Dist > s.maxDist {
		return SnapResult{}, ErrPointTooFar
	}

	best.Node = best.U
	if geo.Euclidean(p, s.g.Position(best.V)) < geo.Euclidean(p, s.g.Position(best.U)) {
		best.Node = best.V
	}
	return best, nil
}
