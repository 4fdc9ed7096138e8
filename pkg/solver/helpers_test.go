package solver

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/azybler/maze_solver/pkg/graph"
)

// gridGraph builds a w×h grid of unit-spaced nodes. keep decides whether each
// East and South link exists. Start is the top-left node, end the bottom-right.
func gridGraph(w, h int, keep func() bool) *graph.Graph {
	g := graph.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.AddNode(graph.Position{X: x, Y: y})
		}
	}
	id := func(x, y int) graph.NodeID { return graph.NodeID(y*w + x) }
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x+1 < w && keep() {
				g.Link(id(x, y), id(x+1, y), graph.East)
			}
			if y+1 < h && keep() {
				g.Link(id(x, y), id(x, y+1), graph.South)
			}
		}
	}
	g.Start = id(0, 0)
	g.End = id(w-1, h-1)
	return g
}

func openGrid(w, h int) *graph.Graph {
	return gridGraph(w, h, func() bool { return true })
}

// treeGraph builds a random spanning tree of a w×h grid.
func treeGraph(w, h int, rng *rand.Rand) *graph.Graph {
	g := gridGraph(w, h, func() bool { return false })
	visited := make([]bool, w*h)
	stack := []graph.Position{{X: 0, Y: 0}}
	visited[0] = true

	dirs := []struct {
		dx, dy int
		d      graph.Direction
	}{
		{0, -1, graph.North}, {1, 0, graph.East}, {0, 1, graph.South}, {-1, 0, graph.West},
	}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		var options []int
		for i, dd := range dirs {
			nx, ny := cur.X+dd.dx, cur.Y+dd.dy
			if nx >= 0 && nx < w && ny >= 0 && ny < h && !visited[ny*w+nx] {
				options = append(options, i)
			}
		}
		if len(options) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		dd := dirs[options[rng.IntN(len(options))]]
		next := graph.Position{X: cur.X + dd.dx, Y: cur.Y + dd.dy}
		visited[next.Y*w+next.X] = true
		g.Link(graph.NodeID(cur.Y*w+cur.X), graph.NodeID(next.Y*w+next.X), dd.d)
		stack = append(stack, next)
	}
	return g
}

func mazeGraph(t *testing.T, rows ...string) *graph.Graph {
	t.Helper()
	img, err := graph.ParseText(rows)
	require.NoError(t, err)
	g, err := graph.Build(img)
	require.NoError(t, err)
	return g
}

// requireWalkable checks that consecutive path positions are linked nodes.
func requireWalkable(t *testing.T, g *graph.Graph, path []graph.Position) {
	t.Helper()
	for i := 1; i < len(path); i++ {
		a, ok := g.Lookup(path[i-1])
		require.True(t, ok, "no node at %s", path[i-1])
		b, ok := g.Lookup(path[i])
		require.True(t, ok, "no node at %s", path[i])

		linked := false
		for _, d := range graph.Directions {
			if nb, ok := g.Neighbor(a, d); ok && nb == b {
				linked = true
			}
		}
		require.True(t, linked, "%s and %s are not neighbours", path[i-1], path[i])
	}
}
