package solver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azybler/maze_solver/pkg/graph"
)

func TestEngineSolve(t *testing.T) {
	g := mazeGraph(t, loopMaze...)
	e := NewEngine()

	sol, err := e.Solve(context.Background(), Request{Graph: g, Algorithm: AlgAStar})
	require.NoError(t, err)
	assert.True(t, sol.Result.Completed)
	assert.Equal(t, AlgAStar, sol.Algorithm)
	assert.Equal(t, graph.Position{X: 1, Y: 0}, sol.Start)
	assert.Equal(t, graph.Position{X: 3, Y: 4}, sol.End)
	// Both routes round the loop are 6 pixels long.
	assert.Equal(t, 6, sol.PixelDistance)
}

func TestEngineSnapsEndpoints(t *testing.T) {
	g := mazeGraph(t, loopMaze...)
	e := NewEngine(WithSnapDistance(2))

	start := graph.Position{X: 2, Y: 1} // middle of the top corridor
	end := graph.Position{X: 3, Y: 2}   // middle of the right corridor
	sol, err := e.Solve(context.Background(), Request{
		Graph:     g,
		Algorithm: AlgBFS,
		Start:     &start,
		End:       &end,
	})
	require.NoError(t, err)
	require.True(t, sol.Result.Completed)

	// Both corridor endpoints are equidistant; the first endpoint wins.
	assert.Equal(t, graph.Position{X: 1, Y: 1}, sol.Start)
	assert.Equal(t, graph.Position{X: 3, Y: 1}, sol.End)

	// The shared graph keeps its own endpoints.
	assert.Equal(t, graph.Position{X: 1, Y: 0}, g.Position(g.Start))
}

func TestEnginePointTooFar(t *testing.T) {
	g := mazeGraph(t, loopMaze...)
	e := NewEngine(WithSnapDistance(1))

	far := graph.Position{X: 40, Y: 40}
	_, err := e.Solve(context.Background(), Request{Graph: g, Algorithm: AlgBFS, Start: &far})
	assert.ErrorIs(t, err, ErrPointTooFar)
}

func TestEngineErrors(t *testing.T) {
	e := NewEngine()

	_, err := e.Solve(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrInvalidGraph)

	_, err = e.Solve(context.Background(), Request{Graph: openGrid(2, 2), Algorithm: Algorithm(9)})
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestEngineMaxSteps(t *testing.T) {
	e := NewEngine(WithMaxSteps(2))
	assert.Equal(t, 2, e.MaxSteps())

	sol, err := e.Solve(context.Background(), Request{Graph: openGrid(8, 8), Algorithm: AlgBFS})
	require.NoError(t, err)
	assert.False(t, sol.Result.Completed)
	assert.Equal(t, 2, sol.Result.NodesConsidered)
}

func TestSnapper(t *testing.T) {
	g := mazeGraph(t, loopMaze...)
	s := NewSnapper(g, 3)
	assert.Equal(t, g.NumEdges(), s.Len())

	tests := []struct {
		name string
		p    graph.Position
		want graph.Position
	}{
		{"on a node", graph.Position{X: 3, Y: 3}, graph.Position{X: 3, Y: 3}},
		{"inside a wall next to the start", graph.Position{X: 0, Y: 0}, graph.Position{X: 1, Y: 0}},
		{"near the end", graph.Position{X: 4, Y: 4}, graph.Position{X: 3, Y: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.Snap(tt.p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, g.Position(res.Node))
		})
	}

	_, err := s.Snap(graph.Position{X: 100, Y: 0})
	assert.ErrorIs(t, err, ErrPointTooFar)
}

func TestSnapperIsolatedNode(t *testing.T) {
	g := graph.New(10, 10)
	only := g.AddNode(graph.Position{X: 5, Y: 5})
	s := NewSnapper(g, 5)

	res, err := s.Snap(graph.Position{X: 6, Y: 7})
	require.NoError(t, err)
	assert.Equal(t, only, res.Node)
	assert.Equal(t, only, res.U)
	assert.Equal(t, only, res.V)
}
