package solver

import (
	"context"
	"fmt"

	"github.com/azybler/maze_solver/pkg/graph"
)

// wallStartFacing is the direction the walker faces when it enters the maze
// from the top row.
const wallStartFacing = graph.South

// WallFollower walks the maze keeping its right hand on the wall. Path holds
// every step taken, including dead ends it walked into and back out of.
//
// The walk is deterministic in (node, facing), so returning to a state seen
// before means the walker is circling a loop that does not touch the end; the
// run then stops and reports non-completion.
type WallFollower struct {
	MaxSteps int
}

func (s *WallFollower) Name() string { return AlgWall.DisplayName() }

func (s *WallFollower) Solve(ctx context.Context, g *graph.Graph) (Result, error) {
	if err := checkEndpoints(g); err != nil {
		return Result{}, err
	}

	cur := g.Start
	facing := wallStartFacing
	res := Result{Path: []graph.Position{g.Position(cur)}}

	// seen[4*node+facing] records states already passed through.
	seen := make([]bool, 4*len(g.Nodes))

	for cur != g.End {
		if s.MaxSteps > 0 && res.NodesConsidered >= s.MaxSteps {
			return Result{NodesConsidered: res.NodesConsidered}, nil
		}
		if err := checkCtx(ctx, res.NodesConsidered); err != nil {
			return Result{}, err
		}

		state := 4*int(cur) + int(facing)
		if seen[state] {
			return Result{NodesConsidered: res.NodesConsidered}, nil
		}
		seen[state] = true

		dir, ok := nextDirection(g, cur, facing)
		if !ok {
			return Result{}, fmt.Errorf("%w: no open neighbour at %s", ErrInvalidGraph, g.Position(cur))
		}

		res.NodesConsidered++
		cur, _ = g.Neighbor(cur, dir)
		facing = dir
		res.Path = append(res.Path, g.Position(cur))
	}

	res.Completed = true
	return res, nil
}

// nextDirection tries right, straight, left and back, in that order.
func nextDirection(g *graph.Graph, node graph.NodeID, facing graph.Direction) (graph.Direction, bool) {
	d := facing.Clockwise()
	for range 4 {
		if _, ok := g.Neighbor(node, d); ok {
			return d, true
		}
		d = d.CounterClockwise()
	}
	return 0, false
}
