package solver

import (
	"context"

	"github.com/azybler/maze_solver/pkg/graph"
)

// BreadthFirst explores the maze level by level. It finds a path with the
// fewest nodes.
type BreadthFirst struct {
	MaxSteps int
}

func (s *BreadthFirst) Name() string { return AlgBFS.DisplayName() }

func (s *BreadthFirst) Solve(ctx context.Context, g *graph.Graph) (Result, error) {
	return traverse(ctx, g, false, s.MaxSteps)
}

// DepthFirst explores one corridor to its end before backing up.
// It gives no guarantee on path length.
type DepthFirst struct {
	MaxSteps int
}

func (s *DepthFirst) Name() string { return AlgDFS.DisplayName() }

func (s *DepthFirst) Solve(ctx context.Context, g *graph.Graph) (Result, error) {
	return traverse(ctx, g, true, s.MaxSteps)
}

// traverse runs a FIFO (lifo=false) or LIFO (lifo=true) search from start.
// Nodes are marked visited when discovered, so each is queued at most once.
func traverse(ctx context.Context, g *graph.Graph, lifo bool, maxSteps int) (Result, error) {
	if err := checkEndpoints(g); err != nil {
		return Result{}, err
	}

	n := len(g.Nodes)
	visited := make([]bool, n)
	pred := newPredecessors(n)

	// The fringe is a slice used as a queue (head index) or a stack.
	fringe := make([]graph.NodeID, 0, 64)
	head := 0
	fringe = append(fringe, g.Start)
	visited[g.Start] = true

	var res Result
	for head < len(fringe) {
		if maxSteps > 0 && res.NodesConsidered >= maxSteps {
			return Result{NodesConsidered: res.NodesConsidered}, nil
		}
		if err := checkCtx(ctx, res.NodesConsidered); err != nil {
			return Result{}, err
		}
		res.NodesConsidered++

		var cur graph.NodeID
		if lifo {
			cur = fringe[len(fringe)-1]
			fringe = fringe[:len(fringe)-1]
		} else {
			cur = fringe[head]
			head++
		}

		if cur == g.End {
			res.Completed = true
			break
		}

		for _, d := range expandOrder {
			nb, ok := g.Neighbor(cur, d)
			if !ok || visited[nb] {
				continue
			}
			visited[nb] = true
			pred[nb] = cur
			fringe = append(fringe, nb)
		}
	}

	if res.Completed {
		res.Path = reconstructPath(g, pred, g.End)
	}
	return res, nil
}
