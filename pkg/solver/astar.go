package solver

import (
	"context"
	"fmt"

	"github.com/azybler/maze_solver/pkg/fibheap"
	"github.com/azybler/maze_solver/pkg/geo"
	"github.com/azybler/maze_solver/pkg/graph"
)

// AStar is a best-first search ordered by path cost plus the Manhattan
// distance to the end. Corridor cost is the Manhattan length in pixels, so
// the heuristic is consistent and the first extraction of the end is optimal.
//
// Queued nodes are relaxed in place with DecreaseKey; a node is never queued
// twice.
type AStar struct {
	MaxSteps int
}

func (s *AStar) Name() string { return AlgAStar.DisplayName() }

func (s *AStar) Solve(ctx context.Context, g *graph.Graph) (Result, error) {
	if err := checkEndpoints(g); err != nil {
		return Result{}, err
	}

	n := len(g.Nodes)
	goal := g.Position(g.End)

	// cost[v] is the best known path cost to v; -1 = not reached.
	cost := make([]int, n)
	for i := range cost {
		cost[i] = -1
	}
	handles := make([]fibheap.Handle, n)
	queued := make([]bool, n)
	visited := make([]bool, n)
	pred := newPredecessors(n)

	pq := fibheap.New[int, graph.NodeID](64)
	handles[g.Start] = pq.Insert(0, g.Start)
	queued[g.Start] = true
	cost[g.Start] = 0

	var res Result
	for !res.Completed && !pq.IsEmpty() {
		if s.MaxSteps > 0 && res.NodesConsidered >= s.MaxSteps {
			return Result{NodesConsidered: res.NodesConsidered}, nil
		}
		if err := checkCtx(ctx, res.NodesConsidered); err != nil {
			return Result{}, err
		}
		res.NodesConsidered++

		_, cur, err := pq.ExtractMinimum()
		if err != nil {
			return Result{}, fmt.Errorf("a*: extract-minimum: %w", err)
		}

		if cur == g.End {
			res.Completed = true
		} else {
			curPos := g.Position(cur)
			for _, d := range expandOrder {
				nb, ok := g.Neighbor(cur, d)
				if !ok || visited[nb] {
					continue
				}
				nbPos := g.Position(nb)
				tentative := cost[cur] + geo.Manhattan(curPos, nbPos)
				if cost[nb] >= 0 && tentative >= cost[nb] {
					continue
				}
				cost[nb] = tentative
				pred[nb] = cur

				priority := tentative + geo.Manhattan(nbPos, goal)
				if queued[nb] {
					if err := pq.DecreaseKey(handles[nb], priority); err != nil {
						return Result{}, fmt.Errorf("a*: decrease-key at %s: %w", nbPos, err)
					}
				} else {
					handles[nb] = pq.Insert(priority, nb)
					queued[nb] = true
				}
			}
		}

		visited[cur] = true
	}

	if res.Completed {
		res.Path = reconstructPath(g, pred, g.End)
	}
	return res, nil
}
