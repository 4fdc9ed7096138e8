// Package compare runs several strategies on one maze and ranks them.
package compare

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/azybler/maze_solver/pkg/graph"
	"github.com/azybler/maze_solver/pkg/solver"
)

var (
	// ErrTooFewAlgorithms is returned when fewer than two algorithms are given.
	ErrTooFewAlgorithms = errors.New("compare: at least two algorithms are required")
	// ErrDuplicateAlgorithm is returned when an algorithm is listed more than once.
	ErrDuplicateAlgorithm = errors.New("compare: algorithm listed more than once")
)

// Maze describes the graph the strategies ran on.
type Maze struct {
	Width      int  `json:"width" yaml:"width"`
	Height     int  `json:"height" yaml:"height"`
	Nodes      int  `json:"nodes" yaml:"nodes"`
	Corridors  int  `json:"corridors" yaml:"corridors"`
	Components int  `json:"components" yaml:"components"`
	Connected  bool `json:"connected" yaml:"connected"`
}

// Entry is one strategy's outcome.
type Entry struct {
	Algorithm       solver.Algorithm `json:"algorithm" yaml:"algorithm"`
	Completed       bool             `json:"completed" yaml:"completed"`
	NodesConsidered int              `json:"nodes_considered" yaml:"nodes_considered"`
	PathNodes       int              `json:"path_nodes" yaml:"path_nodes"`
	PixelDistance   int              `json:"pixel_distance" yaml:"pixel_distance"`
	Duration        time.Duration    `json:"duration_ns" yaml:"duration"`
	Error           string           `json:"error,omitempty" yaml:"error,omitempty"`

	Path []graph.Position `json:"-" yaml:"-"`
}

// Winner names the best entry for one criterion.
type Winner struct {
	Algorithm solver.Algorithm `json:"algorithm" yaml:"algorithm"`
	Value     int64            `json:"value" yaml:"value"`
}

// Summary ranks the completed entries. Every winner is nil when no strategy
// reached the end.
type Summary struct {
	Solved           bool    `json:"solved" yaml:"solved"`
	FewestConsidered *Winner `json:"fewest_considered,omitempty" yaml:"fewest_considered,omitempty"`
	FewestPathNodes  *Winner `json:"fewest_path_nodes,omitempty" yaml:"fewest_path_nodes,omitempty"`
	ShortestDistance *Winner `json:"shortest_distance,omitempty" yaml:"shortest_distance,omitempty"`
	PathsEqual       bool    `json:"paths_equal" yaml:"paths_equal"`
	Fastest          *Winner `json:"fastest,omitempty" yaml:"fastest,omitempty"`
}

// Report is the result of one comparison run.
type Report struct {
	RunID   string  `json:"run_id" yaml:"run_id"`
	Maze    Maze    `json:"maze" yaml:"maze"`
	Entries []Entry `json:"entries" yaml:"entries"`
	Summary Summary `json:"summary" yaml:"summary"`
}

// Run solves base.Graph once per algorithm, in order, on the shared graph.
// base.Algorithm is ignored; base.Start and base.End apply to every run.
// A strategy error is recorded in its entry and the run continues, except
// for context cancellation, which aborts the comparison.
func Run(ctx context.Context, s solver.Solver, base solver.Request, algorithms []solver.Algorithm) (*Report, error) {
	if len(algorithms) < 2 {
		return nil, ErrTooFewAlgorithms
	}
	seen := make(map[solver.Algorithm]bool, len(algorithms))
	for _, alg := range algorithms {
		if seen[alg] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAlgorithm, alg)
		}
		seen[alg] = true
	}
	if base.Graph == nil {
		return nil, fmt.Errorf("compare: %w: nil graph", solver.ErrInvalidGraph)
	}

	g := base.Graph
	report := &Report{
		RunID: uuid.NewString(),
		Maze: Maze{
			Width:      g.Width,
			Height:     g.Height,
			Nodes:      g.NumNodes(),
			Corridors:  g.NumEdges(),
			Components: graph.ComponentCount(g),
			Connected:  graph.Solvable(g),
		},
		Entries: make([]Entry, 0, len(algorithms)),
	}

	for _, alg := range algorithms {
		req := base
		req.Algorithm = alg

		entry := Entry{Algorithm: alg}
		sol, err := s.Solve(ctx, req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			entry.Error = err.Error()
			report.Entries = append(report.Entries, entry)
			continue
		}

		entry.Completed = sol.Result.Completed
		entry.NodesConsidered = sol.Result.NodesConsidered
		entry.PathNodes = len(sol.Result.Path)
		entry.PixelDistance = sol.PixelDistance
		entry.Duration = sol.Duration
		entry.Path = sol.Result.Path
		report.Entries = append(report.Entries, entry)
	}

	report.Summary = Summarize(report.Entries)
	return report, nil
}

// Summarize ranks entries. Ties go to the entry that ran first.
func Summarize(entries []Entry) Summary {
	var sum Summary
	shortestCount := 0
	for _, e := range entries {
		if !e.Completed {
			continue
		}
		sum.Solved = true
		sum.FewestConsidered = better(sum.FewestConsidered, e.Algorithm, int64(e.NodesConsidered))
		sum.FewestPathNodes = better(sum.FewestPathNodes, e.Algorithm, int64(e.PathNodes))
		sum.Fastest = better(sum.Fastest, e.Algorithm, int64(e.Duration))

		switch {
		case sum.ShortestDistance == nil || int64(e.PixelDistance) < sum.ShortestDistance.Value:
			sum.ShortestDistance = &Winner{Algorithm: e.Algorithm, Value: int64(e.PixelDistance)}
			shortestCount = 1
		case int64(e.PixelDistance) == sum.ShortestDistance.Value:
			shortestCount++
		}
	}
	sum.PathsEqual = shortestCount > 1
	return sum
}

func better(cur *Winner, alg solver.Algorithm, v int64) *Winner {
	if cur == nil || v < cur.Value {
		return &Winner{Algorithm: alg, Value: v}
	}
	return cur
}
