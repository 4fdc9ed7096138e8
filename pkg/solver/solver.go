// Package solver finds a route through a maze graph.
//
// Four strategies share one contract: breadth-first and depth-first
// traversal, a right-hand wall follower and A* over a Fibonacci heap.
// Each Solve call owns all of its bookkeeping, so strategies never write to
// the graph and one graph may be solved by several strategies at once.
package solver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/azybler/maze_solver/pkg/graph"
)

var (
	// ErrInvalidGraph is returned when the graph cannot be walked, such as a
	// missing start or a start node with no open neighbour.
	ErrInvalidGraph = errors.New("invalid graph")
	// ErrUnknownAlgorithm is returned by ParseAlgorithm and New.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)

// ctxCheckInterval is how many iterations a strategy runs between context checks.
const ctxCheckInterval = 1024

// Result is the outcome of one strategy run. An unreachable end is not an
// error: Completed is false and Path is empty.
type Result struct {
	Completed       bool
	NodesConsidered int
	Path            []graph.Position
}

// Strategy solves a maze graph from its start to its end node.
type Strategy interface {
	Name() string
	Solve(ctx context.Context, g *graph.Graph) (Result, error)
}

// Algorithm names one of the built-in strategies.
type Algorithm uint8

const (
	AlgBFS Algorithm = iota
	AlgDFS
	AlgAStar
	AlgWall
)

// Algorithms lists every built-in algorithm in display order.
var Algorithms = []Algorithm{AlgBFS, AlgDFS, AlgAStar, AlgWall}

// String returns the short name accepted by ParseAlgorithm.
func (a Algorithm) String() string {
	switch a {
	case AlgBFS:
		return "bfs"
	case AlgDFS:
		return "dfs"
	case AlgAStar:
		return "astar"
	case AlgWall:
		return "wall"
	}
	return fmt.Sprintf("Algorithm(%d)", uint8(a))
}

// DisplayName returns a human-readable name.
func (a Algorithm) DisplayName() string {
	switch a {
	case AlgBFS:
		return "Breadth first search"
	case AlgDFS:
		return "Depth first search"
	case AlgAStar:
		return "A* search"
	case AlgWall:
		return "Wall follower"
	}
	return a.String()
}

// MarshalText implements encoding.TextMarshaler.
func (a Algorithm) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Algorithm) UnmarshalText(b []byte) error {
	parsed, err := ParseAlgorithm(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAlgorithm maps a name to an Algorithm. Matching is case-insensitive.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bfs", "breadthfirst", "breadth-first":
		return AlgBFS, nil
	case "dfs", "depthfirst", "depth-first":
		return AlgDFS, nil
	case "astar", "a*", "a-star":
		return AlgAStar, nil
	case "wall", "wallfollower", "wall-follower", "rightwall":
		return AlgWall, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

// ParseAlgorithms parses a comma-separated list, rejecting duplicates.
func ParseAlgorithms(list string) ([]Algorithm, error) {
	var out []Algorithm
	seen := make(map[Algorithm]bool)
	for _, name := range strings.Split(list, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		alg, err := ParseAlgorithm(name)
		if err != nil {
			return nil, err
		}
		if seen[alg] {
			return nil, fmt.Errorf("algorithm %s listed twice", alg)
		}
		seen[alg] = true
		out = append(out, alg)
	}
	return out, nil
}

// Option configures strategies and the Engine.
type Option func(*options)

type options struct {
	maxSteps     int
	snapDistance float64
}

// WithMaxSteps caps the number of dequeues (or moves, for the wall follower).
// A run that reaches the cap stops and reports non-completion. Zero means no cap.
func WithMaxSteps(n int) Option {
	return func(o *options) { o.maxSteps = n }
}

// WithSnapDistance sets how far, in pixels, a requested start or end may be
// from the nearest corridor.
func WithSnapDistance(d float64) Option {
	return func(o *options) { o.snapDistance = d }
}

func buildOptions(opts []Option) options {
	o := options{snapDistance: defaultSnapDistance}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New returns the strategy for alg.
func New(alg Algorithm, opts ...Option) (Strategy, error) {
	o := buildOptions(opts)
	switch alg {
	case AlgBFS:
		return &BreadthFirst{MaxSteps: o.maxSteps}, nil
	case AlgDFS:
		return &DepthFirst{MaxSteps: o.maxSteps}, nil
	case AlgAStar:
		return &AStar{MaxSteps: o.maxSteps}, nil
	case AlgWall:
		return &WallFollower{MaxSteps: o.maxSteps}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, alg)
}

// checkEndpoints rejects graphs whose start or end is not a node.
func checkEndpoints(g *graph.Graph) error {
	if g == nil {
		return fmt.Errorf("%w: nil graph", ErrInvalidGraph)
	}
	n := graph.NodeID(len(g.Nodes))
	if g.Start == graph.NoNode || g.Start >= n {
		return fmt.Errorf("%w: no start node", ErrInvalidGraph)
	}
	if g.End == graph.NoNode || g.End >= n {
		return fmt.Errorf("%w: no end node", ErrInvalidGraph)
	}
	return nil
}

// checkCtx polls ctx every ctxCheckInterval iterations.
func checkCtx(ctx context.Context, iteration int) error {
	if iteration%ctxCheckInterval == 0 {
		return ctx.Err()
	}
	return nil
}
