package solver

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/azybler/maze_solver/pkg/geo"
	"github.com/azybler/maze_solver/pkg/graph"
)

const tracerName = "github.com/azybler/maze_solver/pkg/solver"

// Request describes one solve. Start and End, when set, replace the graph's
// endpoints with the nodes nearest to those pixels.
type Request struct {
	Graph     *graph.Graph
	Algorithm Algorithm
	Start     *graph.Position
	End       *graph.Position
}

// Solution is a Result with the context it was produced in.
type Solution struct {
	Algorithm     Algorithm
	Result        Result
	Start         graph.Position
	End           graph.Position
	Duration      time.Duration
	PixelDistance int
}

// Solver is the interface for maze solves.
type Solver interface {
	Solve(ctx context.Context, req Request) (*Solution, error)
}

// Engine runs strategies with the configured limits.
type Engine struct {
	opts   options
	tracer trace.Tracer
}

// NewEngine creates an engine. Options apply to every solve.
func NewEngine(opts ...Option) *Engine {
	return &Engine{
		opts:   buildOptions(opts),
		tracer: otel.Tracer(tracerName),
	}
}

// MaxSteps returns the configured step cap, 0 if none.
func (e *Engine) MaxSteps() int { return e.opts.maxSteps }

// Solve runs one strategy on the request's graph.
func (e *Engine) Solve(ctx context.Context, req Request) (*Solution, error) {
	if req.Graph == nil {
		return nil, fmt.Errorf("%w: nil graph", ErrInvalidGraph)
	}

	ctx, span := e.tracer.Start(ctx, "solver.Engine.Solve",
		trace.WithAttributes(
			attribute.String("maze.algorithm", req.Algorithm.String()),
			attribute.Int("maze.nodes", req.Graph.NumNodes()),
			attribute.Int("maze.width", req.Graph.Width),
			attribute.Int("maze.height", req.Graph.Height),
		),
	)
	defer span.End()

	sol, err := e.solve(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "solve failed")
		return nil, err
	}

	span.SetAttributes(
		attribute.Bool("maze.completed", sol.Result.Completed),
		attribute.Int("maze.nodes_considered", sol.Result.NodesConsidered),
		attribute.Int("maze.path_nodes", len(sol.Result.Path)),
		attribute.Int64("maze.duration_us", sol.Duration.Microseconds()),
	)
	span.SetStatus(codes.Ok, "")
	return sol, nil
}

func (e *Engine) solve(ctx context.Context, req Request) (*Solution, error) {
	// Step 1: Resolve the strategy.
	strategy, err := New(req.Algorithm, WithMaxSteps(e.opts.maxSteps))
	if err != nil {
		return nil, err
	}

	// Step 2: Snap requested endpoints to the nearest corridor nodes.
	g, err := e.withEndpoints(req)
	if err != nil {
		return nil, err
	}
	if err := checkEndpoints(g); err != nil {
		return nil, err
	}

	// Step 3: Run the strategy.
	started := time.Now()
	res, err := strategy.Solve(ctx, g)
	elapsed := time.Since(started)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req.Algorithm, err)
	}

	return &Solution{
		Algorithm:     req.Algorithm,
		Result:        res,
		Start:         g.Position(g.Start),
		End:           g.Position(g.End),
		Duration:      elapsed,
		PixelDistance: geo.PathDistance(res.Path),
	}, nil
}

func (e *Engine) withEndpoints(req Request) (*graph.Graph, error) {
	g := req.Graph
	if req.Start == nil && req.End == nil {
		return g, nil
	}

	snapper := NewSnapper(g, e.opts.snapDistance)
	start, end := g.Start, g.End
	if req.Start != nil {
		snap, err := snapper.Snap(*req.Start)
		if err != nil {
			return nil, fmt.Errorf("start %s: %w", *req.Start, err)
		}
		start = snap.Node
	}
	if req.End != nil {
		snap, err := snapper.Snap(*req.End)
		if err != nil {
			return nil, fmt.Errorf("end %s: %w", *req.End, err)
		}
		end = snap.Node
	}
	return g.WithEndpoints(start, end)
}
