package api

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/azybler/maze_solver/pkg/solver"
)

var (
	// solveTotal counts solves by algorithm and outcome.
	// Outcomes: "solved", "unsolved", "error".
	solveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "maze_solver_solves_total",
		Help: "Total solves by algorithm and outcome",
	}, []string{"algorithm", "outcome"})

	solveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "maze_solver_solve_duration_seconds",
		Help:    "Strategy run time, excluding image decoding",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1, 10},
	}, []string{"algorithm"})

	nodesConsidered = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "maze_solver_nodes_considered",
		Help:    "Nodes considered per solve",
		Buckets: prometheus.ExponentialBuckets(1, 10, 8),
	}, []string{"algorithm"})

	mazeNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "maze_solver_maze_nodes",
		Help:    "Graph nodes per uploaded maze",
		Buckets: prometheus.ExponentialBuckets(1, 10, 8),
	})
)

// stats holds the counters served by GET /api/v1/stats.
type stats struct {
	mu          sync.Mutex
	solves      uint64
	compares    uint64
	failures    uint64
	byAlgorithm map[string]uint64
}

func newStats() *stats {
	return &stats{byAlgorithm: make(map[string]uint64)}
}

func (s *stats) recordSolve(alg solver.Algorithm, sol *solver.Solution, err error) {
	name := alg.String()

	outcome := "unsolved"
	if err != nil {
		outcome = "error"
	} else if sol.Result.Completed {
		outcome = "solved"
	}
	solveTotal.WithLabelValues(name, outcome).Inc()
	if err == nil {
		solveDuration.WithLabelValues(name).Observe(sol.Duration.Seconds())
		nodesConsidered.WithLabelValues(name).Observe(float64(sol.Result.NodesConsidered))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.solves++
	s.byAlgorithm[name]++
	if err != nil {
		s.failures++
	}
}

func (s *stats) recordCompare() {
	s.mu.Lock()
	s.compares++
	s.mu.Unlock()
}

func (s *stats) snapshot() StatsResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	by := make(map[string]uint64, len(s.byAlgorithm))
	for k, v := range s.byAlgorithm {
		by[k] = v
	}
	return StatsResponse{
		Solves:      s.solves,
		Compares:    s.compares,
		Failures:    s.failures,
		ByAlgorithm: by,
	}
}
