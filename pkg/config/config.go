// Package config reads and writes run files for the solve command.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/azybler/maze_solver/pkg/compare"
	"github.com/azybler/maze_solver/pkg/graph"
	"github.com/azybler/maze_solver/pkg/solver"
)

// Point is a pixel coordinate in a run file.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Position converts p to a graph position.
func (p Point) Position() graph.Position { return graph.Position{X: p.X, Y: p.Y} }

// Run describes one solve or comparison.
type Run struct {
	Input        string             `yaml:"input"`
	Output       string             `yaml:"output"`
	Algorithm    solver.Algorithm   `yaml:"algorithm"`
	Compare      []solver.Algorithm `yaml:"compare,omitempty"`
	Start        *Point             `yaml:"start,omitempty"`
	End          *Point             `yaml:"end,omitempty"`
	MaxSteps     int                `yaml:"max_steps"`
	SnapDistance float64            `yaml:"snap_distance"`
	Format       compare.Format     `yaml:"format"`
	Colour       bool               `yaml:"colour"`
}

// Default returns the settings used when neither a run file nor a flag sets a value.
func Default() Run {
	return Run{
		Output:       "solution.png",
		Algorithm:    solver.AlgBFS,
		SnapDistance: 8,
		Format:       compare.FormatText,
		Colour:       true,
	}
}

// Example returns a filled-in run file.
func Example() Run {
	r := Default()
	r.Input = "examples/normal.png"
	r.Compare = []solver.Algorithm{solver.AlgBFS, solver.AlgAStar, solver.AlgWall}
	r.Start = &Point{X: 1, Y: 0}
	r.MaxSteps = 1_000_000
	return r
}

// Validate checks the settings for a run.
func (r Run) Validate() error {
	var errs []error
	if r.Input == "" {
		errs = append(errs, errors.New("input is required"))
	}
	if len(r.Compare) == 1 {
		errs = append(errs, errors.New("compare needs at least two algorithms"))
	}
	seen := make(map[solver.Algorithm]bool, len(r.Compare))
	for _, alg := range r.Compare {
		if seen[alg] {
			errs = append(errs, fmt.Errorf("compare lists %s twice", alg))
		}
		seen[alg] = true
	}
	if r.MaxSteps < 0 {
		errs = append(errs, fmt.Errorf("max_steps must not be negative, got %d", r.MaxSteps))
	}
	if r.SnapDistance <= 0 {
		errs = append(errs, fmt.Errorf("snap_distance must be positive, got %v", r.SnapDistance))
	}
	if _, err := compare.ParseFormat(string(r.Format)); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Load reads a run file. Keys missing from the file keep their Default values.
func Load(path string) (Run, error) {
	r := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return r, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.UnmarshalStrict(data, &r); err != nil {
		return r, fmt.Errorf("parsing %s: %w", path, err)
	}
	return r, nil
}

// Save writes r to path.
func Save(path string, r Run) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("yaml.Marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
