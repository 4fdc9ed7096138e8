package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	fcolor "github.com/fatih/color"

	"github.com/azybler/maze_solver/pkg/compare"
	"github.com/azybler/maze_solver/pkg/config"
	"github.com/azybler/maze_solver/pkg/graph"
	"github.com/azybler/maze_solver/pkg/osm"
	"github.com/azybler/maze_solver/pkg/render"
	"github.com/azybler/maze_solver/pkg/solver"
)

type cliArgs struct {
	configFile string
	genConfig  bool

	input        string
	output       string
	algorithm    string
	compare      string
	start        string
	end          string
	maxSteps     int
	snapDistance float64
	format       string
	noColour     bool

	set map[string]bool
}

func parseArgs() cliArgs {
	var a cliArgs
	d := config.Default()

	flag.StringVar(&a.configFile, "config", "", "Run file in YAML; use -genConfig to produce an example")
	flag.BoolVar(&a.genConfig, "genConfig", false, "Write an example run file to -config (default solve.yaml), then exit")
	flag.StringVar(&a.input, "input", "", "Maze image (png, gif, bmp), text maze (.txt), graph (.bin) or OSM file (.osm, .pbf)")
	flag.StringVar(&a.input, "i", "", "Shorthand for -input")
	flag.StringVar(&a.output, "output", d.Output, "Solution image; a .txt extension writes a text rendering")
	flag.StringVar(&a.output, "o", d.Output, "Shorthand for -output")
	flag.StringVar(&a.algorithm, "algorithm", d.Algorithm.String(), "Algorithm: bfs, dfs, astar (a*) or wall")
	flag.StringVar(&a.algorithm, "a", d.Algorithm.String(), "Shorthand for -algorithm")
	flag.StringVar(&a.compare, "compare", "", "Comma-separated list of two or more algorithms to compare")
	flag.StringVar(&a.start, "start", "", "Start pixel as x,y; snapped to the nearest corridor")
	flag.StringVar(&a.end, "end", "", "End pixel as x,y; snapped to the nearest corridor")
	flag.IntVar(&a.maxSteps, "max-steps", d.MaxSteps, "Stop a strategy after this many steps (0 = no limit)")
	flag.Float64Var(&a.snapDistance, "snap-distance", d.SnapDistance, "Largest distance in pixels from -start/-end to a corridor")
	flag.StringVar(&a.format, "format", string(d.Format), "Comparison report format: text, yaml or json")
	flag.BoolVar(&a.noColour, "no-color", false, "Disable coloured output")
	flag.Parse()

	a.set = make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { a.set[f.Name] = true })
	return a
}

// runConfig merges the run file with flags given on the command line.
func runConfig(a cliArgs) (config.Run, error) {
	run := config.Default()
	if a.configFile != "" {
		var err error
		if run, err = config.Load(a.configFile); err != nil {
			return run, err
		}
	}

	if a.set["input"] || a.set["i"] {
		run.Input = a.input
	}
	if a.set["output"] || a.set["o"] {
		run.Output = a.output
	}
	if a.set["algorithm"] || a.set["a"] {
		alg, err := solver.ParseAlgorithm(a.algorithm)
		if err != nil {
			return run, err
		}
		run.Algorithm = alg
	}
	if a.set["compare"] {
		algs, err := solver.ParseAlgorithms(a.compare)
		if err != nil {
			return run, err
		}
		run.Compare = algs
	}
	if a.set["start"] {
		p, err := parsePoint(a.start)
		if err != nil {
			return run, fmt.Errorf("-start: %w", err)
		}
		run.Start = p
	}
	if a.set["end"] {
		p, err := parsePoint(a.end)
		if err != nil {
			return run, fmt.Errorf("-end: %w", err)
		}
		run.End = p
	}
	if a.set["max-steps"] {
		run.MaxSteps = a.maxSteps
	}
	if a.set["snap-distance"] {
		run.SnapDistance = a.snapDistance
	}
	if a.set["format"] {
		run.Format = compare.Format(a.format)
	}
	if a.set["no-color"] {
		run.Colour = !a.noColour
	}
	return run, run.Validate()
}

func parsePoint(s string) (*config.Point, error) {
	var p config.Point
	if _, err := fmt.Sscanf(s, "%d,%d", &p.X, &p.Y); err != nil {
		return nil, fmt.Errorf("expected x,y: %w", err)
	}
	return &p, nil
}

// loadMaze reads the maze graph and, for image and text inputs, the image it
// was built from.
func loadMaze(ctx context.Context, path string) (*graph.Graph, image.Image, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bin":
		g, err := graph.ReadBinary(path)
		return g, nil, err
	case ".osm", ".pbf":
		g, err := osm.ReadFile(ctx, path)
		return g, nil, err
	}
	return graph.Load(path)
}

// writeSolution draws route onto img and saves it, as text for a .txt path.
func writeSolution(path string, img image.Image, route []graph.Position) (int, error) {
	out, dist := render.DrawSolution(img, route, nil)
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		return dist, os.WriteFile(path, []byte(render.ASCII(img, route)), 0o644)
	}
	return dist, render.SavePNG(path, out)
}

// compareColours are the overlay colours, in drawing order.
var compareColours = []struct {
	alg    solver.Algorithm
	colour color.RGBA
	name   string
}{
	{solver.AlgDFS, render.ColourDFS, "red"},
	{solver.AlgBFS, render.ColourBFS, "green"},
	{solver.AlgAStar, render.ColourAStar, "blue"},
	{solver.AlgWall, render.ColourWall, "purple"},
}

func main() {
	log.SetFlags(log.Lshortfile)

	args := parseArgs()

	if args.genConfig {
		path := args.configFile
		if path == "" {
			path = "solve.yaml"
		}
		if err := config.Save(path, config.Example()); err != nil {
			log.Fatal(err)
		}
		log.Printf("Wrote example run file to %s", path)
		return
	}

	run, err := runConfig(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Usage: solve -i <maze.png> [-o solution.png] [-a bfs|dfs|astar|wall] [-compare bfs,astar,...] [-config run.yaml]")
		log.Fatal(err)
	}
	fcolor.NoColor = fcolor.NoColor || !run.Colour

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Step 1: Build the maze graph.
	log.Printf("Loading %s...", run.Input)
	t0 := time.Now()
	g, img, err := loadMaze(ctx, run.Input)
	if err != nil {
		log.Fatalf("Failed to load maze: %v", err)
	}
	log.Printf("Found %d nodes in %s", g.NumNodes(), time.Since(t0).Round(time.Microsecond))

	engine := solver.NewEngine(
		solver.WithMaxSteps(run.MaxSteps),
		solver.WithSnapDistance(run.SnapDistance),
	)
	req := solver.Request{Graph: g}
	if run.Start != nil {
		p := run.Start.Position()
		req.Start = &p
	}
	if run.End != nil {
		p := run.End.Position()
		req.End = &p
	}

	// Step 2: Solve.
	if len(run.Compare) > 0 {
		runCompare(ctx, engine, req, run, img)
	} else {
		runSingle(ctx, engine, req, run, img)
	}
	log.Println("Done.")
}

func runSingle(ctx context.Context, engine *solver.Engine, req solver.Request, run config.Run, img image.Image) {
	req.Algorithm = run.Algorithm
	log.Printf("Solving with %s...", run.Algorithm.DisplayName())

	sol, err := engine.Solve(ctx, req)
	if err != nil {
		log.Fatalf("Failed to solve: %v", err)
	}
	res := sol.Result
	if !res.Completed {
		fcolor.New(fcolor.FgYellow).Printf("No solution (%d nodes considered).\n", res.NodesConsidered)
		return
	}

	fmt.Printf("Nodes explored: %d\n", res.NodesConsidered)
	fmt.Printf("Path length: %d nodes\n", len(res.Path))
	fmt.Printf("Time elapsed: %s\n", sol.Duration.Round(time.Microsecond))

	if img == nil {
		fmt.Printf("Path length: %d pixels\n", sol.PixelDistance)
		log.Printf("Input has no image; skipping %s", run.Output)
		return
	}
	dist, err := writeSolution(run.Output, img, res.Path)
	if err != nil {
		log.Fatalf("Failed to write solution: %v", err)
	}
	fmt.Printf("Path length as drawn: %d pixels\n", dist)
	log.Printf("Wrote %s", run.Output)
}

func runCompare(ctx context.Context, engine *solver.Engine, req solver.Request, run config.Run, img image.Image) {
	log.Printf("Comparing %d algorithms...", len(run.Compare))

	report, err := compare.Run(ctx, engine, req, run.Compare)
	if err != nil {
		log.Fatalf("Comparison failed: %v", err)
	}
	if err := compare.Write(os.Stdout, report, run.Format, !fcolor.NoColor); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}
	if img == nil || !report.Summary.Solved {
		return
	}

	paths := make(map[solver.Algorithm][]graph.Position, len(report.Entries))
	for _, e := range report.Entries {
		if e.Completed {
			paths[e.Algorithm] = e.Path
		}
	}

	out := img
	for _, c := range compareColours {
		route, ok := paths[c.alg]
		if !ok {
			continue
		}
		log.Printf("Drawing path found by %s (%s)...", c.alg.DisplayName(), c.name)
		out, _ = render.DrawSolution(out, route, &c.colour)
	}
	if err := render.SavePNG(run.Output, out); err != nil {
		log.Fatalf("Failed to write solution: %v", err)
	}
	log.Printf("Wrote %s", run.Output)
}
