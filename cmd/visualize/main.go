package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/azybler/maze_solver/pkg/graph"
	"github.com/azybler/maze_solver/pkg/osm"
	"github.com/azybler/maze_solver/pkg/render"
	"github.com/azybler/maze_solver/pkg/solver"
)

func main() {
	input := flag.String("input", "", "Maze image, text maze (.txt), graph (.bin) or OSM file (.osm, .pbf)")
	output := flag.String("output", "maze.svg", "Output file; the extension picks the format (svg, png, dot)")
	algorithm := flag.String("algorithm", "", "Highlight the path found by this algorithm (empty = graph only)")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: visualize --input <maze.png> [--output maze.svg] [--algorithm astar]")
		os.Exit(1)
	}

	format, err := render.ParseGraphvizFormat(strings.TrimPrefix(strings.ToLower(filepath.Ext(*output)), "."))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	var g *graph.Graph
	switch strings.ToLower(filepath.Ext(*input)) {
	case ".bin":
		g, err = graph.ReadBinary(*input)
	case ".osm", ".pbf":
		g, err = osm.ReadFile(ctx, *input)
	default:
		g, _, err = graph.Load(*input)
	}
	if err != nil {
		log.Fatalf("Failed to load maze: %v", err)
	}
	log.Printf("Graph: %d nodes, %d corridors", g.NumNodes(), g.NumEdges())

	var path []graph.Position
	if *algorithm != "" {
		alg, err := solver.ParseAlgorithm(*algorithm)
		if err != nil {
			log.Fatal(err)
		}
		sol, err := solver.NewEngine().Solve(ctx, solver.Request{Graph: g, Algorithm: alg})
		if err != nil {
			log.Fatalf("Failed to solve: %v", err)
		}
		if sol.Result.Completed {
			path = sol.Result.Path
			log.Printf("%s: %d path nodes, %d pixels", alg.DisplayName(), len(path), sol.PixelDistance)
		} else {
			log.Printf("%s found no solution", alg.DisplayName())
		}
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Failed to create output: %v", err)
	}
	defer f.Close()

	start := time.Now()
	if err := render.Graphviz(ctx, g, path, format, f); err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
	log.Printf("Rendered %s in %s", *output, time.Since(start).Round(time.Millisecond))
}
