package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/azybler/maze_solver/pkg/graph"
	"github.com/azybler/maze_solver/pkg/osm"
)

func main() {
	input := flag.String("input", "", "Maze image (png, gif, bmp) or text maze (.txt)")
	output := flag.String("output", "maze.bin", "Output graph file path")
	format := flag.String("format", "", "Output format: bin or osm (default: from the output extension)")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: preprocess --input <maze.png> [--output maze.bin | maze.osm] [--format bin|osm]")
		os.Exit(1)
	}

	outFormat := *format
	if outFormat == "" {
		outFormat = strings.TrimPrefix(strings.ToLower(filepath.Ext(*output)), ".")
	}
	if outFormat != "bin" && outFormat != "osm" {
		log.Fatalf("Unknown output format %q (expected bin or osm)", outFormat)
	}

	start := time.Now()

	// Step 1: Build the maze graph from the image.
	log.Printf("Loading %s...", *input)
	g, _, err := graph.Load(*input)
	if err != nil {
		log.Fatalf("Failed to build maze graph: %v", err)
	}
	log.Printf("Graph: %dx%d image, %d nodes, %d corridors", g.Width, g.Height, g.NumNodes(), g.NumEdges())

	// Step 2: Connectivity report.
	largest := graph.LargestComponent(g)
	log.Printf("Components: %d; largest has %d nodes (%.1f%%)",
		graph.ComponentCount(g), len(largest), float64(len(largest))/float64(g.NumNodes())*100)
	if graph.Solvable(g) {
		log.Println("Start and end are connected")
	} else {
		log.Println("Warning: start and end are not connected; every strategy will report no solution")
	}

	// Step 3: Serialize.
	log.Printf("Writing %s to %s...", outFormat, *output)
	switch outFormat {
	case "bin":
		err = graph.WriteBinary(*output, g)
	case "osm":
		err = osm.WriteFile(*output, g)
	}
	if err != nil {
		log.Fatalf("Failed to write graph: %v", err)
	}

	info, _ := os.Stat(*output)
	elapsed := time.Since(start)
	log.Printf("Done in %s. Output: %s (%.1f KB)", elapsed.Round(time.Millisecond), *output, float64(info.Size())/1024)
}
