package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/azybler/maze_solver/pkg/api"
	"github.com/azybler/maze_solver/pkg/solver"
)

func main() {
	port := flag.Int("port", 8080, "HTTP port")
	corsOrigin := flag.String("cors-origin", "", "CORS allowed origin (empty = same-origin)")
	maxSteps := flag.Int("max-steps", 0, "Stop a strategy after this many steps (0 = no limit)")
	snapDistance := flag.Float64("snap-distance", 8, "Largest distance in pixels from a requested start/end to a corridor")
	maxUploadMB := flag.Int64("max-upload-mb", 32, "Largest accepted maze upload in MB")
	maxPixels := flag.Int64("max-pixels", 25_000_000, "Largest accepted maze in pixels (width x height)")
	solveTimeout := flag.Duration("solve-timeout", 30*time.Second, "Per-request solve timeout")
	flag.Parse()

	addr := fmt.Sprintf(":%d", *port)
	cfg := api.DefaultConfig(addr)
	cfg.CORSOrigin = *corsOrigin
	cfg.MaxSteps = *maxSteps
	cfg.MaxUploadBytes = *maxUploadMB << 20
	cfg.MaxPixels = *maxPixels
	cfg.SolveTimeout = *solveTimeout
	if cfg.WriteTimeout < cfg.SolveTimeout {
		cfg.WriteTimeout = cfg.SolveTimeout + 5*time.Second
	}

	engine := solver.NewEngine(
		solver.WithMaxSteps(cfg.MaxSteps),
		solver.WithSnapDistance(*snapDistance),
	)
	log.Printf("Solver ready: max steps %d, snap distance %.1f px, upload limit %d MB, %d pixels",
		engine.MaxSteps(), *snapDistance, *maxUploadMB, cfg.MaxPixels)

	handlers := api.NewHandlers(engine, cfg.MaxUploadBytes, cfg.MaxPixels)
	srv := api.NewServer(cfg, handlers)

	if err := api.ListenAndServe(srv); err != nil {
		log.Printf("Server stopped: %v", err)
		os.Exit(1)
	}
}
