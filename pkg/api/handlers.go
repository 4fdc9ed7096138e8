package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/azybler/maze_solver/pkg/compare"
	"github.com/azybler/maze_solver/pkg/graph"
	"github.com/azybler/maze_solver/pkg/solver"
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	solver    solver.Solver
	maxUpload int64
	maxPixels int64
	stats     *stats
}

// NewHandlers creates handlers that solve with s and accept uploads of up to
// maxUpload bytes describing mazes of at most maxPixels pixels.
func NewHandlers(s solver.Solver, maxUpload, maxPixels int64) *Handlers {
	return &Handlers{
		solver:    s,
		maxUpload: maxUpload,
		maxPixels: maxPixels,
		stats:     newStats(),
	}
}

// HandleSolve handles POST /api/v1/solve.
func (h *Handlers) HandleSolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	alg := solver.AlgBFS
	if name := q.Get("algorithm"); name != "" {
		var err error
		if alg, err = solver.ParseAlgorithm(name); err != nil {
			writeError(w, http.StatusBadRequest, "unknown_algorithm", "algorithm", "")
			return
		}
	}

	req, ok := h.readRequest(w, r)
	if !ok {
		return
	}
	req.Algorithm = alg

	sol, err := h.solver.Solve(r.Context(), req)
	h.stats.recordSolve(alg, sol, err)
	if err != nil {
		writeSolveError(w, err)
		return
	}

	resp := SolveResponse{
		RequestID:       requestID(r.Context()),
		Algorithm:       alg.String(),
		Completed:       sol.Result.Completed,
		NodesConsidered: sol.Result.NodesConsidered,
		PathNodes:       len(sol.Result.Path),
		PixelDistance:   sol.PixelDistance,
		DurationMicros:  sol.Duration.Microseconds(),
		Start:           PointJSON{X: sol.Start.X, Y: sol.Start.Y},
		End:             PointJSON{X: sol.End.X, Y: sol.End.Y},
		Path:            make([]PointJSON, len(sol.Result.Path)),
		Maze: MazeJSON{
			Width:  req.Graph.Width,
			Height: req.Graph.Height,
			Nodes:  req.Graph.NumNodes(),
		},
	}
	for i, p := range sol.Result.Path {
		resp.Path[i] = PointJSON{X: p.X, Y: p.Y}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleCompare handles POST /api/v1/compare.
func (h *Handlers) HandleCompare(w http.ResponseWriter, r *http.Request) {
	algs, err := solver.ParseAlgorithms(r.URL.Query().Get("algorithms"))
	if err != nil {
		if errors.Is(err, solver.ErrUnknownAlgorithm) {
			writeError(w, http.StatusBadRequest, "unknown_algorithm", "algorithms", "")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "algorithms", err.Error())
		return
	}
	if len(algs) < 2 {
		writeError(w, http.StatusBadRequest, "invalid_request", "algorithms", compare.ErrTooFewAlgorithms.Error())
		return
	}

	req, ok := h.readRequest(w, r)
	if !ok {
		return
	}

	report, err := compare.Run(r.Context(), h.solver, req, algs)
	if err != nil {
		writeSolveError(w, err)
		return
	}
	h.stats.recordCompare()

	w.Header().Set("Content-Type", "application/json")
	compare.WriteJSON(w, report)
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.stats.snapshot())
}

// readRequest decodes the uploaded maze and the optional start and end
// points. On failure it writes the error response and returns false.
func (h *Handlers) readRequest(w http.ResponseWriter, r *http.Request) (solver.Request, bool) {
	var req solver.Request
	q := r.URL.Query()

	start, err := parsePoint(q, "start")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "start", err.Error())
		return req, false
	}
	end, err := parsePoint(q, "end")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "end", err.Error())
		return req, false
	}

	// Enforce Content-Type.
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var decodeConfig func(io.Reader) (image.Config, error)
	var decode func(io.Reader) (image.Image, error)
	switch mediaType {
	case "image/png", "image/gif", "image/bmp":
		decodeConfig = func(r io.Reader) (image.Config, error) {
			cfg, _, err := image.DecodeConfig(r)
			return cfg, err
		}
		decode = func(r io.Reader) (image.Image, error) {
			img, _, err := image.Decode(r)
			return img, err
		}
	case "text/plain":
		decodeConfig = graph.DecodeTextConfig
		decode = func(r io.Reader) (image.Image, error) { return graph.DecodeText(r) }
	default:
		writeError(w, http.StatusBadRequest, "invalid_request", "content-type", "")
		return req, false
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUpload))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request_too_large", "", "")
			return req, false
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "", err.Error())
		return req, false
	}

	// Dimensions are checked before decoding; pixel data is allocated by size.
	cfg, err := decodeConfig(bytes.NewReader(data))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid_image", "", err.Error())
		return req, false
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); h.maxPixels > 0 && pixels > h.maxPixels {
		writeError(w, http.StatusRequestEntityTooLarge, "image_too_large", "",
			fmt.Sprintf("maze is %dx%d pixels, limit is %d", cfg.Width, cfg.Height, h.maxPixels))
		return req, false
	}

	img, err := decode(bytes.NewReader(data))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid_image", "", err.Error())
		return req, false
	}

	g, err := graph.Build(img)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid_image", "", err.Error())
		return req, false
	}
	mazeNodes.Observe(float64(g.NumNodes()))

	req.Graph = g
	req.Start = start
	req.End = end
	return req, true
}

// parsePoint reads <name>_x and <name>_y. Both or neither must be present.
func parsePoint(q url.Values, name string) (*graph.Position, error) {
	xs, ys := q.Get(name+"_x"), q.Get(name+"_y")
	if xs == "" && ys == "" {
		return nil, nil
	}
	x, err := strconv.Atoi(xs)
	if err != nil || x < 0 {
		return nil, fmt.Errorf("%s_x must be a non-negative integer", name)
	}
	y, err := strconv.Atoi(ys)
	if err != nil || y < 0 {
		return nil, fmt.Errorf("%s_y must be a non-negative integer", name)
	}
	return &graph.Position{X: x, Y: y}, nil
}

func writeSolveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, solver.ErrPointTooFar):
		writeError(w, http.StatusUnprocessableEntity, "point_too_far", "", err.Error())
	case errors.Is(err, solver.ErrInvalidGraph):
		writeError(w, http.StatusUnprocessableEntity, "invalid_graph", "", err.Error())
	case errors.Is(err, solver.ErrUnknownAlgorithm):
		writeError(w, http.StatusBadRequest, "unknown_algorithm", "algorithm", "")
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "request_timeout", "", "")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "", "")
	}
}

func writeError(w http.ResponseWriter, status int, code, field, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code, Field: field, Detail: detail})
}
