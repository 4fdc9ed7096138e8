package api

// PointJSON is a pixel position in JSON.
type PointJSON struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// MazeJSON describes the graph built from the uploaded image.
type MazeJSON struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Nodes  int `json:"nodes"`
}

// SolveResponse is the JSON response for POST /api/v1/solve.
type SolveResponse struct {
	RequestID       string      `json:"request_id"`
	Algorithm       string      `json:"algorithm"`
	Completed       bool        `json:"completed"`
	NodesConsidered int         `json:"nodes_considered"`
	PathNodes       int         `json:"path_nodes"`
	PixelDistance   int         `json:"pixel_distance"`
	DurationMicros  int64       `json:"duration_us"`
	Start           PointJSON   `json:"start"`
	End             PointJSON   `json:"end"`
	Path            []PointJSON `json:"path"`
	Maze            MazeJSON    `json:"maze"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error  string `json:"error"`
	Field  string `json:"field,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// StatsResponse is the JSON response for GET /api/v1/stats.
type StatsResponse struct {
	Solves      uint64            `json:"solves"`
	Compares    uint64            `json:"compares"`
	Failures    uint64            `json:"failures"`
	ByAlgorithm map[string]uint64 `json:"by_algorithm"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}
