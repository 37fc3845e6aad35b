// Package server exposes the affine bounding engine over HTTP and JSON-RPC.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/affinebound/affinebound/internal/bounding"
	"github.com/affinebound/affinebound/internal/bounding/solvers"
	"github.com/affinebound/affinebound/internal/config"
	"github.com/affinebound/affinebound/internal/logging"
)

// Logger defines the logging interface used by the server.
type Logger interface {
	Debug(msg string, fields ...map[string]interface{})
	Info(msg string, fields ...map[string]interface{})
	Warn(msg string, fields ...map[string]interface{})
	Error(msg string, fields ...map[string]interface{})
	Fatal(msg string, fields ...map[string]interface{})
	WithFields(fields map[string]interface{}) *logging.Logger
}

// Server handles bound-computation requests against the built-in target
// catalog. Computations are synchronous: a certified bound for a
// one-dimensional region takes milliseconds, so there is no job lifecycle.
type Server struct {
	cfg    *config.Config
	logger Logger
	zlog   *zap.Logger
}

// NewServer creates a new server instance with the given config and logger.
func NewServer(cfg *config.Config, logger Logger, zlog *zap.Logger) *Server {
	return &Server{cfg: cfg, logger: logger, zlog: zlog}
}

// RegisterRoutes mounts the API on the router.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/bounds", s.handleBounds)
		r.Get("/targets", s.handleTargets)
	})

	// JSON-RPC 2.0 endpoint
	r.Post("/rpc", s.handleJSONRPC)
}

// boundsRequest is the payload of POST /api/v1/bounds and of the
// bounds.compute JSON-RPC method.
type boundsRequest struct {
	// Target names a catalog function (square, sin, tanh, ...).
	Target string `json:"target"`
	// Region is one [lo, hi] pair per input coordinate.
	Region [][]float64 `json:"region"`
	// Optional overrides of the configured defaults.
	Eps           float64 `json:"eps,omitempty"`
	InitialPoints int     `json:"initial_points,omitempty"`
	Solver        string  `json:"solver,omitempty"`
}

type boundsResponse struct {
	Target      string    `json:"target"`
	Lower       []float64 `json:"lower"`
	Upper       []float64 `json:"upper"`
	Refinements int       `json:"refinements"`
	Samples     int       `json:"samples"`
	ElapsedMS   float64   `json:"elapsed_ms"`
}

// compute resolves the request against the catalog and runs the bounder.
func (s *Server) compute(ctx context.Context, req *boundsRequest) (*boundsResponse, error) {
	if req.Target == "" {
		return nil, fmt.Errorf("target is required")
	}
	entry, ok := bounding.LookupTarget(req.Target)
	if !ok {
		return nil, fmt.Errorf("unknown target %q", req.Target)
	}
	if len(req.Region) == 0 {
		return nil, fmt.Errorf("region is required")
	}

	region := make(bounding.Region, len(req.Region))
	for i, iv := range req.Region {
		if len(iv) != 2 {
			return nil, fmt.Errorf("region interval %d must be a [lo, hi] pair", i)
		}
		region[i] = [2]float64{iv[0], iv[1]}
	}

	cfg := bounding.Config{
		Target:         entry.Target,
		Gradient:       entry.Gradient,
		L1:             entry.L1(region),
		L2:             entry.L2(region),
		Eps:            s.cfg.Bounding.Eps,
		InitialPoints:  s.cfg.Bounding.InitialPoints,
		Solver:         s.cfg.Bounding.Solver,
		MaxRefinements: s.cfg.Bounding.MaxRefinements,
	}
	if req.Eps > 0 {
		cfg.Eps = req.Eps
	}
	if req.InitialPoints > 0 {
		cfg.InitialPoints = req.InitialPoints
	}
	if req.Solver != "" {
		cfg.Solver = req.Solver
	}

	bounder, err := bounding.NewBounder(cfg, s.zlog)
	if err != nil {
		computationsTotal.WithLabelValues(req.Target, "config_error").Inc()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Bounding.RequestTimeout)
	defer cancel()

	start := time.Now()
	result, err := bounder.Compute(ctx, region)
	elapsed := time.Since(start)
	if err != nil {
		computationsTotal.WithLabelValues(req.Target, "error").Inc()
		return nil, err
	}

	computationsTotal.WithLabelValues(req.Target, "ok").Inc()
	computationDuration.Observe(elapsed.Seconds())
	refinementIterations.Observe(float64(result.Refinements))
	finalSampleCount.Observe(float64(result.Samples))

	s.logger.Info("Computed bounds", map[string]interface{}{
		"target":      req.Target,
		"dim":         region.Dim(),
		"refinements": result.Refinements,
		"samples":     result.Samples,
		"elapsed_ms":  float64(elapsed.Microseconds()) / 1000.0,
	})

	return &boundsResponse{
		Target:      req.Target,
		Lower:       result.Lower,
		Upper:       result.Upper,
		Refinements: result.Refinements,
		Samples:     result.Samples,
		ElapsedMS:   float64(elapsed.Microseconds()) / 1000.0,
	}, nil
}

// handleBounds handles POST /api/v1/bounds.
func (s *Server) handleBounds(w http.ResponseWriter, r *http.Request) {
	var req boundsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": fmt.Sprintf("invalid request body: %v", err),
		})
		return
	}

	resp, err := s.compute(r.Context(), &req)
	if err != nil {
		s.respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// handleTargets handles GET /api/v1/targets.
func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	targets := bounding.TargetNames()
	sort.Strings(targets)
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"targets": targets,
		"solvers": solvers.Names(),
	})
}

// handleJSONRPC handles JSON-RPC 2.0 requests.
func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	var request struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      interface{}     `json:"id"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.respondRPCError(w, -32700, "Parse error", nil)
		return
	}
	if request.JSONRPC != "2.0" {
		s.respondRPCError(w, -32600, "Invalid Request", request.ID)
		return
	}

	var result interface{}
	var err error
	switch request.Method {
	case "bounds.compute":
		var req boundsRequest
		if err := json.Unmarshal(request.Params, &req); err != nil {
			s.respondRPCError(w, -32602, "Invalid params", request.ID)
			return
		}
		result, err = s.compute(r.Context(), &req)
	case "bounds.targets":
		targets := bounding.TargetNames()
		sort.Strings(targets)
		result = map[string]interface{}{
			"targets": targets,
			"solvers": solvers.Names(),
		}
	default:
		s.respondRPCError(w, -32601, "Method not found", request.ID)
		return
	}

	if err != nil {
		s.respondRPCError(w, -32000, err.Error(), request.ID)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      request.ID,
		"result":  result,
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Failed to encode response", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *Server) respondRPCError(w http.ResponseWriter, code int, message string, id interface{}) {
	s.logger.Error("Request error", map[string]interface{}{
		"code":    code,
		"message": message,
	})
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"jsonrpc": "2.0",
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
		"id": id,
	})
}
