// Package solvers provides the discrete bounding strategies used by the
// certification engine. A strategy receives sample points with their function
// values and returns affine coefficients (c_1, ..., c_n, c_0) whose affine
// function dominates every supplied value, up to the given slack.
package solvers

import (
	"fmt"
	"sort"
)

// Solver is a discrete bounding strategy.
type Solver interface {
	// Solve returns n+1 coefficients such that for every supplied point
	// c_1*x_1 + ... + c_n*x_n + c_0 >= value - eps. Points are expected in
	// a centered coordinate frame; the caller handles recentering.
	Solve(points [][]float64, values []float64, eps float64) ([]float64, error)

	// Name returns the registry name of the strategy.
	Name() string
}

// registry maps strategy names to constructors. The set is closed: strategies
// are compiled in, not discovered.
var registry = map[string]func() Solver{
	"bisect":  func() Solver { return &BisectSolver{} },
	"lstsq":   func() Solver { return &LeastSquaresSolver{} },
	"minimax": func() Solver { return &MinimaxSolver{} },
}

// New returns the solver registered under name.
func New(name string) (Solver, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown discrete solver %q (available: %v)", name, Names())
	}
	return ctor(), nil
}

// Names returns the registered strategy names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// validate checks the common solver preconditions.
func validate(points [][]float64, values []float64) (dim int, err error) {
	if len(points) == 0 {
		return 0, fmt.Errorf("no sample points")
	}
	if len(points) != len(values) {
		return 0, fmt.Errorf("point/value length mismatch: %d != %d", len(points), len(values))
	}
	dim = len(points[0])
	if len(points) < dim+1 {
		return 0, fmt.Errorf("need at least dim+1 points, got %d for dim %d", len(points), dim)
	}
	return dim, nil
}

// support returns the smallest intercept that places the plane with the given
// slopes on or above every value, and the index of the touching point.
func support(points [][]float64, values []float64, slopes []float64) float64 {
	best := 0.0
	for i, p := range points {
		dot := 0.0
		for j, s := range slopes {
			dot += s * p[j]
		}
		if b := values[i] - dot; i == 0 || b > best {
			best = b
		}
	}
	return best
}
