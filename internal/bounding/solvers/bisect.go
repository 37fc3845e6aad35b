package solvers

import (
	"fmt"
	"sort"
)

// BisectSolver finds a near-optimal discrete upper line for one-dimensional
// samples by interval halving on the slope. For a fixed slope a the tightest
// intercept is the support b(a) = max_i(v_i - a*x_i); the mean gap of the
// resulting line is convex piecewise-linear in a, so a dichotomy over a slope
// bracket converges to its minimizer. The supplied slack is used as the
// convergence tolerance on the bracket width.
type BisectSolver struct{}

// Name implements Solver.
func (s *BisectSolver) Name() string { return "bisect" }

const bisectMaxIter = 200

// Solve implements Solver.
func (s *BisectSolver) Solve(points [][]float64, values []float64, eps float64) ([]float64, error) {
	dim, err := validate(points, values)
	if err != nil {
		return nil, err
	}
	if dim != 1 {
		return nil, fmt.Errorf("bisect solver supports one-dimensional points only, got dim %d", dim)
	}

	type pv struct{ x, v float64 }
	ps := make([]pv, len(points))
	for i, p := range points {
		ps[i] = pv{x: p[0], v: values[i]}
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].x < ps[j].x })

	// Bracket the optimal slope with the extreme adjacent secant slopes.
	// The best upper line is supported by the upper convex hull, whose edge
	// slopes all lie inside this range.
	lo, hi := 0.0, 0.0
	first := true
	for i := 1; i < len(ps); i++ {
		dx := ps[i].x - ps[i-1].x
		if dx == 0 {
			continue
		}
		sec := (ps[i].v - ps[i-1].v) / dx
		if first {
			lo, hi = sec, sec
			first = false
			continue
		}
		if sec < lo {
			lo = sec
		}
		if sec > hi {
			hi = sec
		}
	}

	gap := func(a float64) float64 {
		b := 0.0
		for i, p := range ps {
			if r := p.v - a*p.x; i == 0 || r > b {
				b = r
			}
		}
		total := 0.0
		for _, p := range ps {
			total += a*p.x + b - p.v
		}
		return total / float64(len(ps))
	}

	for k := 0; k < bisectMaxIter && (hi-lo)/2 > eps; k++ {
		delta := (hi - lo) / 1000
		x1 := (lo + hi - delta) / 2
		x2 := (lo + hi + delta) / 2
		if gap(x1) <= gap(x2) {
			hi = x2
		} else {
			lo = x1
		}
	}

	a := (lo + hi) / 2
	b := support(points, values, []float64{a})
	return []float64{a, b}, nil
}
