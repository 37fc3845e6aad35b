package solvers

import (
	"gonum.org/v1/gonum/optimize"
)

// MinimaxSolver polishes a least-squares start with Nelder-Mead, minimizing
// the worst gap between the candidate plane and the samples. The intercept is
// pinned to the support of the current slopes, so every candidate visited by
// the search is already a discrete upper bound and the slack only loosens the
// convergence criterion. Works in any dimension.
type MinimaxSolver struct{}

// Name implements Solver.
func (s *MinimaxSolver) Name() string { return "minimax" }

// Solve implements Solver.
func (s *MinimaxSolver) Solve(points [][]float64, values []float64, eps float64) ([]float64, error) {
	dim, err := validate(points, values)
	if err != nil {
		return nil, err
	}

	start, err := (&LeastSquaresSolver{}).Solve(points, values, eps)
	if err != nil {
		return nil, err
	}

	// Worst gap of the support-lifted plane with the given slopes.
	worstGap := func(slopes []float64) float64 {
		b := support(points, values, slopes)
		worst := 0.0
		for i, p := range points {
			dot := 0.0
			for j, s := range slopes {
				dot += s * p[j]
			}
			if g := dot + b - values[i]; i == 0 || g > worst {
				worst = g
			}
		}
		return worst
	}

	problem := optimize.Problem{
		Func: worstGap,
	}

	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{
			Absolute:   eps / 10,
			Relative:   1e-6,
			Iterations: 100,
		},
	}

	method := &optimize.NelderMead{
		Reflection:  1.0,
		Expansion:   2.0,
		Contraction: 0.5,
		Shrink:      0.5,
		SimplexSize: 0.2,
	}

	slopes := append([]float64(nil), start[:dim]...)
	result, err := optimize.Minimize(problem, slopes, settings, method)
	if err == nil && result != nil && worstGap(result.X) < worstGap(slopes) {
		slopes = result.X
	}

	coeffs := append(append([]float64(nil), slopes...), support(points, values, slopes))
	return coeffs, nil
}
