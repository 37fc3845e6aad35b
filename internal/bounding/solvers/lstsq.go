package solvers

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LeastSquaresSolver fits an ordinary least-squares plane to the samples and
// lifts its intercept to the support, so the result dominates every supplied
// value. Works in any dimension. The slack is not needed: the lifted plane is
// an exact discrete upper bound.
type LeastSquaresSolver struct{}

// Name implements Solver.
func (s *LeastSquaresSolver) Name() string { return "lstsq" }

// Solve implements Solver.
func (s *LeastSquaresSolver) Solve(points [][]float64, values []float64, eps float64) ([]float64, error) {
	dim, err := validate(points, values)
	if err != nil {
		return nil, err
	}

	m := len(points)
	a := mat.NewDense(m, dim+1, nil)
	b := mat.NewVecDense(m, nil)
	for i, p := range points {
		for j, v := range p {
			a.Set(i, j, v)
		}
		a.Set(i, dim, 1)
		b.SetVec(i, values[i])
	}

	var sol mat.VecDense
	if err := sol.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("least-squares solve failed: %w", err)
	}

	coeffs := make([]float64, dim+1)
	for i := range coeffs {
		coeffs[i] = sol.AtVec(i)
	}
	coeffs[dim] = support(points, values, coeffs[:dim])
	return coeffs, nil
}
