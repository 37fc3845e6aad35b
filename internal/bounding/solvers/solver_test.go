package solvers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dominates checks the solver contract: the affine function defined by coeffs
// lies on or above every supplied value.
func dominates(t *testing.T, coeffs []float64, points [][]float64, values []float64) {
	t.Helper()
	dim := len(points[0])
	require.Len(t, coeffs, dim+1)
	for i, p := range points {
		pred := coeffs[dim]
		for j := 0; j < dim; j++ {
			pred += coeffs[j] * p[j]
		}
		assert.GreaterOrEqual(t, pred, values[i]-1e-9,
			"plane must dominate value at point %v", p)
	}
}

func parabolaSamples() ([][]float64, []float64) {
	xs := []float64{-1, -0.75, -0.5, -0.25, 0, 0.25, 0.5, 0.75, 1}
	points := make([][]float64, len(xs))
	values := make([]float64, len(xs))
	for i, x := range xs {
		points[i] = []float64{x}
		values[i] = x * x
	}
	return points, values
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		solver  string
		wantErr bool
	}{
		{name: "bisect", solver: "bisect"},
		{name: "lstsq", solver: "lstsq"},
		{name: "minimax", solver: "minimax"},
		{name: "unknown", solver: "simplex", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.solver)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown discrete solver")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.solver, s.Name())
		})
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"bisect", "lstsq", "minimax"}, Names())
}

func TestBisectParabola(t *testing.T) {
	points, values := parabolaSamples()
	coeffs, err := (&BisectSolver{}).Solve(points, values, 0.01)
	require.NoError(t, err)

	dominates(t, coeffs, points, values)
	// symmetric samples: the optimal slope is zero
	assert.InDelta(t, 0, coeffs[0], 0.05)
	// the support line through the endpoints has intercept 1
	assert.InDelta(t, 1, coeffs[1], 0.1)
}

func TestBisectExactLine(t *testing.T) {
	points := [][]float64{{-1}, {0}, {1}, {2}}
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = 2*p[0] - 1
	}

	coeffs, err := (&BisectSolver{}).Solve(points, values, 0.01)
	require.NoError(t, err)
	assert.InDelta(t, 2, coeffs[0], 1e-12)
	assert.InDelta(t, -1, coeffs[1], 1e-12)
}

func TestBisectRejectsHigherDimensions(t *testing.T) {
	points := [][]float64{{0, 0}, {1, 0}, {0, 1}}
	_, err := (&BisectSolver{}).Solve(points, []float64{0, 1, 2}, 0.01)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "one-dimensional")
}

func TestLeastSquaresExactPlane(t *testing.T) {
	points := [][]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0.5, 0.5}}
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p[0] + 2*p[1] + 3
	}

	coeffs, err := (&LeastSquaresSolver{}).Solve(points, values, 0.01)
	require.NoError(t, err)
	assert.InDelta(t, 1, coeffs[0], 1e-9)
	assert.InDelta(t, 2, coeffs[1], 1e-9)
	assert.InDelta(t, 3, coeffs[2], 1e-9)
}

func TestLeastSquaresDominates(t *testing.T) {
	points, values := parabolaSamples()
	coeffs, err := (&LeastSquaresSolver{}).Solve(points, values, 0.01)
	require.NoError(t, err)
	dominates(t, coeffs, points, values)
}

func TestMinimaxDominates(t *testing.T) {
	points, values := parabolaSamples()

	ls, err := (&LeastSquaresSolver{}).Solve(points, values, 0.01)
	require.NoError(t, err)
	mm, err := (&MinimaxSolver{}).Solve(points, values, 0.01)
	require.NoError(t, err)

	dominates(t, mm, points, values)

	worst := func(coeffs []float64) float64 {
		w := 0.0
		for i, p := range points {
			if g := coeffs[0]*p[0] + coeffs[1] - values[i]; g > w {
				w = g
			}
		}
		return w
	}
	// the polish step never accepts a worse plane than its start
	assert.LessOrEqual(t, worst(mm), worst(ls)+1e-9)
}

func TestSolveValidation(t *testing.T) {
	tests := []struct {
		name   string
		points [][]float64
		values []float64
	}{
		{name: "empty", points: nil, values: nil},
		{name: "length mismatch", points: [][]float64{{0}}, values: []float64{1, 2}},
		{name: "underdetermined", points: [][]float64{{0, 0}, {1, 1}}, values: []float64{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, name := range Names() {
				s, err := New(name)
				require.NoError(t, err)
				_, err = s.Solve(tt.points, tt.values, 0.01)
				assert.Error(t, err, "solver %s", name)
			}
		})
	}
}
