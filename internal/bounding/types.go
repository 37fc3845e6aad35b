package bounding

// Func evaluates the target function at a single point. The engine calls it
// once per cell center; implementations must be safe for repeated calls with
// the same point.
type Func func(x []float64) float64

// Grad evaluates the gradient of the target function at a single point,
// returning one partial derivative per coordinate.
type Grad func(x []float64) []float64

// Region is an axis-aligned hyperrectangle: one closed [lo, hi] interval per
// input coordinate. It is immutable for the duration of a bound computation.
type Region [][2]float64

// Dim returns the number of coordinates.
func (r Region) Dim() int {
	return len(r)
}

// Volume returns the product of the interval widths.
func (r Region) Volume() float64 {
	v := 1.0
	for _, iv := range r {
		v *= iv[1] - iv[0]
	}
	return v
}

// Center returns the centroid of the region.
func (r Region) Center() []float64 {
	c := make([]float64, len(r))
	for i, iv := range r {
		c[i] = (iv[0] + iv[1]) / 2
	}
	return c
}

// widthTolerance is the slack allowed when checking interval widths, so that
// regions produced by upstream floating-point arithmetic are not rejected for
// rounding noise.
const widthTolerance = 1e-5

// Validate checks that every interval has positive width.
func (r Region) Validate() error {
	const op = "Region.Validate"
	if len(r) == 0 {
		return NewError("region has no intervals").WithOperation(op).WithComponent("bounding")
	}
	for i, iv := range r {
		if iv[1]-iv[0] <= -widthTolerance {
			return NewErrorf("interval %d has non-positive width [%g, %g]", i, iv[0], iv[1]).
				WithOperation(op).WithComponent("bounding")
		}
	}
	return nil
}

// sample is one entry of the engine's working set: a grid cell represented by
// its center and diagonal length, plus the (possibly negated) target value and
// gradient at the center. Cells are never materialized as boxes; the center
// and diameter are all the margin formulas need.
type sample struct {
	point []float64
	diam  float64
	value float64
	grad  []float64
}

// Config is the immutable configuration of a Bounder. Target is required.
// When Gradient is nil a central finite-difference approximation is used.
type Config struct {
	// Target is the scalar function to bound.
	Target Func

	// Gradient is the jacobian of Target. Optional.
	Gradient Grad

	// L1 is a Lipschitz constant of Target over any region passed to
	// FindOptimalBounds.
	L1 float64

	// L2 is a Lipschitz constant of the gradient of Target.
	L2 float64

	// Eps is the certification slack. Defaults to 0.01.
	Eps float64

	// InitialPoints is the target size of the initial sampling grid.
	// Defaults to 200 and must exceed 2.
	InitialPoints int

	// Solver names the discrete bounding strategy. Defaults to "bisect".
	Solver string

	// MaxRefinements caps the certify/subdivide loop. Defaults to 64.
	MaxRefinements int
}

const (
	defaultEps            = 1e-2
	defaultInitialPoints  = 200
	defaultSolver         = "bisect"
	defaultMaxRefinements = 64
)
