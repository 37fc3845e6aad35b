package bounding

import "math"

// CatalogEntry is a named one-dimensional target function with its analytic
// gradient and region-dependent Lipschitz constants. The constants are
// functions of the region because several targets (square, cube, exp) have no
// global Lipschitz bound.
type CatalogEntry struct {
	Name     string
	Target   Func
	Gradient Grad
	L1       func(Region) float64
	L2       func(Region) float64
}

// maxAbs returns the largest coordinate magnitude reachable on the first axis.
func maxAbs(r Region) float64 {
	return math.Max(math.Abs(r[0][0]), math.Abs(r[0][1]))
}

var catalog = map[string]CatalogEntry{
	"square": {
		Name:     "square",
		Target:   func(x []float64) float64 { return x[0] * x[0] },
		Gradient: func(x []float64) []float64 { return []float64{2 * x[0]} },
		L1:       func(r Region) float64 { return 2 * maxAbs(r) },
		L2:       func(r Region) float64 { return 2 },
	},
	"cube": {
		Name:     "cube",
		Target:   func(x []float64) float64 { return x[0] * x[0] * x[0] },
		Gradient: func(x []float64) []float64 { return []float64{3 * x[0] * x[0]} },
		L1:       func(r Region) float64 { m := maxAbs(r); return 3 * m * m },
		L2:       func(r Region) float64 { return 6 * maxAbs(r) },
	},
	"sin": {
		Name:     "sin",
		Target:   func(x []float64) float64 { return math.Sin(x[0]) },
		Gradient: func(x []float64) []float64 { return []float64{math.Cos(x[0])} },
		L1:       func(Region) float64 { return 1 },
		L2:       func(Region) float64 { return 1 },
	},
	"tanh": {
		Name:     "tanh",
		Target:   func(x []float64) float64 { return math.Tanh(x[0]) },
		Gradient: func(x []float64) []float64 {
			t := math.Tanh(x[0])
			return []float64{1 - t*t}
		},
		L1: func(Region) float64 { return 1 },
		// max |tanh''| = 4/(3*sqrt(3))
		L2: func(Region) float64 { return 0.7698 },
	},
	"exp": {
		Name:     "exp",
		Target:   func(x []float64) float64 { return math.Exp(x[0]) },
		Gradient: func(x []float64) []float64 { return []float64{math.Exp(x[0])} },
		L1:       func(r Region) float64 { return math.Exp(r[0][1]) },
		L2:       func(r Region) float64 { return math.Exp(r[0][1]) },
	},
	"softplus": {
		Name:   "softplus",
		Target: func(x []float64) float64 { return math.Log1p(math.Exp(x[0])) },
		Gradient: func(x []float64) []float64 {
			return []float64{1 / (1 + math.Exp(-x[0]))}
		},
		L1: func(Region) float64 { return 1 },
		// max sigmoid' = 1/4
		L2: func(Region) float64 { return 0.25 },
	},
}

// LookupTarget returns the catalog entry registered under name.
func LookupTarget(name string) (CatalogEntry, bool) {
	e, ok := catalog[name]
	return e, ok
}

// TargetNames returns the names of the built-in targets.
func TargetNames() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	return names
}
