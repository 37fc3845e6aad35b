package bounding

import "math"

// cubeEps is the cube root of machine epsilon, the standard relative step for
// central differences.
var cubeEps = math.Pow(math.Nextafter(1, 2)-1, 1.0/3)

// finiteDifferenceGrad wraps a target function in a gradient adapter that
// approximates each partial derivative with a central difference. It is
// applied at construction time when no analytic gradient is supplied, so the
// engine always sees a gradient callable.
func finiteDifferenceGrad(f Func) Grad {
	return func(x []float64) []float64 {
		g := make([]float64, len(x))
		p := make([]float64, len(x))
		copy(p, x)
		for i, v := range x {
			h := math.Copysign(cubeEps, v) * math.Max(1, math.Abs(v))
			// recompute the realized step to cancel rounding in v±h
			p[i] = v + h
			hi := p[i]
			fp := f(p)
			p[i] = v - h
			lo := p[i]
			fm := f(p)
			p[i] = v
			g[i] = (fp - fm) / (hi - lo)
		}
		return g
	}
}
