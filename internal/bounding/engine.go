package bounding

import (
	"context"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// refineStats summarizes one run of the certification loop.
type refineStats struct {
	refinements int
	samples     int
}

// discreteUpperBound asks the solver for candidate affine coefficients for
// the current working set. Points are recentered on the region's centroid
// before the solve to keep intercept magnitudes small, and the intercept is
// shifted back afterwards so the coefficients are valid in absolute
// coordinates.
func (b *Bounder) discreteUpperBound(region Region, working []sample) ([]float64, error) {
	n := region.Dim()
	center := region.Center()

	points := make([][]float64, len(working))
	values := make([]float64, len(working))
	for i, s := range working {
		p := make([]float64, n)
		for j := range p {
			p[j] = s.point[j] - center[j]
		}
		points[i] = p
		values[i] = s.value
	}

	coeffs, err := b.solver.Solve(points, values, b.cfg.Eps)
	if err != nil {
		return nil, WrapError(err, "discrete solver failed").
			WithOperation("Bounder.discreteUpperBound").WithComponent("bounding")
	}
	coeffs[n] -= floats.Dot(coeffs[:n], center)
	return coeffs, nil
}

// boundOneSide computes a certified affine upper bound for the target over
// the region. With upper false the target and its gradient are negated before
// the run and the resulting coefficients negated after, which yields the lower
// bound of the original function.
//
// The loop alternates a discrete fit over the working set with a per-cell
// certification test. A cell is certified when the tighter of two Lipschitz
// margins falls below the slack: the value margin covers the worst deviation
// of the function from its center value inside the cell, the gradient margin
// covers the first-order mismatch between the candidate's slope and the local
// gradient plus an L2 curvature term. Uncertified cells are split into 2^n
// children with half the diameter, so both margins shrink geometrically.
func (b *Bounder) boundOneSide(ctx context.Context, region Region, upper bool) ([]float64, *refineStats, error) {
	const op = "Bounder.boundOneSide"

	g, err := geometricCorrection(region)
	if err != nil {
		return nil, nil, err
	}

	gr, err := sampleRegularGrid(region, b.cfg.InitialPoints)
	if err != nil {
		return nil, nil, err
	}

	n := region.Dim()
	sign := 1.0
	if !upper {
		sign = -1
	}

	eval := func(p []float64, diam float64) sample {
		grad := b.gradient(p)
		sg := make([]float64, n)
		for i := range sg {
			sg[i] = sign * grad[i]
		}
		return sample{point: p, diam: diam, value: sign * b.cfg.Target(p), grad: sg}
	}

	working := make([]sample, 0, 2*len(gr.centers))
	for _, c := range gr.centers {
		working = append(working, eval(c, gr.diam))
	}
	if len(working) <= n {
		return nil, nil, NewErrorf("need at least dim+1 points, got %d", len(working)).
			WithOperation(op).WithComponent("bounding")
	}

	// one offset direction per orthant; shared by every subdivision
	offsets := make([][]float64, 1<<n)
	for mask := range offsets {
		o := make([]float64, n)
		for d := 0; d < n; d++ {
			o[d] = -1
			if mask&(1<<d) != 0 {
				o[d] = 1
			}
		}
		offsets[mask] = o
	}

	margins := make([]float64, 0, cap(working))
	for iter := 0; iter < b.cfg.MaxRefinements; iter++ {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		default:
		}

		coeffs, err := b.discreteUpperBound(region, working)
		if err != nil {
			return nil, nil, err
		}
		slopes := coeffs[:n]

		margins = margins[:0]
		maxMargin := math.Inf(-1)
		uncertified := 0
		for _, s := range working {
			boundDiff := floats.Dot(slopes, s.point) + coeffs[n] - s.value
			r := s.diam / 2

			m1 := (1+g)*b.cfg.L1*r - boundDiff
			m2 := floats.Distance(slopes, s.grad, 2)*r + 0.5*b.cfg.L2*r*r - boundDiff

			m := math.Min(m1, m2)
			margins = append(margins, m)
			if m > maxMargin {
				maxMargin = m
			}
			if m >= b.cfg.Eps {
				uncertified++
			}
		}

		b.logger.Debug("refinement iteration",
			zap.Bool("upper", upper),
			zap.Int("iteration", iter),
			zap.Int("samples", len(working)),
			zap.Int("uncertified", uncertified),
			zap.Float64("max_margin", maxMargin),
		)

		if uncertified == 0 {
			// inflate the intercept so the bound covers every cell's
			// full extent, not merely its center
			coeffs[n] += maxMargin
			if !upper {
				floats.Scale(-1, coeffs)
			}
			return coeffs, &refineStats{refinements: iter + 1, samples: len(working)}, nil
		}

		split := make([]sample, 0, uncertified)
		kept := working[:0]
		for i, s := range working {
			if margins[i] < b.cfg.Eps {
				kept = append(kept, s)
			} else {
				split = append(split, s)
			}
		}
		working = kept
		for _, parent := range split {
			for _, o := range offsets {
				child := make([]float64, n)
				for d := 0; d < n; d++ {
					child[d] = parent.point[d] + 0.25*o[d]*gr.sideToDiam[d]*parent.diam
				}
				working = append(working, eval(child, parent.diam/2))
			}
		}
	}

	return nil, nil, NewErrorf("failed to certify region within %d refinements", b.cfg.MaxRefinements).
		WithOperation(op).WithComponent("bounding")
}
