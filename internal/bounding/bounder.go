// Package bounding computes certified affine lower and upper bounds for
// scalar multivariate functions over axis-aligned hyperrectangular regions.
//
// Given Lipschitz constants for the target function (L1) and its gradient
// (L2), a Bounder samples the region on a regular grid, obtains a candidate
// affine fit from a discrete bounding strategy, and certifies or refutes the
// fit cell by cell with Lipschitz margins, recursively subdividing the cells
// that fail until the whole region is certified.
package bounding

import (
	"context"

	"go.uber.org/zap"

	"github.com/affinebound/affinebound/internal/bounding/solvers"
)

// Bounder computes certified affine bounds for a fixed target function.
// All configuration is fixed at construction; a Bounder holds no mutable
// state across calls and independent calls may run concurrently.
type Bounder struct {
	cfg      Config
	gradient Grad
	solver   solvers.Solver
	logger   *zap.Logger
}

// Result carries the certified bounds plus refinement telemetry.
type Result struct {
	// Lower and Upper each hold n+1 coefficients (c_1, ..., c_n, c_0)
	// defining the affine functions c_1*x_1 + ... + c_n*x_n + c_0.
	Lower []float64
	Upper []float64

	// Refinements is the total number of fit/certify iterations across
	// both sides.
	Refinements int

	// Samples is the total number of cells in the final working sets of
	// both sides.
	Samples int
}

// NewBounder validates the configuration, resolves the discrete solver and
// returns a ready Bounder. A nil Gradient is replaced by a central
// finite-difference adapter around Target. The logger may be nil.
func NewBounder(cfg Config, logger *zap.Logger) (*Bounder, error) {
	const op = "NewBounder"

	if cfg.Target == nil {
		return nil, NewError("target function is required").
			WithOperation(op).WithComponent("bounding")
	}
	if cfg.Eps <= 0 {
		cfg.Eps = defaultEps
	}
	if cfg.InitialPoints == 0 {
		cfg.InitialPoints = defaultInitialPoints
	}
	if cfg.InitialPoints <= 2 {
		return nil, NewErrorf("initial points must exceed 2, got %d", cfg.InitialPoints).
			WithOperation(op).WithComponent("bounding")
	}
	if cfg.MaxRefinements <= 0 {
		cfg.MaxRefinements = defaultMaxRefinements
	}

	if cfg.Solver == "" {
		cfg.Solver = defaultSolver
	}
	sv, err := solvers.New(cfg.Solver)
	if err != nil {
		return nil, WrapError(err, "unknown discrete solver").
			WithOperation(op).WithComponent("bounding")
	}

	gradient := cfg.Gradient
	if gradient == nil {
		gradient = finiteDifferenceGrad(cfg.Target)
	}

	if logger == nil {
		logger, _ = zap.NewDevelopment()
	}

	return &Bounder{
		cfg:      cfg,
		gradient: gradient,
		solver:   sv,
		logger:   logger.Named("bounder"),
	}, nil
}

// Compute returns certified affine bounds for the target over the region
// along with refinement telemetry. The lower bound is obtained by running the
// identical upper-bound engine on the negated target and negating the result.
func (b *Bounder) Compute(ctx context.Context, region Region) (*Result, error) {
	if err := region.Validate(); err != nil {
		return nil, err
	}

	lower, lstats, err := b.boundOneSide(ctx, region, false)
	if err != nil {
		return nil, err
	}
	upper, ustats, err := b.boundOneSide(ctx, region, true)
	if err != nil {
		return nil, err
	}

	return &Result{
		Lower:       lower,
		Upper:       upper,
		Refinements: lstats.refinements + ustats.refinements,
		Samples:     lstats.samples + ustats.samples,
	}, nil
}

// FindOptimalBounds returns the certified lower and upper bound coefficients
// for the target over the region, each of length dim+1.
func (b *Bounder) FindOptimalBounds(ctx context.Context, region Region) (lower, upper []float64, err error) {
	res, err := b.Compute(ctx, region)
	if err != nil {
		return nil, nil, err
	}
	return res.Lower, res.Upper, nil
}
