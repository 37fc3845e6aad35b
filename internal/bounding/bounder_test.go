package bounding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func squareConfig() Config {
	return Config{
		Target:        func(x []float64) float64 { return x[0] * x[0] },
		Gradient:      func(x []float64) []float64 { return []float64{2 * x[0]} },
		L1:            2,
		L2:            2,
		Eps:           0.01,
		InitialPoints: 50,
	}
}

// affineAt evaluates c_1*x_1 + ... + c_n*x_n + c_0.
func affineAt(coeffs, x []float64) float64 {
	v := coeffs[len(coeffs)-1]
	for i, xi := range x {
		v += coeffs[i] * xi
	}
	return v
}

func TestNewBounder(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid configuration",
			mutate: func(*Config) {},
		},
		{
			name:    "missing target",
			mutate:  func(c *Config) { c.Target = nil },
			wantErr: "target function is required",
		},
		{
			name:    "too few initial points",
			mutate:  func(c *Config) { c.InitialPoints = 2 },
			wantErr: "initial points must exceed 2",
		},
		{
			name:    "one initial point",
			mutate:  func(c *Config) { c.InitialPoints = 1 },
			wantErr: "initial points must exceed 2",
		},
		{
			name:    "unknown solver",
			mutate:  func(c *Config) { c.Solver = "simplex" },
			wantErr: "unknown discrete solver",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := squareConfig()
			tt.mutate(&cfg)
			b, err := NewBounder(cfg, zap.NewNop())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, b)
		})
	}
}

func TestNewBounderDefaults(t *testing.T) {
	cfg := Config{
		Target: func(x []float64) float64 { return x[0] },
	}
	b, err := NewBounder(cfg, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, defaultEps, b.cfg.Eps)
	assert.Equal(t, defaultInitialPoints, b.cfg.InitialPoints)
	assert.Equal(t, defaultMaxRefinements, b.cfg.MaxRefinements)
	assert.Equal(t, defaultSolver, b.solver.Name())
	assert.NotNil(t, b.gradient, "nil gradient must be replaced by finite differences")
}

func TestFindOptimalBoundsParabola(t *testing.T) {
	region := Region{{-1, 1}}

	for _, solverName := range []string{"bisect", "lstsq", "minimax"} {
		t.Run(solverName, func(t *testing.T) {
			cfg := squareConfig()
			cfg.Solver = solverName
			b, err := NewBounder(cfg, zap.NewNop())
			require.NoError(t, err)

			lower, upper, err := b.FindOptimalBounds(context.Background(), region)
			require.NoError(t, err)
			require.Len(t, lower, 2)
			require.Len(t, upper, 2)

			// soundness on a fine probe grid
			for i := 0; i <= 1000; i++ {
				x := -1 + 2*float64(i)/1000
				f := x * x
				lo := affineAt(lower, []float64{x})
				up := affineAt(upper, []float64{x})
				require.LessOrEqual(t, lo, f+1e-6, "lower bound unsound at x=%g", x)
				require.GreaterOrEqual(t, up, f-1e-6, "upper bound unsound at x=%g", x)
			}

			// any line above x^2 on [-1, 1] has positive intercept and
			// exceeds 1 at one of the endpoints
			assert.Greater(t, upper[1], 0.0)
			endpointMax := math.Max(affineAt(upper, []float64{-1}), affineAt(upper, []float64{1}))
			assert.Greater(t, endpointMax, 1.0-1e-9)
		})
	}
}

func TestSignSymmetry(t *testing.T) {
	region := Region{{-1, 1}}

	cfg := squareConfig()
	b, err := NewBounder(cfg, zap.NewNop())
	require.NoError(t, err)

	negCfg := squareConfig()
	negCfg.Target = func(x []float64) float64 { return -(x[0] * x[0]) }
	negCfg.Gradient = func(x []float64) []float64 { return []float64{-2 * x[0]} }
	nb, err := NewBounder(negCfg, zap.NewNop())
	require.NoError(t, err)

	lower, _, err := b.FindOptimalBounds(context.Background(), region)
	require.NoError(t, err)
	_, negUpper, err := nb.FindOptimalBounds(context.Background(), region)
	require.NoError(t, err)

	// upperbound(-f) == -lowerbound(f), coefficient-wise
	require.Len(t, negUpper, len(lower))
	for i := range lower {
		assert.InDelta(t, -lower[i], negUpper[i], 1e-12)
	}
}

func TestFlatFunction(t *testing.T) {
	const k = 3.5
	cfg := Config{
		Target:        func(x []float64) float64 { return k },
		Gradient:      func(x []float64) []float64 { return []float64{0} },
		L1:            0,
		L2:            0,
		Eps:           0.01,
		InitialPoints: 20,
	}
	b, err := NewBounder(cfg, zap.NewNop())
	require.NoError(t, err)

	lower, upper, err := b.FindOptimalBounds(context.Background(), Region{{-2, 5}})
	require.NoError(t, err)

	assert.InDelta(t, 0, lower[0], cfg.Eps)
	assert.InDelta(t, k, lower[1], cfg.Eps)
	assert.InDelta(t, 0, upper[0], cfg.Eps)
	assert.InDelta(t, k, upper[1], cfg.Eps)
}

func TestLinearExactness(t *testing.T) {
	cfg := Config{
		Target:        func(x []float64) float64 { return 2*x[0] - 1 },
		Gradient:      func(x []float64) []float64 { return []float64{2} },
		L1:            2,
		L2:            0,
		Eps:           0.01,
		InitialPoints: 10,
	}
	b, err := NewBounder(cfg, zap.NewNop())
	require.NoError(t, err)

	lower, upper, err := b.FindOptimalBounds(context.Background(), Region{{0, 2}})
	require.NoError(t, err)

	// the first fit already certifies: both bounds collapse to the line
	assert.InDelta(t, 2, lower[0], cfg.Eps)
	assert.InDelta(t, -1, lower[1], cfg.Eps)
	assert.InDelta(t, 2, upper[0], cfg.Eps)
	assert.InDelta(t, -1, upper[1], cfg.Eps)
}

func TestMonotonicTightening(t *testing.T) {
	region := Region{{-1, 1}}

	meanGap := func(eps float64) float64 {
		cfg := squareConfig()
		cfg.Eps = eps
		b, err := NewBounder(cfg, zap.NewNop())
		require.NoError(t, err)
		_, upper, err := b.FindOptimalBounds(context.Background(), region)
		require.NoError(t, err)

		total := 0.0
		const probes = 500
		for i := 0; i <= probes; i++ {
			x := -1 + 2*float64(i)/probes
			total += affineAt(upper, []float64{x}) - x*x
		}
		return total / (probes + 1)
	}

	loose := meanGap(0.05)
	tight := meanGap(0.005)
	assert.LessOrEqual(t, tight, loose+0.05, "smaller eps must not loosen the bound")
}

func TestRegionValidation(t *testing.T) {
	cfg := squareConfig()
	b, err := NewBounder(cfg, zap.NewNop())
	require.NoError(t, err)

	tests := []struct {
		name   string
		region Region
	}{
		{name: "empty region", region: Region{}},
		{name: "inverted interval", region: Region{{1, -1}}},
		{name: "zero width", region: Region{{2, 2 - 1e-3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := b.FindOptimalBounds(context.Background(), tt.region)
			require.Error(t, err)
		})
	}
}

func TestMultiDimensionalRegionUnsupported(t *testing.T) {
	cfg := Config{
		Target:        func(x []float64) float64 { return x[0] + x[1] },
		Gradient:      func(x []float64) []float64 { return []float64{1, 1} },
		L1:            2,
		L2:            0,
		InitialPoints: 100,
		Solver:        "lstsq",
	}
	b, err := NewBounder(cfg, zap.NewNop())
	require.NoError(t, err)

	_, _, err = b.FindOptimalBounds(context.Background(), Region{{0, 1}, {0, 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not implemented")
}

func TestMaxRefinementsExceeded(t *testing.T) {
	cfg := squareConfig()
	cfg.Eps = 0.001
	cfg.InitialPoints = 5
	cfg.MaxRefinements = 1
	b, err := NewBounder(cfg, zap.NewNop())
	require.NoError(t, err)

	_, _, err = b.FindOptimalBounds(context.Background(), Region{{-1, 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to certify")
}

func TestComputeCancelled(t *testing.T) {
	b, err := NewBounder(squareConfig(), zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = b.Compute(ctx, Region{{-1, 1}})
	require.ErrorIs(t, err, context.Canceled)
}

func TestComputeTelemetry(t *testing.T) {
	b, err := NewBounder(squareConfig(), zap.NewNop())
	require.NoError(t, err)

	res, err := b.Compute(context.Background(), Region{{-1, 1}})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, res.Refinements, 2, "one iteration per side at minimum")
	assert.GreaterOrEqual(t, res.Samples, 100, "both sides retain at least the initial grid")
}
