// SPDX-License-Identifier: MIT

// Package normal: functional configuration of a Manifold.
//
// Options are validated when New applies them; an invalid value makes New
// fail with ErrConfiguration.
package normal

import (
	"fmt"
	"math"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/moiseevigor/geomstats/matrix"
)

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultEpsilon is the eigenvalue floor of the SPD calculus and the clamp
	// used by Projection.
	DefaultEpsilon = 1e-12

	// DefaultIntegrationSteps is the number of RK4 steps on t ∈ [0, 1] used by
	// the General exponential map.
	DefaultIntegrationSteps = 100

	// DefaultMaxIterations caps the Newton shooting iterations of the General
	// logarithm.
	DefaultMaxIterations = 50

	// DefaultTolerance is the relative shooting tolerance:
	// ‖Exp(v) − q‖ ≤ tol·(1 + ‖q‖).
	DefaultTolerance = 1e-10
)

// Option configures a Manifold. Options are applied in order by New
// (last-writer-wins) and return ErrConfiguration on invalid values.
type Option func(*config) error

// config is the effective configuration after applying options.
type config struct {
	eps          float64
	strictShapes bool
	steps        int
	maxIter      int
	tol          float64
	rng          *rand.Rand // nil means the process-wide source
	logger       *zap.Logger
}

func defaultConfig() config {
	return config{
		eps:     DefaultEpsilon,
		steps:   DefaultIntegrationSteps,
		maxIter: DefaultMaxIterations,
		tol:     DefaultTolerance,
		logger:  zap.NewNop(),
	}
}

// spdOpts forwards the eigenvalue floor to the matrix SPD calculus.
func (c *config) spdOpts() []matrix.Option {
	return []matrix.Option{matrix.WithEpsilon(c.eps)}
}

func configErrorf(opt, format string, args ...any) error {
	return fmt.Errorf("%s: %s: %w", opt, fmt.Sprintf(format, args...), ErrConfiguration)
}

func finitePositive(x float64) bool { return x > 0 && !math.IsInf(x, 0) }

// WithEpsilon sets the SPD eigenvalue floor (finite, > 0).
func WithEpsilon(eps float64) Option {
	return func(c *config) error {
		if !finitePositive(eps) {
			return configErrorf("WithEpsilon", "eps=%g", eps)
		}
		c.eps = eps

		return nil
	}
}

// WithStrictShapes makes Belongs return ErrShapeMismatch for a wrong column
// count instead of reporting every row as false.
func WithStrictShapes() Option {
	return func(c *config) error {
		c.strictShapes = true

		return nil
	}
}

// WithIntegrationSteps sets the number of RK4 steps of the General exponential map.
func WithIntegrationSteps(steps int) Option {
	return func(c *config) error {
		if steps <= 0 {
			return configErrorf("WithIntegrationSteps", "steps=%d", steps)
		}
		c.steps = steps

		return nil
	}
}

// WithMaxIterations caps the Newton shooting iterations of the General logarithm.
func WithMaxIterations(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return configErrorf("WithMaxIterations", "n=%d", n)
		}
		c.maxIter = n

		return nil
	}
}

// WithTolerance sets the relative shooting tolerance (finite, > 0).
func WithTolerance(tol float64) Option {
	return func(c *config) error {
		if !finitePositive(tol) {
			return configErrorf("WithTolerance", "tol=%g", tol)
		}
		c.tol = tol

		return nil
	}
}

// WithRand gives the manifold its own random stream. *rand.Rand is not safe
// for concurrent use; do not share r across goroutines.
func WithRand(r *rand.Rand) Option {
	return func(c *config) error {
		if r == nil {
			return configErrorf("WithRand", "nil source")
		}
		c.rng = r

		return nil
	}
}

// WithSeed gives the manifold its own deterministic PCG stream.
func WithSeed(seed uint64) Option {
	return func(c *config) error {
		c.rng = rngFromSeed(seed)

		return nil
	}
}

// WithLogger attaches a zap logger (solver diagnostics at Debug/Warn).
func WithLogger(l *zap.Logger) Option {
	return func(c *config) error {
		if l == nil {
			return configErrorf("WithLogger", "nil logger")
		}
		c.logger = l

		return nil
	}
}
