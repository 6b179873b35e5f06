// SPDX-License-Identifier: MIT
// Package normal - manifold kinds, the shared per-row kernel contract and the
// Manifold facade.
//
// Design:
//   - Kind selects one of three private kernels at construction time.
//   - A kernel works on single flattened rows ([]float64); batching,
//     broadcasting and shape validation live once in Manifold.
//   - SPD helpers come from the matrix package and are shared by all kernels.

package normal

import (
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/moiseevigor/geomstats/matrix"
)

// Kind enumerates the supported Gaussian families.
type Kind int

const (
	// Centered is N(0, Σ); a point is Σ flattened row-major (n·n columns).
	Centered Kind = iota
	// Diagonal is N(μ, diag(v)); a point is [μ | v] (2n columns).
	Diagonal
	// General is N(μ, Σ); a point is [μ | upper triangle of Σ] (n + n(n+1)/2 columns).
	General
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Centered:
		return "Centered"
	case Diagonal:
		return "Diagonal"
	case General:
		return "General"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// kernel is the per-row capability set implemented by every family.
// Inputs are pre-validated rows of length dim(); outputs are fresh slices.
type kernel interface {
	dim() int
	belongs(p []float64, atol float64) bool
	randomPoint(r *rand.Rand, bound float64) ([]float64, error)
	unstack(p []float64) ([]float64, *matrix.Dense, error)
	stack(mean []float64, cov *matrix.Dense) ([]float64, error)
	project(p []float64) ([]float64, error)
	isTangent(v []float64, atol float64) bool
	toTangent(v []float64) ([]float64, error)
	inner(a, b, base []float64) (float64, error)
	exp(v, base []float64) ([]float64, error)
	log(p, base []float64) ([]float64, error)
	squaredDist(a, b []float64) (float64, error)
}

// Space is the contract consumed by generic manifold code and tests:
// membership, random points, metric, exp/log, distance and the bridge back to
// distributions. *Manifold implements it for every Kind.
type Space interface {
	Dim() int
	SampleDim() int
	Belongs(points *matrix.Dense, atol float64) ([]bool, error)
	RandomPoint(nSamples int, bound float64) (*matrix.Dense, error)
	InnerProduct(a, b, base *matrix.Dense) ([]float64, error)
	Exp(v, base *matrix.Dense) (*matrix.Dense, error)
	Log(points, base *matrix.Dense) (*matrix.Dense, error)
	Dist(a, b *matrix.Dense) ([]float64, error)
	PointToPDF(points *matrix.Dense) (PDF, error)
	Sample(points *matrix.Dense, nSamples int) ([]*matrix.Dense, error)
}

var _ Space = (*Manifold)(nil)

// Manifold is a Gaussian family of fixed sample dimension with its Fisher
// geometry. It is immutable after New and safe for concurrent use unless a
// private *rand.Rand was supplied with WithRand.
type Manifold struct {
	kind Kind
	n    int
	cfg  config
	k    kernel
}

// New builds the manifold of kind over sampleDim-dimensional Gaussians.
//
// Errors:
//   - ErrConfiguration for sampleDim ≤ 0, an unknown kind or an invalid option.
func New(kind Kind, sampleDim int, opts ...Option) (*Manifold, error) {
	if sampleDim <= 0 {
		return nil, configErrorf("New", "sampleDim=%d", sampleDim)
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, normalErrorf("New", err)
		}
	}

	m := &Manifold{kind: kind, n: sampleDim, cfg: cfg}
	switch kind {
	case Centered:
		m.k = &centeredKernel{n: sampleDim, cfg: &m.cfg}
	case Diagonal:
		m.k = &diagonalKernel{n: sampleDim, cfg: &m.cfg}
	case General:
		m.k = &generalKernel{n: sampleDim, cfg: &m.cfg}
	default:
		return nil, configErrorf("New", "kind=%v", kind)
	}
	cfg.logger.Debug("manifold constructed",
		zap.Stringer("kind", kind),
		zap.Int("sample_dim", sampleDim),
		zap.Int("dim", m.k.dim()),
	)

	return m, nil
}

// Kind reports the Gaussian family.
func (m *Manifold) Kind() Kind { return m.kind }

// SampleDim is the dimension n of the underlying Gaussian.
func (m *Manifold) SampleDim() int { return m.n }

// Dim is the ambient dimension of points and tangent vectors.
func (m *Manifold) Dim() int { return m.k.dim() }

// rng returns the manifold's own stream or the process-wide one.
func (m *Manifold) rng() *rand.Rand {
	if m.cfg.rng != nil {
		return m.cfg.rng
	}

	return globalRNG
}
