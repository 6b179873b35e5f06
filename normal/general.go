// SPDX-License-Identifier: MIT
// Package normal - general family N(μ, Σ).
//
// A point is [μ | triu(Σ)] with the upper triangle of Σ in row-major order
// (n + n(n+1)/2 columns). An off-diagonal tangent entry (i,j) stands for the
// symmetric pair dΣ_ij = dΣ_ji. The metric
//
//	g(a, b) = a_μᵀ Σ⁻¹ b_μ + ½ tr(Σ⁻¹ A_Σ Σ⁻¹ B_Σ)
//
// has no mean/covariance cross term. That is the Fisher information in
// (μ, Σ) coordinates and is kept deliberately; geodesics have no closed form
// and are computed numerically (geodesic.go).

package normal

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/viterin/vek"
	"go.uber.org/zap"

	"github.com/moiseevigor/geomstats/matrix"
)

type generalKernel struct {
	n   int
	cfg *config
}

func (k *generalKernel) dim() int { return k.n + k.n*(k.n+1)/2 }

// split returns μ (a copy) and the symmetric Σ.
func (k *generalKernel) split(p []float64) ([]float64, *matrix.Dense, error) {
	cov, err := matrix.VecToSym(p[k.n:], k.n)
	if err != nil {
		return nil, nil, err
	}

	return append([]float64(nil), p[:k.n]...), cov, nil
}

func (k *generalKernel) join(mean []float64, cov *matrix.Dense) ([]float64, error) {
	tri, err := matrix.SymToVec(cov)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, k.dim())
	out = append(out, mean...)

	return append(out, tri...), nil
}

func (k *generalKernel) belongs(p []float64, atol float64) bool {
	for _, x := range p[:k.n] {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	_, cov, err := k.split(p)
	if err != nil {
		return false
	}

	return matrix.IsSPD(cov, atol)
}

func (k *generalKernel) randomPoint(r *rand.Rand, bound float64) ([]float64, error) {
	mean := make([]float64, k.n)
	for i := range mean {
		mean[i] = uniform(r, bound)
	}
	cov, err := randomSPD(k.n, func() float64 { return uniform(r, bound) }, k.cfg.spdOpts())
	if err != nil {
		return nil, err
	}

	return k.join(mean, cov)
}

func (k *generalKernel) unstack(p []float64) ([]float64, *matrix.Dense, error) { return k.split(p) }

// stack stores the upper triangle of cov; the lower triangle is not read.
func (k *generalKernel) stack(mean []float64, cov *matrix.Dense) ([]float64, error) {
	return k.join(mean, cov)
}

func (k *generalKernel) project(p []float64) ([]float64, error) {
	mean, cov, err := k.split(p)
	if err != nil {
		return nil, err
	}
	c, err := clampSPD(cov, k.cfg.eps, k.cfg.spdOpts())
	if err != nil {
		return nil, err
	}

	return k.join(mean, c)
}

// Every ambient vector is tangent: symmetry is built into the encoding.
func (k *generalKernel) isTangent([]float64, float64) bool { return true }

func (k *generalKernel) toTangent(v []float64) ([]float64, error) {
	return append([]float64(nil), v...), nil
}

func (k *generalKernel) inner(a, b, base []float64) (float64, error) {
	_, cov, err := k.split(base)
	if err != nil {
		return 0, err
	}
	cinv, err := inverseSPD(cov, k.cfg.spdOpts())
	if err != nil {
		return 0, err
	}
	am, A, err := k.split(a)
	if err != nil {
		return 0, err
	}
	bm, B, err := k.split(b)
	if err != nil {
		return 0, err
	}
	cb, err := matrix.MatVec(cinv, bm)
	if err != nil {
		return 0, err
	}
	covTerm, err := affineInner(cinv, A, B)
	if err != nil {
		return 0, err
	}

	return vek.Dot(am, cb) + covTerm, nil
}

func (k *generalKernel) exp(v, base []float64) ([]float64, error) {
	f := flow{n: k.n}
	mean, cov, err := k.split(base)
	if err != nil {
		return nil, err
	}
	dmean, dcov, err := k.split(v)
	if err != nil {
		return nil, err
	}
	covData, err := matrix.Data(cov)
	if err != nil {
		return nil, err
	}
	dcovData, err := matrix.Data(dcov)
	if err != nil {
		return nil, err
	}
	y0 := make([]float64, 0, f.size())
	for _, block := range [][]float64{mean, covData, dmean, dcovData} {
		y0 = append(y0, block...)
	}
	y, err := f.integrate(y0, k.cfg.steps)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConvergence, err)
	}
	mu, sigma, _, _ := f.split(y)
	end, err := matrix.NewDenseFrom(k.n, k.n, sigma)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConvergence, err)
	}
	if end, err = matrix.Symmetrize(end); err != nil {
		return nil, err
	}
	if !matrix.IsSPD(end, 0) {
		return nil, fmt.Errorf("%w: %w", ErrConvergence, errLeftCone)
	}

	return k.join(mu, end)
}

// log starts Newton shooting from [μq − μp | affine log of Σ]; the pure
// covariance geodesic [0 | affine log] is the fallback start.
func (k *generalKernel) log(q, base []float64) ([]float64, error) {
	mp, cp, err := k.split(base)
	if err != nil {
		return nil, err
	}
	mq, cq, err := k.split(q)
	if err != nil {
		return nil, err
	}
	l, err := affineLog(cp, cq, k.cfg.spdOpts())
	if err != nil {
		return nil, err
	}
	fallback, err := k.join(make([]float64, k.n), l)
	if err != nil {
		return nil, err
	}
	guess, err := k.join(vek.Sub(mq, mp), l)
	if err != nil {
		return nil, err
	}
	s := &shooter{k: k, base: base, target: q, logger: k.cfg.logger}
	v, err := s.solve(guess, fallback, k.cfg.tol, k.cfg.maxIter)
	var ce *ConvergenceError
	if err == nil || !errors.As(err, &ce) || ce.Reason == reasonBudget {
		return v, err
	}
	for _, stages := range continuationStages {
		k.cfg.logger.Debug("geodesic shooting continuation", zap.Int("stages", stages), zap.String("after", ce.Reason))
		if w, cerr := k.continuation(base, q, guess, fallback, stages); cerr == nil {
			return w, nil
		}
	}

	return nil, err
}

// continuation moves the shooting target from base to q in equal stages
// along (μp + s·Δμ, Σp + s·ΔΣ), s = i/stages, warm-starting every solve from
// the previous stage's solution stretched to the next stage.
func (k *generalKernel) continuation(base, q, guess, fallback []float64, stages int) ([]float64, error) {
	mp, cp, err := k.split(base)
	if err != nil {
		return nil, err
	}
	mq, cq, err := k.split(q)
	if err != nil {
		return nil, err
	}
	dCov, err := matrix.Sub(cq, cp)
	if err != nil {
		return nil, err
	}
	dMean := vek.Sub(mq, mp)

	first := 1 / float64(stages)
	next, prev := vek.MulNumber(guess, first), vek.MulNumber(fallback, first)
	for i := 1; i <= stages; i++ {
		target := q
		if i < stages {
			frac := float64(i) / float64(stages)
			step, err := matrix.Scale(dCov, frac)
			if err != nil {
				return nil, err
			}
			cov, err := matrix.Add(cp, step)
			if err != nil {
				return nil, err
			}
			if target, err = k.join(vek.Add(mp, vek.MulNumber(dMean, frac)), cov); err != nil {
				return nil, err
			}
		}
		s := &shooter{k: k, base: base, target: target, logger: k.cfg.logger}
		v, err := s.solve(next, prev, k.cfg.tol, k.cfg.maxIter)
		if err != nil {
			return nil, err
		}
		prev, next = v, vek.MulNumber(v, float64(i+1)/float64(i))
	}

	return prev, nil
}

func (k *generalKernel) squaredDist(a, b []float64) (float64, error) {
	v, err := k.log(b, a)
	if err != nil {
		return 0, err
	}

	return k.inner(v, v, a)
}
