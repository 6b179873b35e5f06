// SPDX-License-Identifier: MIT
// Package normal - centered family N(0, Σ).
//
// A point is Σ flattened row-major (n·n columns); tangent vectors are
// symmetric n×n matrices in the same layout. The Fisher metric
//
//	g_Σ(A, B) = ½ tr(Σ⁻¹ A Σ⁻¹ B)
//
// is the affine-invariant metric, so exp, log and distance are closed form.

package normal

import (
	"math/rand/v2"

	"github.com/moiseevigor/geomstats/matrix"
)

type centeredKernel struct {
	n   int
	cfg *config
}

func (k *centeredKernel) dim() int { return k.n * k.n }

func (k *centeredKernel) square(p []float64) (*matrix.Dense, error) {
	return matrix.NewDenseFrom(k.n, k.n, p)
}

func (k *centeredKernel) belongs(p []float64, atol float64) bool {
	s, err := k.square(p)
	if err != nil {
		return false
	}

	return matrix.IsSPD(s, atol)
}

func (k *centeredKernel) randomPoint(r *rand.Rand, bound float64) ([]float64, error) {
	s, err := randomSPD(k.n, func() float64 { return uniform(r, bound) }, k.cfg.spdOpts())
	if err != nil {
		return nil, err
	}

	return matrix.Data(s)
}

// unstack returns a zero mean and Σ.
func (k *centeredKernel) unstack(p []float64) ([]float64, *matrix.Dense, error) {
	s, err := k.square(p)
	if err != nil {
		return nil, nil, err
	}

	return make([]float64, k.n), s, nil
}

// stack ignores the mean: the family has none.
func (k *centeredKernel) stack(_ []float64, cov *matrix.Dense) ([]float64, error) {
	return matrix.Data(cov)
}

func (k *centeredKernel) project(p []float64) ([]float64, error) {
	s, err := k.square(p)
	if err != nil {
		return nil, err
	}
	c, err := clampSPD(s, k.cfg.eps, k.cfg.spdOpts())
	if err != nil {
		return nil, err
	}

	return matrix.Data(c)
}

func (k *centeredKernel) isTangent(v []float64, atol float64) bool {
	s, err := k.square(v)
	if err != nil {
		return false
	}

	return matrix.ValidateSymmetric(s, atol) == nil
}

func (k *centeredKernel) toTangent(v []float64) ([]float64, error) {
	s, err := k.square(v)
	if err != nil {
		return nil, err
	}
	sym, err := matrix.Symmetrize(s)
	if err != nil {
		return nil, err
	}

	return matrix.Data(sym)
}

func (k *centeredKernel) inner(a, b, base []float64) (float64, error) {
	p, err := k.square(base)
	if err != nil {
		return 0, err
	}
	pinv, err := inverseSPD(p, k.cfg.spdOpts())
	if err != nil {
		return 0, err
	}
	am, err := k.square(a)
	if err != nil {
		return 0, err
	}
	bm, err := k.square(b)
	if err != nil {
		return 0, err
	}

	return affineInner(pinv, am, bm)
}

func (k *centeredKernel) exp(v, base []float64) ([]float64, error) {
	p, err := k.square(base)
	if err != nil {
		return nil, err
	}
	vm, err := k.square(v)
	if err != nil {
		return nil, err
	}
	q, err := affineExp(p, vm, k.cfg.spdOpts())
	if err != nil {
		return nil, err
	}

	return matrix.Data(q)
}

func (k *centeredKernel) log(q, base []float64) ([]float64, error) {
	p, err := k.square(base)
	if err != nil {
		return nil, err
	}
	qm, err := k.square(q)
	if err != nil {
		return nil, err
	}
	l, err := affineLog(p, qm, k.cfg.spdOpts())
	if err != nil {
		return nil, err
	}

	return matrix.Data(l)
}

func (k *centeredKernel) squaredDist(a, b []float64) (float64, error) {
	p, err := k.square(a)
	if err != nil {
		return 0, err
	}
	q, err := k.square(b)
	if err != nil {
		return 0, err
	}

	return affineSqDist(p, q, k.cfg.spdOpts())
}
