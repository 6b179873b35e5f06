// SPDX-License-Identifier: MIT
// Package normal - affine-invariant SPD geometry shared by the Centered and
// General kernels.
//
//	Exp_P(V) = P^½ expm(P^-½ V P^-½) P^½
//	Log_P(Q) = P^½ logm(P^-½ Q P^-½) P^½
//	d(P,Q)²  = ½ ‖logm(P^-½ Q P^-½)‖_F²
//
// The ½ matches the Fisher information of N(0, Σ).

package normal

import (
	"math"

	"github.com/moiseevigor/geomstats/matrix"
)

// roots returns P^½ and P^-½.
func roots(p *matrix.Dense, opts []matrix.Option) (*matrix.Dense, *matrix.Dense, error) {
	s, err := matrix.Sqrtm(p, opts...)
	if err != nil {
		return nil, nil, spdErr(err)
	}
	si, err := matrix.InvSqrtm(p, opts...)
	if err != nil {
		return nil, nil, spdErr(err)
	}

	return s, si, nil
}

func affineExp(p, v *matrix.Dense, opts []matrix.Option) (*matrix.Dense, error) {
	s, si, err := roots(p, opts)
	if err != nil {
		return nil, err
	}
	w, err := matrix.Congruence(si, v)
	if err != nil {
		return nil, err
	}
	e, err := matrix.Expm(w, opts...)
	if err != nil {
		return nil, err
	}
	out, err := matrix.Congruence(s, e)
	if err != nil {
		return nil, err
	}

	return matrix.Symmetrize(out)
}

func affineLog(p, q *matrix.Dense, opts []matrix.Option) (*matrix.Dense, error) {
	s, si, err := roots(p, opts)
	if err != nil {
		return nil, err
	}
	w, err := matrix.Congruence(si, q)
	if err != nil {
		return nil, err
	}
	l, err := matrix.Logm(w, opts...)
	if err != nil {
		return nil, spdErr(err)
	}
	out, err := matrix.Congruence(s, l)
	if err != nil {
		return nil, err
	}

	return matrix.Symmetrize(out)
}

func affineSqDist(p, q *matrix.Dense, opts []matrix.Option) (float64, error) {
	si, err := matrix.InvSqrtm(p, opts...)
	if err != nil {
		return 0, spdErr(err)
	}
	w, err := matrix.Congruence(si, q)
	if err != nil {
		return 0, err
	}
	l, err := matrix.Logm(w, opts...)
	if err != nil {
		return 0, spdErr(err)
	}
	ll, err := matrix.TraceProduct(l, l)
	if err != nil {
		return 0, err
	}

	return 0.5 * ll, nil
}

// affineInner returns ½ tr(P⁻¹ A P⁻¹ B) given P⁻¹.
func affineInner(pinv, a, b *matrix.Dense) (float64, error) {
	pa, err := matrix.Mul(pinv, a)
	if err != nil {
		return 0, err
	}
	pb, err := matrix.Mul(pinv, b)
	if err != nil {
		return 0, err
	}
	tr, err := matrix.TraceProduct(pa, pb)
	if err != nil {
		return 0, err
	}

	return 0.5 * tr, nil
}

// inverseSPD returns P⁻¹ through the spectral calculus.
func inverseSPD(p *matrix.Dense, opts []matrix.Option) (*matrix.Dense, error) {
	inv, err := matrix.Powm(p, -1, opts...)
	if err != nil {
		return nil, spdErr(err)
	}

	return inv, nil
}

// clampSPD symmetrizes p and raises every eigenvalue to at least eps.
func clampSPD(p *matrix.Dense, eps float64, opts []matrix.Option) (*matrix.Dense, error) {
	return matrix.SymFunc(p, func(x float64) float64 { return math.Max(x, eps) }, opts...)
}

// randomSPD returns expm(sym(U)) with U uniform in [-bound, bound].
func randomSPD(n int, draw func() float64, opts []matrix.Option) (*matrix.Dense, error) {
	u, err := matrix.NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if err = u.Set(i, j, draw()); err != nil {
				return nil, err
			}
		}
	}

	return matrix.Expm(u, opts...) // Expm symmetrizes first
}
