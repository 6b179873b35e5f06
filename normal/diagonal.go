// SPDX-License-Identifier: MIT
// Package normal - diagonal family N(μ, diag(v)).
//
// A point is [μ | v] with v > 0 (2n columns). The Fisher metric
//
//	g(a, b) = Σ_i a_μi·b_μi / v_i + a_vi·b_vi / (2 v_i²)
//
// is a product of n scaled hyperbolic planes, one per coordinate, so every
// geodesic operation decomposes into independent half-plane problems.

package normal

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/moiseevigor/geomstats/matrix"
)

type diagonalKernel struct {
	n   int
	cfg *config
}

func (k *diagonalKernel) dim() int { return 2 * k.n }

func (k *diagonalKernel) belongs(p []float64, atol float64) bool {
	for i, x := range p {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
		if i >= k.n && !(x > atol) {
			return false
		}
	}

	return true
}

func (k *diagonalKernel) randomPoint(r *rand.Rand, bound float64) ([]float64, error) {
	p := make([]float64, 2*k.n)
	for i := 0; i < k.n; i++ {
		p[i] = uniform(r, bound)
	}
	for i := k.n; i < 2*k.n; i++ {
		p[i] = math.Exp(uniform(r, bound))
	}

	return p, nil
}

func (k *diagonalKernel) unstack(p []float64) ([]float64, *matrix.Dense, error) {
	mean := append([]float64(nil), p[:k.n]...)
	cov, err := matrix.NewDiag(p[k.n:])
	if err != nil {
		return nil, nil, err
	}

	return mean, cov, nil
}

// stack reads the diagonal of cov; off-diagonal entries must be zero.
func (k *diagonalKernel) stack(mean []float64, cov *matrix.Dense) ([]float64, error) {
	p := make([]float64, 0, 2*k.n)
	p = append(p, mean...)
	for i := 0; i < k.n; i++ {
		for j := 0; j < k.n; j++ {
			v, err := cov.At(i, j)
			if err != nil {
				return nil, err
			}
			switch {
			case i == j:
				p = append(p, v)
			case v != 0:
				return nil, fmt.Errorf("covariance entry (%d,%d)=%g off the diagonal: %w", i, j, v, ErrShapeMismatch)
			}
		}
	}

	return p, nil
}

func (k *diagonalKernel) project(p []float64) ([]float64, error) {
	out := append([]float64(nil), p...)
	for i := k.n; i < 2*k.n; i++ {
		out[i] = math.Max(out[i], k.cfg.eps)
	}

	return out, nil
}

// Every ambient vector is tangent: the family is an open subset of R^{2n}.
func (k *diagonalKernel) isTangent([]float64, float64) bool { return true }

func (k *diagonalKernel) toTangent(v []float64) ([]float64, error) {
	return append([]float64(nil), v...), nil
}

func (k *diagonalKernel) inner(a, b, base []float64) (float64, error) {
	var s float64
	for i := 0; i < k.n; i++ {
		v := base[k.n+i]
		if !(v > 0) {
			return 0, fmt.Errorf("variance %d = %g: %w", i, v, ErrNotPositiveDefinite)
		}
		s += a[i]*b[i]/v + a[k.n+i]*b[k.n+i]/(2*v*v)
	}

	return s, nil
}

// toPlane maps coordinate i of a point to the half-plane.
func (k *diagonalKernel) toPlane(p []float64, i int) (complex128, error) {
	v := p[k.n+i]
	if !(v > 0) {
		return 0, fmt.Errorf("variance %d = %g: %w", i, v, ErrNotPositiveDefinite)
	}

	return complex(p[i]/math.Sqrt2, math.Sqrt(v)), nil
}

func (k *diagonalKernel) exp(t, base []float64) ([]float64, error) {
	out := make([]float64, 2*k.n)
	for i := 0; i < k.n; i++ {
		z0, err := k.toPlane(base, i)
		if err != nil {
			return nil, err
		}
		y0 := imag(z0)
		// dμ = √2·dx, dv = 2y·dy
		z := halfPlaneExp(z0, complex(t[i]/math.Sqrt2, t[k.n+i]/(2*y0)))
		out[i] = math.Sqrt2 * real(z)
		out[k.n+i] = imag(z) * imag(z)
	}

	return out, nil
}

func (k *diagonalKernel) log(p, base []float64) ([]float64, error) {
	out := make([]float64, 2*k.n)
	for i := 0; i < k.n; i++ {
		z0, err := k.toPlane(base, i)
		if err != nil {
			return nil, err
		}
		z1, err := k.toPlane(p, i)
		if err != nil {
			return nil, err
		}
		t := halfPlaneLog(z0, z1)
		out[i] = math.Sqrt2 * real(t)
		out[k.n+i] = 2 * imag(z0) * imag(t)
	}

	return out, nil
}

func (k *diagonalKernel) squaredDist(a, b []float64) (float64, error) {
	var s float64
	for i := 0; i < k.n; i++ {
		z0, err := k.toPlane(a, i)
		if err != nil {
			return 0, err
		}
		z1, err := k.toPlane(b, i)
		if err != nil {
			return 0, err
		}
		d := hyperbolicDist(z0, z1)
		s += 2 * d * d
	}

	return s, nil
}
