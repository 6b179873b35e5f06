// SPDX-License-Identifier: MIT
// Package normal - Poincaré half-plane geodesics.
//
// A univariate Gaussian (μ, v) maps to z = x + iy with x = μ/√2, y = √v; the
// Fisher metric becomes 2(dx² + dy²)/y², twice the hyperbolic metric. The
// factor does not change geodesics, so exp/log are the hyperbolic ones and
// the Fisher distance is √2·d_H.
//
// Both maps go through the Cayley transform w = (z − z0)/(z − z̄0), which
// sends z0 to the disk origin where geodesics are straight rays:
//
//	exp: w = tanh(s/2)·u, z = (z0 − w·z̄0)/(1 − w)
//	log: direction ∝ 2i·y0·(z1 − z0)/(z1 − z̄0), length y0·d_H
//
// This form stays finite for vertical geodesics and for nearby points.

package normal

import (
	"math"
	"math/cmplx"
)

// hyperbolicDist returns d_H between two points of the upper half-plane,
// 2·asinh(|z1 − z0| / (2√(y0·y1))).
func hyperbolicDist(z0, z1 complex128) float64 {
	return 2 * math.Asinh(cmplx.Abs(z1-z0)/(2*math.Sqrt(imag(z0)*imag(z1))))
}

// halfPlaneExp follows the geodesic from z0 with Euclidean tangent t for unit time.
func halfPlaneExp(z0, t complex128) complex128 {
	y0 := imag(z0)
	norm := cmplx.Abs(t)
	if norm == 0 {
		return z0
	}
	// s is the hyperbolic length, dir the unit direction at the disk origin.
	s := norm / y0
	dir := -1i * t / complex(norm, 0)
	th := math.Tanh(s / 2)
	oneMinusTh := 2 / (math.Exp(s) + 1) // 1 − tanh(s/2) without cancellation
	w := complex(th, 0) * dir
	den := (1 - dir) + complex(oneMinusTh, 0)*dir

	return (z0 - w*cmplx.Conj(z0)) / den
}

// halfPlaneLog returns the Euclidean tangent at z0 of the geodesic reaching z1.
func halfPlaneLog(z0, z1 complex128) complex128 {
	d := z1 - z0
	if d == 0 {
		return 0
	}
	y0 := imag(z0)
	dir := 2i * complex(y0, 0) * d / (z1 - cmplx.Conj(z0))
	length := y0 * hyperbolicDist(z0, z1)

	return dir / complex(cmplx.Abs(dir), 0) * complex(length, 0)
}
