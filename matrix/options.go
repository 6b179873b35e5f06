// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for the numeric policy of the
// spectral and SPD routines. This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal) that applies options in order.
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - No dead switches: each knob changes behavior and is covered by tests.
//   - Safe by construction: panic only on invalid parameters (programmer error).
package matrix

import "math"

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultEpsilon is the strict floor for eigenvalues in IsSPD and the SPD
	// functional calculus, and the symmetry tolerance of IsSPD.
	DefaultEpsilon = 1e-9

	// DefaultValidateNaNInf toggles strict finite-value validation on Set/SetRow.
	DefaultValidateNaNInf = true

	// DefaultEigenTolerance is the relative off-diagonal threshold for Jacobi
	// sweeps: iteration stops once max|A[p,q]| < tol * max(1, ‖A‖_F).
	DefaultEigenTolerance = 1e-13

	// DefaultEigenSweeps bounds Jacobi work as sweeps*n*n rotations.
	DefaultEigenSweeps = 64
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicEpsilonInvalid  = "matrix: WithEpsilon: eps must be finite, non-negative"
	panicEigenTolInvalid = "matrix: WithEigenTolerance: tol must be finite, positive"
	panicEigenMaxInvalid = "matrix: WithEigenMaxIter: maxIter must be positive"
)

// Option mutates internal options. Safe to apply repeatedly (idempotent).
// Constructors MUST panic only on nonsensical values (programmer error).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Fields are unexported; public entry points accept `...Option`.
type Options struct {
	eps        float64 // >= 0; DefaultEpsilon
	eigTol     float64 // > 0; DefaultEigenTolerance
	eigMaxIter int     // > 0; 0 means DefaultEigenSweeps*n*n resolved per call
}

// WithEpsilon sets the eigenvalue floor / symmetry tolerance.
// Panics if eps is negative or non-finite.
func WithEpsilon(eps float64) Option {
	if isNonFinite(eps) || eps < 0 {
		panic(panicEpsilonInvalid)
	}

	return func(o *Options) { o.eps = eps }
}

// WithEigenTolerance sets the relative Jacobi convergence threshold.
// Panics if tol is not finite and positive.
func WithEigenTolerance(tol float64) Option {
	if isNonFinite(tol) || tol <= 0 {
		panic(panicEigenTolInvalid)
	}

	return func(o *Options) { o.eigTol = tol }
}

// WithEigenMaxIter caps the number of Jacobi rotations.
// Panics if maxIter <= 0.
func WithEigenMaxIter(maxIter int) Option {
	if maxIter <= 0 {
		panic(panicEigenMaxInvalid)
	}

	return func(o *Options) { o.eigMaxIter = maxIter }
}

// gatherOptions applies user options over the documented defaults in order
// (last-writer-wins).
func gatherOptions(user ...Option) Options {
	o := Options{
		eps:    DefaultEpsilon,
		eigTol: DefaultEigenTolerance,
	}
	for _, set := range user {
		set(&o)
	}

	return o
}

// eigenBudget resolves the rotation cap for an n×n problem.
func (o Options) eigenBudget(n int) int {
	if o.eigMaxIter > 0 {
		return o.eigMaxIter
	}
	if n < 2 {
		return 1
	}

	return DefaultEigenSweeps * n * n
}

// isNonFinite reports NaN or ±Inf.
func isNonFinite(x float64) bool { return math.IsNaN(x) || math.IsInf(x, 0) }
