// SPDX-License-Identifier: MIT
// Package normal: sentinel error set.
//
// Every exported operation reports failures through these sentinels, wrapped
// with an operation tag (normalErrorf) so callers match with errors.Is.
// Shape problems are reported before any numeric work starts; no operation
// returns NaN in place of an error.

package normal

import (
	"errors"
	"fmt"

	"github.com/moiseevigor/geomstats/matrix"
)

var (
	// ErrShapeMismatch indicates an ambient dimension or batch shape that does
	// not fit the manifold (wrong column count, incompatible batch sizes).
	ErrShapeMismatch = errors.New("normal: shape mismatch")

	// ErrConfiguration indicates an invalid constructor parameter or option
	// value (non-positive sampleDim, unknown Kind, negative tolerance, ...).
	ErrConfiguration = errors.New("normal: invalid configuration")

	// ErrConvergence indicates that an iterative geodesic solve did not reach
	// its tolerance within the iteration budget, or left the SPD cone.
	ErrConvergence = errors.New("normal: geodesic solver did not converge")

	// ErrNotPositiveDefinite indicates a covariance that is not strictly
	// positive definite where one is required (densities, sampling, metrics).
	ErrNotPositiveDefinite = errors.New("normal: covariance is not positive definite")
)

// ConvergenceError carries the diagnostics of a failed iterative solve.
// errors.Is(err, ErrConvergence) reports true for it.
type ConvergenceError struct {
	Op         string  // solver stage, e.g. "Log"
	Iterations int     // iterations performed
	Residual   float64 // final residual norm
	Tolerance  float64 // absolute tolerance that was requested
	Reason     string  // short cause ("iteration budget", "line search stalled")
}

// Error implements error.
func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%s: %s after %d iterations: residual %.3g > tolerance %.3g: %v",
		e.Op, e.Reason, e.Iterations, e.Residual, e.Tolerance, ErrConvergence)
}

// Is reports whether target is ErrConvergence.
func (e *ConvergenceError) Is(target error) bool { return target == ErrConvergence }

// normalErrorf wraps err with an operation tag, preserving it via %w.
func normalErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// shapeErrorf builds a tagged ErrShapeMismatch naming the offending shapes.
func shapeErrorf(tag, format string, args ...any) error {
	return fmt.Errorf("%s: %s: %w", tag, fmt.Sprintf(format, args...), ErrShapeMismatch)
}

// spdErr lifts matrix.ErrNotPositiveDefinite into the package sentinel while
// keeping the original chain.
func spdErr(err error) error {
	if errors.Is(err, matrix.ErrNotPositiveDefinite) {
		return fmt.Errorf("%w: %w", ErrNotPositiveDefinite, err)
	}

	return err
}
