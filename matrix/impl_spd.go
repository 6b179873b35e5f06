// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Functional calculus on symmetric (positive-definite) matrices built on the
//     Jacobi eigen-decomposition: f(A) = Q·diag(f(λ))·Qᵀ.
//   - Standalone helpers shared by every Gaussian manifold: Expm, Logm, Sqrtm,
//     InvSqrtm, Powm, IsSPD, MinEigenvalue, Congruence, TraceProduct and the
//     upper-triangle packing SymToVec / VecToSym.
//
// Numeric policy:
//   - Inputs are symmetrized ((A+Aᵀ)/2) before decomposition, so callers may pass
//     matrices with round-off asymmetry.
//   - Eigen tolerance is relative: tol·max(1, ‖A‖_F) (see WithEigenTolerance).
//   - Functions defined only on the open SPD cone (Logm, Sqrtm, InvSqrtm, Powm)
//     reject eigenvalues ≤ eps with ErrNotPositiveDefinite (see WithEpsilon).
//   - Results are exactly symmetric: only the upper triangle is computed.

package matrix

import (
	"fmt"
	"math"
)

const (
	opSymmetrize    = "Symmetrize"
	opSymFunc       = "SymFunc"
	opExpm          = "Expm"
	opLogm          = "Logm"
	opSqrtm         = "Sqrtm"
	opInvSqrtm      = "InvSqrtm"
	opPowm          = "Powm"
	opMinEigenvalue = "MinEigenvalue"
	opCongruence    = "Congruence"
	opTraceProduct  = "TraceProduct"
	opVecToSym      = "VecToSym"
	opSymToVec      = "SymToVec"
)

// Symmetrize returns (m + mᵀ)/2.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare.
//
// Complexity:
//   - Time O(n²), Space O(n²).
func Symmetrize(m Matrix) (*Dense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opSymmetrize, err)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opSymmetrize, err)
	}
	n := d.r
	out, err := newDenseWithPolicy(n, n, d.validateNaNInf)
	if err != nil {
		return nil, matrixErrorf(opSymmetrize, err)
	}
	var i, j int
	var v float64
	for i = 0; i < n; i++ {
		out.data[i*n+i] = d.data[i*n+i]
		for j = i + 1; j < n; j++ {
			v = 0.5 * (d.data[i*n+j] + d.data[j*n+i])
			out.data[i*n+j], out.data[j*n+i] = v, v
		}
	}

	return out, nil
}

// frobenius returns ‖d‖_F over the flat buffer.
func frobenius(d *Dense) float64 {
	var s float64
	for _, v := range d.data {
		s += v * v
	}

	return math.Sqrt(s)
}

// eigenSym symmetrizes m and decomposes it with the relative tolerance policy.
func eigenSym(m Matrix, o Options) ([]float64, *Dense, error) {
	s, err := Symmetrize(m)
	if err != nil {
		return nil, nil, err
	}
	if err = ValidateFinite(s); err != nil {
		return nil, nil, err
	}
	tol := o.eigTol * math.Max(1, frobenius(s))

	return Eigen(s, tol, o.eigenBudget(s.r))
}

// spectral rebuilds Q·diag(f(λ))·Qᵀ. With requirePD every λ must exceed o.eps.
func spectral(m Matrix, f func(float64) float64, requirePD bool, o Options) (*Dense, error) {
	vals, q, err := eigenSym(m, o)
	if err != nil {
		return nil, err
	}
	n := len(vals)
	fv := make([]float64, n)
	for k, lambda := range vals {
		if requirePD && !(lambda > o.eps) {
			return nil, fmt.Errorf("eigenvalue %d = %.3g: %w", k, lambda, ErrNotPositiveDefinite)
		}
		fv[k] = f(lambda)
	}
	out, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	var i, j, k int
	var s float64
	for i = 0; i < n; i++ {
		for j = i; j < n; j++ {
			s = ZeroSum
			for k = 0; k < n; k++ {
				s += q.data[i*n+k] * fv[k] * q.data[j*n+k]
			}
			out.data[i*n+j], out.data[j*n+i] = s, s
		}
	}

	return out, nil
}

// SymFunc applies a scalar function to the spectrum of a symmetric matrix.
// No positivity is required; f must be defined on every eigenvalue.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrNaNInf, ErrMatrixEigenFailed.
//
// Complexity:
//   - Time O(rotations·n + n³), Space O(n²).
func SymFunc(m Matrix, f func(float64) float64, opts ...Option) (*Dense, error) {
	out, err := spectral(m, f, false, gatherOptions(opts...))
	if err != nil {
		return nil, matrixErrorf(opSymFunc, err)
	}

	return out, nil
}

// Expm returns the matrix exponential of a symmetric matrix. The result is SPD.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrNaNInf, ErrMatrixEigenFailed.
func Expm(m Matrix, opts ...Option) (*Dense, error) {
	out, err := spectral(m, math.Exp, false, gatherOptions(opts...))
	if err != nil {
		return nil, matrixErrorf(opExpm, err)
	}

	return out, nil
}

// Logm returns the principal logarithm of an SPD matrix (inverse of Expm).
//
// Errors:
//   - ErrNotPositiveDefinite when an eigenvalue is ≤ eps, plus Expm's errors.
func Logm(m Matrix, opts ...Option) (*Dense, error) {
	out, err := spectral(m, math.Log, true, gatherOptions(opts...))
	if err != nil {
		return nil, matrixErrorf(opLogm, err)
	}

	return out, nil
}

// Sqrtm returns the SPD square root S with S·S = m.
func Sqrtm(m Matrix, opts ...Option) (*Dense, error) {
	out, err := spectral(m, math.Sqrt, true, gatherOptions(opts...))
	if err != nil {
		return nil, matrixErrorf(opSqrtm, err)
	}

	return out, nil
}

// InvSqrtm returns m^{-1/2}.
func InvSqrtm(m Matrix, opts ...Option) (*Dense, error) {
	out, err := spectral(m, func(x float64) float64 { return 1 / math.Sqrt(x) }, true, gatherOptions(opts...))
	if err != nil {
		return nil, matrixErrorf(opInvSqrtm, err)
	}

	return out, nil
}

// Powm returns m^p for an SPD matrix and any finite real p.
// Powm(m, -1) is the SPD inverse.
func Powm(m Matrix, p float64, opts ...Option) (*Dense, error) {
	if isNonFinite(p) {
		return nil, matrixErrorf(opPowm, ErrNaNInf)
	}
	out, err := spectral(m, func(x float64) float64 { return math.Pow(x, p) }, true, gatherOptions(opts...))
	if err != nil {
		return nil, matrixErrorf(opPowm, err)
	}

	return out, nil
}

// MinEigenvalue returns the smallest eigenvalue of the symmetric part of m.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrNaNInf, ErrMatrixEigenFailed.
func MinEigenvalue(m Matrix, opts ...Option) (float64, error) {
	vals, _, err := eigenSym(m, gatherOptions(opts...))
	if err != nil {
		return 0, matrixErrorf(opMinEigenvalue, err)
	}
	lo := math.Inf(1)
	for _, v := range vals {
		if v < lo {
			lo = v
		}
	}

	return lo, nil
}

// IsSPD reports whether m is square, finite, symmetric within tol and has all
// eigenvalues strictly greater than tol. It never returns an error: malformed
// input simply yields false.
//
// Complexity:
//   - O(n²) checks plus one eigen-decomposition.
func IsSPD(m Matrix, tol float64, opts ...Option) bool {
	if isNonFinite(tol) || ValidateSquare(m) != nil || ValidateFinite(m) != nil {
		return false
	}
	if ValidateSymmetric(m, tol) != nil {
		return false
	}
	lo, err := MinEigenvalue(m, opts...)
	if err != nil {
		return false
	}

	return lo > math.Abs(tol)
}

// Congruence returns a·x·aᵀ.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (x must be a.Cols()×a.Cols()).
//
// Complexity:
//   - Time O(r²·c + r·c²).
func Congruence(a, x Matrix) (*Dense, error) {
	ax, err := Mul(a, x)
	if err != nil {
		return nil, matrixErrorf(opCongruence, err)
	}
	at, err := Transpose(a)
	if err != nil {
		return nil, matrixErrorf(opCongruence, err)
	}
	out, err := Mul(ax, at)
	if err != nil {
		return nil, matrixErrorf(opCongruence, err)
	}

	return out, nil
}

// TraceProduct returns tr(a·b) = Σ_ij a[i,j]·b[j,i] without forming the product.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (a must be r×c and b c×r).
//
// Complexity:
//   - Time O(r·c), Space O(1).
func TraceProduct(a, b Matrix) (float64, error) {
	da, err := asDense(a)
	if err != nil {
		return 0, matrixErrorf(opTraceProduct, err)
	}
	db, err := asDense(b)
	if err != nil {
		return 0, matrixErrorf(opTraceProduct, err)
	}
	if da.r != db.c || da.c != db.r {
		return 0, matrixErrorf(opTraceProduct, ErrDimensionMismatch)
	}
	var i, j int
	s := ZeroSum
	for i = 0; i < da.r; i++ {
		for j = 0; j < da.c; j++ {
			s += da.data[i*da.c+j] * db.data[j*db.c+i]
		}
	}

	return s, nil
}

// SymToVec packs the upper triangle of a square matrix in row-major order:
// (0,0),(0,1)…(0,n-1),(1,1)…(n-1,n-1). Length n(n+1)/2.
func SymToVec(m Matrix) ([]float64, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opSymToVec, err)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opSymToVec, err)
	}
	n := d.r
	out := make([]float64, 0, n*(n+1)/2)
	for i := 0; i < n; i++ {
		out = append(out, d.data[i*n+i:(i+1)*n]...)
	}

	return out, nil
}

// VecToSym unpacks an upper-triangle vector (SymToVec layout) into a symmetric n×n matrix.
//
// Errors:
//   - ErrInvalidDimensions for n ≤ 0.
//   - ErrDimensionMismatch when len(v) != n(n+1)/2.
//   - ErrNaNInf for non-finite entries.
func VecToSym(v []float64, n int) (*Dense, error) {
	out, err := NewDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opVecToSym, err)
	}
	if len(v) != n*(n+1)/2 {
		return nil, matrixErrorf(opVecToSym, fmt.Errorf("len=%d want %d: %w", len(v), n*(n+1)/2, ErrDimensionMismatch))
	}
	var i, j int
	k := 0
	for i = 0; i < n; i++ {
		for j = i; j < n; j++ {
			if isNonFinite(v[k]) {
				return nil, matrixErrorf(opVecToSym, denseErrorf(ctxSet, i, j, ErrNaNInf))
			}
			out.data[i*n+j], out.data[j*n+i] = v[k], v[k]
			k++
		}
	}

	return out, nil
}
