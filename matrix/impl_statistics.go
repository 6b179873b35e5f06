// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Column statistics over sample matrices (one observation per row):
//     CenterColumns and the unbiased sample Covariance.
//   - Used to check samplers against the covariance they were drawn from.
//
// Exposed API:
//   - CenterColumns(X) -> (Xc, means) // subtract per-column mean
//   - Covariance(X)    -> (Cov, means) // (Xcᵀ Xc)/(r-1)

package matrix

import "fmt"

const (
	opCenterColumns = "CenterColumns"
	opCovariance    = "Covariance"
)

// CenterColumns subtracts the per-column mean from every element.
//
// Implementation:
//   - Stage 1: accumulate column sums in a single i→j pass.
//   - Stage 2: divide by r and broadcast-subtract via ewBroadcastSubCols.
//
// Returns:
//   - *Dense: centered copy (r×c).
//   - []float64: column means (len=c).
//
// Errors:
//   - ErrNilMatrix.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func CenterColumns(X Matrix) (*Dense, []float64, error) {
	d, err := asDense(X)
	if err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}
	r, c := d.r, d.c
	means := make([]float64, c)
	var i, j, base int
	for i = 0; i < r; i++ {
		base = i * c
		for j = 0; j < c; j++ {
			means[j] += d.data[base+j]
		}
	}
	invR := 1.0 / float64(r)
	for j = 0; j < c; j++ {
		means[j] *= invR
	}
	Xc, err := ewBroadcastSubCols(d, means)
	if err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}

	return Xc, means, nil
}

// Covariance returns the unbiased sample covariance of the columns of X,
// (Xcᵀ·Xc)/(r-1), together with the column means.
//
// Errors:
//   - ErrNilMatrix.
//   - ErrBadShape when X has fewer than two rows.
//
// Complexity:
//   - Time O(r*c²), Space O(r*c + c²).
func Covariance(X Matrix) (*Dense, []float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	if X.Rows() < 2 {
		return nil, nil, matrixErrorf(opCovariance, fmt.Errorf("rows=%d: %w", X.Rows(), ErrBadShape))
	}
	Xc, means, err := CenterColumns(X)
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	XcT, err := Transpose(Xc)
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	gram, err := Mul(XcT, Xc)
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	cov, err := Scale(gram, 1.0/float64(X.Rows()-1))
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}

	return cov, means, nil
}
