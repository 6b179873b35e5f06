// SPDX-License-Identifier: MIT
// Package matrix - constructors and thin helpers.
//
// Purpose:
//   - Intention-revealing constructors (NewZeros, NewDiag) and small helpers
//     layered on the canonical kernels.
//   - No logic duplication: every helper delegates to a kernel or constructor.

package matrix

// NewZeros returns a new zero-initialized *Dense of size rows×cols.
// Thin alias of NewDense with an intention-revealing name.
func NewZeros(rows, cols int) (*Dense, error) { return NewDense(rows, cols) }

// NewDiag returns the square matrix with d on its diagonal.
//
// Errors:
//   - ErrInvalidDimensions for empty d; ErrNaNInf for non-finite entries.
func NewDiag(d []float64) (*Dense, error) {
	n := len(d)
	out, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for i, v := range d {
		if err = out.Set(i, i, v); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// Data returns a copy of the row-major buffer of m.
// Complexity: O(r*c).
func Data(m Matrix) ([]float64, error) {
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf("Data", err)
	}
	out := make([]float64, len(d.data))
	copy(out, d.data)

	return out, nil
}
