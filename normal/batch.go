// SPDX-License-Identifier: MIT
// Package normal - batching and broadcasting.
//
// Convention:
//   - A batch is a *matrix.Dense with one element per row.
//   - Operands of a binary/ternary operation each have either 1 row or a
//     common N rows; the result has N rows (1 when every operand has 1).
//   - Results are never squeezed: a single point comes back as a 1-row batch
//     (or a 1-element slice); callers take Row(0).
//   - All shapes are validated before any numeric work.

package normal

import (
	"github.com/moiseevigor/geomstats/matrix"
)

// Vec builds a 1-row batch from a single flattened point or tangent vector.
func Vec(v ...float64) (*matrix.Dense, error) {
	d, err := matrix.NewDenseFrom(1, len(v), v)
	if err != nil {
		return nil, normalErrorf("Vec", err)
	}

	return d, nil
}

// Rows stacks equally long rows into a batch.
func Rows(rows ...[]float64) (*matrix.Dense, error) {
	d, err := matrix.NewDenseFromRows(rows)
	if err != nil {
		return nil, normalErrorf("Rows", err)
	}

	return d, nil
}

// operand names a batch argument and the column count it must have.
type operand struct {
	name string
	d    *matrix.Dense
	cols int
}

// rowsOf copies every row of d once.
func rowsOf(d *matrix.Dense) ([][]float64, error) {
	out := make([][]float64, d.Rows())
	var err error
	for i := range out {
		if out[i], err = d.Row(i); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// gather validates operands and returns the broadcast batch size together
// with the rows of every operand (in argument order).
func gather(op string, ops ...operand) (int, [][][]float64, error) {
	n := 1
	for _, o := range ops {
		if o.d == nil {
			return 0, nil, shapeErrorf(op, "%s is nil", o.name)
		}
		if o.d.Cols() != o.cols {
			return 0, nil, shapeErrorf(op, "%s has shape (%d, %d), want (_, %d)", o.name, o.d.Rows(), o.d.Cols(), o.cols)
		}
		if r := o.d.Rows(); r != 1 {
			if n != 1 && r != n {
				return 0, nil, shapeErrorf(op, "%s has %d rows, cannot broadcast with %d", o.name, r, n)
			}
			n = r
		}
	}
	all := make([][][]float64, len(ops))
	var err error
	for i, o := range ops {
		if all[i], err = rowsOf(o.d); err != nil {
			return 0, nil, normalErrorf(op, err)
		}
	}

	return n, all, nil
}

// pick returns row i of a broadcast operand.
func pick(rows [][]float64, i int) []float64 {
	if len(rows) == 1 {
		return rows[0]
	}

	return rows[i]
}

// assemble packs result rows into a batch. Non-finite results surface as
// matrix.ErrNaNInf instead of being returned.
func assemble(op string, rows [][]float64) (*matrix.Dense, error) {
	out, err := matrix.NewDenseFromRows(rows)
	if err != nil {
		return nil, normalErrorf(op, err)
	}

	return out, nil
}
