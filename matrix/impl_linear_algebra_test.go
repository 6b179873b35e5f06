// Package matrix_test contains unit tests for universal Matrix (linear algebra) operations.
package matrix_test

import (
	"fmt"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/moiseevigor/geomstats/matrix"
)

func TestNewDenseDefaultZero(t *testing.T) {
	for _, tc := range []struct{ rows, cols int }{
		{3, 3},
		{6, 2},
	} {
		t.Run(fmt.Sprintf("%dx%d", tc.rows, tc.cols), func(t *testing.T) {
			m := MustDense(t, tc.rows, tc.cols)
			for i := 0; i < tc.rows; i++ {
				for j := 0; j < tc.cols; j++ {
					require.Zero(t, MustAt(t, m, i, j))
				}
			}
		})
	}
}

// TestHelpers_InterfaceHiding ensures that a wrapper hiding the concrete type
// produces the same results as the bare Dense.
func TestHelpers_InterfaceHiding(t *testing.T) {
	t.Parallel()

	base := MustDense(t, 3, 3)
	fillRand(t, base, 3)

	sum1, err := matrix.Add(base, base)
	require.NoError(t, err)
	sum2, err := matrix.Add(hide{base}, base)
	require.NoError(t, err)
	RequireClose(t, sum1, sum2, 0)

	p1, err := matrix.Mul(base, base)
	require.NoError(t, err)
	p2, err := matrix.Mul(hide{base}, hide{base})
	require.NoError(t, err)
	RequireClose(t, p1, p2, 0)
}

func TestAddSub(t *testing.T) {
	t.Parallel()

	a := MustFrom(t, 2, 2, 1, 2, 3, 4)
	b := MustFrom(t, 2, 2, 4, 3, 2, 1)

	s, err := matrix.Add(a, b)
	require.NoError(t, err)
	RequireClose(t, MustFrom(t, 2, 2, 5, 5, 5, 5), s, 0)

	d, err := matrix.Sub(a, b)
	require.NoError(t, err)
	RequireClose(t, MustFrom(t, 2, 2, -3, -1, 1, 3), d, 0)

	_, err = matrix.Add(a, MustDense(t, 2, 3))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.Sub(nil, a)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestMulTranspose(t *testing.T) {
	t.Parallel()

	a := MustFrom(t, 2, 3, 1, 2, 3, 4, 5, 6)
	at, err := matrix.Transpose(a)
	require.NoError(t, err)
	RequireClose(t, MustFrom(t, 3, 2, 1, 4, 2, 5, 3, 6), at, 0)

	p, err := matrix.Mul(a, at)
	require.NoError(t, err)
	RequireClose(t, MustFrom(t, 2, 2, 14, 32, 32, 77), p, 0)

	_, err = matrix.Mul(a, a)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestScaleMatVec(t *testing.T) {
	t.Parallel()

	a := MustFrom(t, 2, 2, 1, 2, 3, 4)

	s, err := matrix.Scale(a, -2)
	require.NoError(t, err)
	RequireClose(t, MustFrom(t, 2, 2, -2, -4, -6, -8), s, 0)
	_, err = matrix.Scale(a, math.NaN())
	require.ErrorIs(t, err, matrix.ErrNaNInf)

	y, err := matrix.MatVec(a, []float64{1, -1})
	require.NoError(t, err)
	require.Equal(t, []float64{-1, -1}, y)
	_, err = matrix.MatVec(a, []float64{1})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestEigen_Diagonalizes(t *testing.T) {
	t.Parallel()

	a := MustFrom(t, 3, 3,
		4, 1, 0,
		1, 3, 1,
		0, 1, 2,
	)
	vals, q, err := matrix.Eigen(a, 1e-12, 1000)
	require.NoError(t, err)

	// Q·diag(λ)·Qᵀ reconstructs A.
	d, err := matrix.NewDiag(vals)
	require.NoError(t, err)
	qd, err := matrix.Mul(q, d)
	require.NoError(t, err)
	qt, err := matrix.Transpose(q)
	require.NoError(t, err)
	back, err := matrix.Mul(qd, qt)
	require.NoError(t, err)
	RequireClose(t, a, back, 1e-10)

	// Trace is preserved.
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	require.InDelta(t, 9.0, sorted[0]+sorted[1]+sorted[2], 1e-10)
	require.InDelta(t, 3.0, sorted[1], 1e-10) // spectrum is {3-√3, 3, 3+√3}
}

func TestEigen_Errors(t *testing.T) {
	t.Parallel()

	_, _, err := matrix.Eigen(MustFrom(t, 2, 2, 1, 2, 3, 4), 1e-12, 10)
	require.ErrorIs(t, err, matrix.ErrAsymmetry)
	_, _, err = matrix.Eigen(MustDense(t, 2, 3), 1e-12, 10)
	require.ErrorIs(t, err, matrix.ErrNonSquare)
	_, _, err = matrix.Eigen(randSPD(t, 4, 1), 1e-12, 1)
	require.ErrorIs(t, err, matrix.ErrMatrixEigenFailed)
}
