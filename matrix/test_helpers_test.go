// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   • Provide small, deterministic fixtures (dense builders, random SPD matrices).
//   • Keep all data finite and well-formed to avoid numeric-policy interference.

package matrix_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/moiseevigor/geomstats/matrix"
)

// hide wraps any Matrix to hide its concrete type, forcing the asDense
// materialization path in kernels under test.
type hide struct{ matrix.Matrix }

// MustDense allocates an r×c *Dense or fails the test.
func MustDense(tb testing.TB, r, c int) *matrix.Dense {
	tb.Helper()
	m, err := matrix.NewDense(r, c)
	require.NoError(tb, err)

	return m
}

// MustFrom builds an r×c *Dense from row-major data or fails the test.
func MustFrom(tb testing.TB, r, c int, data ...float64) *matrix.Dense {
	tb.Helper()
	m, err := matrix.NewDenseFrom(r, c, data)
	require.NoError(tb, err)

	return m
}

// MustAt reads m[i,j] or fails the test.
func MustAt(tb testing.TB, m matrix.Matrix, i, j int) float64 {
	tb.Helper()
	v, err := m.At(i, j)
	require.NoError(tb, err)

	return v
}

// RequireClose asserts element-wise closeness (rtol=0) with a readable dump.
func RequireClose(tb testing.TB, want, got matrix.Matrix, atol float64) {
	tb.Helper()
	ok, err := matrix.AllClose(got, want, 0, atol)
	require.NoError(tb, err)
	require.Truef(tb, ok, "want:\n%v\ngot:\n%v", want, got)
}

// fillRand fills m with uniform values in [-1, 1) from a seeded PCG.
func fillRand(tb testing.TB, m *matrix.Dense, seed uint64) {
	tb.Helper()
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	r, c := m.Shape()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			require.NoError(tb, m.Set(i, j, 2*rng.Float64()-1))
		}
	}
}

// randSPD returns A·Aᵀ + n·I for a random A; eigenvalues are ≥ n.
func randSPD(tb testing.TB, n int, seed uint64) *matrix.Dense {
	tb.Helper()
	a := MustDense(tb, n, n)
	fillRand(tb, a, seed)
	at, err := matrix.Transpose(a)
	require.NoError(tb, err)
	s, err := matrix.Mul(a, at)
	require.NoError(tb, err)
	for i := 0; i < n; i++ {
		v := MustAt(tb, s, i, i)
		require.NoError(tb, s.Set(i, i, v+float64(n)))
	}

	return s
}

// randSym returns a random symmetric matrix with entries in [-1, 1].
func randSym(tb testing.TB, n int, seed uint64) *matrix.Dense {
	tb.Helper()
	a := MustDense(tb, n, n)
	fillRand(tb, a, seed)
	s, err := matrix.Symmetrize(a)
	require.NoError(tb, err)

	return s
}
