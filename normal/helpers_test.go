// SPDX-License-Identifier: MIT
// Package normal_test - shared fixtures.
package normal_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/moiseevigor/geomstats/matrix"
	"github.com/moiseevigor/geomstats/normal"
)

// kinds lists every family for table-driven tests.
var kinds = []normal.Kind{normal.Centered, normal.Diagonal, normal.General}

func mustNew(tb testing.TB, kind normal.Kind, n int, opts ...normal.Option) *normal.Manifold {
	tb.Helper()
	m, err := normal.New(kind, n, opts...)
	require.NoError(tb, err)

	return m
}

func mustVec(tb testing.TB, v ...float64) *matrix.Dense {
	tb.Helper()
	d, err := normal.Vec(v...)
	require.NoError(tb, err)

	return d
}

func mustRows(tb testing.TB, rows ...[]float64) *matrix.Dense {
	tb.Helper()
	d, err := normal.Rows(rows...)
	require.NoError(tb, err)

	return d
}

func row(tb testing.TB, d *matrix.Dense, i int) []float64 {
	tb.Helper()
	r, err := d.Row(i)
	require.NoError(tb, err)

	return r
}

func requireClose(tb testing.TB, want, got *matrix.Dense, atol float64) {
	tb.Helper()
	ok, err := matrix.AllClose(got, want, 0, atol)
	require.NoError(tb, err)
	require.Truef(tb, ok, "want:\n%v\ngot:\n%v", want, got)
}

// tangentFor returns a moderate, deterministic tangent vector for each kind.
func tangentFor(tb testing.TB, kind normal.Kind) *matrix.Dense {
	tb.Helper()
	switch kind {
	case normal.Centered:
		return mustVec(tb, 0.3, 0.1, 0.1, -0.2)
	case normal.Diagonal:
		return mustVec(tb, 0.4, -0.3, 0.2, -0.5)
	default:
		return mustVec(tb, 0.3, -0.2, 0.1, 0.05, -0.1)
	}
}

// pointsFor returns two distinct valid points (sampleDim 2) for each kind.
func pointsFor(tb testing.TB, kind normal.Kind) (*matrix.Dense, *matrix.Dense) {
	tb.Helper()
	switch kind {
	case normal.Centered:
		return mustVec(tb, 2, 0.5, 0.5, 1), mustVec(tb, 1, -0.2, -0.2, 3)
	case normal.Diagonal:
		return mustVec(tb, 0, 1, 1, 2), mustVec(tb, 1.5, -0.5, 0.5, 3)
	default:
		return mustVec(tb, 0, 1, 2, 0.5, 1), mustVec(tb, 1, -0.5, 1, -0.2, 3)
	}
}
