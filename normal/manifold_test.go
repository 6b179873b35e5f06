// SPDX-License-Identifier: MIT
package normal_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/moiseevigor/geomstats/matrix"
	"github.com/moiseevigor/geomstats/normal"
)

func TestNew_Configuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		kind normal.Kind
		n    int
		opts []normal.Option
	}{
		{"zero sampleDim", normal.Centered, 0, nil},
		{"negative sampleDim", normal.General, -3, nil},
		{"unknown kind", normal.Kind(7), 2, nil},
		{"bad epsilon", normal.Diagonal, 2, []normal.Option{normal.WithEpsilon(-1)}},
		{"bad steps", normal.General, 2, []normal.Option{normal.WithIntegrationSteps(0)}},
		{"bad iterations", normal.General, 2, []normal.Option{normal.WithMaxIterations(-1)}},
		{"bad tolerance", normal.General, 2, []normal.Option{normal.WithTolerance(math.NaN())}},
		{"nil rand", normal.General, 2, []normal.Option{normal.WithRand(nil)}},
		{"nil logger", normal.General, 2, []normal.Option{normal.WithLogger(nil)}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := normal.New(tc.kind, tc.n, tc.opts...)
			require.ErrorIs(t, err, normal.ErrConfiguration)
		})
	}
}

func TestDim(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		kind normal.Kind
		n    int
		dim  int
	}{
		{normal.Centered, 3, 9},
		{normal.Diagonal, 3, 6},
		{normal.General, 3, 9},
		{normal.General, 1, 2},
	} {
		m := mustNew(t, tc.kind, tc.n)
		assert.Equal(t, tc.dim, m.Dim(), "%v n=%d", tc.kind, tc.n)
		assert.Equal(t, tc.n, m.SampleDim())
		assert.Equal(t, tc.kind, m.Kind())
	}
	assert.Equal(t, "Kind(9)", normal.Kind(9).String())
}

func TestBelongs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		kind normal.Kind
		rows [][]float64
		want []bool
	}{
		{"centered identity", normal.Centered, [][]float64{{1, 0, 0, 1}}, []bool{true}},
		{"centered indefinite", normal.Centered, [][]float64{{1, 2, 2, 1}}, []bool{false}},
		{"centered asymmetric", normal.Centered, [][]float64{{1, 0.5, 0, 1}}, []bool{false}},
		{"centered singular", normal.Centered, [][]float64{{1, 1, 1, 1}}, []bool{false}},
		{"diagonal batch", normal.Diagonal, [][]float64{{5, -3, 1, 2}, {0, 0, 1, 0}, {0, 0, -1, 1}}, []bool{true, false, false}},
		{"general", normal.General, [][]float64{{1, 2, 2, 0.5, 1}, {1, 2, 1, 2, 1}}, []bool{true, false}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			m := mustNew(t, tc.kind, 2)
			got, err := m.Belongs(mustRows(t, tc.rows...), 1e-12)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

// TestBelongs_WrongShape checks the configurable strictness on a point whose
// ambient dimension does not match sampleDim.
func TestBelongs_WrongShape(t *testing.T) {
	t.Parallel()

	bad := mustRows(t, []float64{1, 0, 1}, []float64{2, 0, 2})

	lenient := mustNew(t, normal.Centered, 2)
	got, err := lenient.Belongs(bad, 1e-9)
	require.NoError(t, err)
	require.Equal(t, []bool{false, false}, got)

	strict := mustNew(t, normal.Centered, 2, normal.WithStrictShapes())
	_, err = strict.Belongs(bad, 1e-9)
	require.ErrorIs(t, err, normal.ErrShapeMismatch)

	_, err = lenient.Belongs(nil, 1e-9)
	require.ErrorIs(t, err, normal.ErrShapeMismatch)
	_, err = lenient.Belongs(bad, math.NaN())
	require.ErrorIs(t, err, normal.ErrConfiguration)
}

func TestRandomPoint_Belongs(t *testing.T) {
	t.Parallel()

	for _, kind := range kinds {
		for _, n := range []int{1, 2, 3} {
			kind, n := kind, n
			t.Run(fmt.Sprintf("%v/n=%d", kind, n), func(t *testing.T) {
				m := mustNew(t, kind, n, normal.WithSeed(uint64(10*n)+uint64(kind)))
				pts, err := m.RandomPoint(10, 1.0)
				require.NoError(t, err)
				require.Equal(t, 10, pts.Rows())
				require.Equal(t, m.Dim(), pts.Cols())

				ok, err := m.Belongs(pts, 1e-12)
				require.NoError(t, err)
				for i, b := range ok {
					require.Truef(t, b, "row %d: %v", i, row(t, pts, i))
				}
			})
		}
	}
}

func TestRandomPoint_SingleKeepsBatchAxis(t *testing.T) {
	t.Parallel()

	m := mustNew(t, normal.Diagonal, 2, normal.WithSeed(3))
	p, err := m.RandomPoint(1, 2)
	require.NoError(t, err)
	require.Equal(t, 1, p.Rows())
	require.Equal(t, 4, p.Cols())

	_, err = m.RandomPoint(0, 1)
	require.ErrorIs(t, err, normal.ErrConfiguration)
	_, err = m.RandomPoint(3, -1)
	require.ErrorIs(t, err, normal.ErrConfiguration)
}

func TestRandomPoint_SeedIsDeterministic(t *testing.T) {
	a, err := mustNew(t, normal.General, 2, normal.WithSeed(42)).RandomPoint(3, 1)
	require.NoError(t, err)
	b, err := mustNew(t, normal.General, 2, normal.WithSeed(42)).RandomPoint(3, 1)
	require.NoError(t, err)
	requireClose(t, a, b, 0)

	normal.Seed(7)
	c, err := mustNew(t, normal.Centered, 2).RandomPoint(2, 1)
	require.NoError(t, err)
	normal.Seed(7)
	d, err := mustNew(t, normal.Centered, 2).RandomPoint(2, 1)
	require.NoError(t, err)
	requireClose(t, c, d, 0)
}

func TestUnstackStack_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, kind := range kinds {
		kind := kind
		t.Run(kind.String(), func(t *testing.T) {
			m := mustNew(t, kind, 3, normal.WithSeed(5))
			pts, err := m.RandomPoint(4, 1.5)
			require.NoError(t, err)
			for i := 0; i < pts.Rows(); i++ {
				p := row(t, pts, i)
				mean, cov, err := m.Unstack(p)
				require.NoError(t, err)
				require.Len(t, mean, 3)
				require.Equal(t, 3, cov.Rows())

				back, err := m.Stack(mean, cov)
				require.NoError(t, err)
				require.Equal(t, p, back)
			}
		})
	}
}

func TestUnstack_Layouts(t *testing.T) {
	t.Parallel()

	g := mustNew(t, normal.General, 2)
	mean, cov, err := g.Unstack([]float64{1, 2, 3, 0.5, 4})
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2}, mean)
	want, err := matrix.NewDenseFromRows([][]float64{{3, 0.5}, {0.5, 4}})
	require.NoError(t, err)
	requireClose(t, want, cov, 0)

	d := mustNew(t, normal.Diagonal, 2)
	mean, vars, err := d.UnstackMeanDiagonal([]float64{1, 2, 3, 4})
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2}, mean)
	require.Equal(t, []float64{3, 4}, vars)

	c := mustNew(t, normal.Centered, 2)
	mean, _, err = c.Unstack([]float64{2, 0, 0, 2})
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0}, mean)
	p, err := c.Stack(nil, want)
	require.NoError(t, err)
	require.Equal(t, []float64{3, 0.5, 0.5, 4}, p)

	_, _, err = g.Unstack([]float64{1, 2, 3})
	require.ErrorIs(t, err, normal.ErrShapeMismatch)
	_, err = g.Stack([]float64{1}, want)
	require.ErrorIs(t, err, normal.ErrShapeMismatch)
	_, err = d.Stack([]float64{1, 2}, want)
	require.ErrorIs(t, err, normal.ErrShapeMismatch) // off-diagonal 0.5
}

func TestProjection(t *testing.T) {
	t.Parallel()

	c := mustNew(t, normal.Centered, 2, normal.WithEpsilon(1e-3))
	proj, err := c.Projection(mustVec(t, 1, 2, 2, 1)) // eigenvalues 3, -1
	require.NoError(t, err)
	ok, err := c.Belongs(proj, 1e-9)
	require.NoError(t, err)
	require.Equal(t, []bool{true}, ok)

	d := mustNew(t, normal.Diagonal, 1, normal.WithEpsilon(1e-3))
	proj, err = d.Projection(mustVec(t, 5, -2))
	require.NoError(t, err)
	require.Equal(t, []float64{5, 1e-3}, row(t, proj, 0))
}

func TestTangentHelpers(t *testing.T) {
	t.Parallel()

	c := mustNew(t, normal.Centered, 2)
	vecs := mustRows(t, []float64{1, 2, 2, 1}, []float64{1, 2, 0, 1})
	ok, err := c.IsTangent(vecs, 1e-12)
	require.NoError(t, err)
	require.Equal(t, []bool{true, false}, ok)

	sym, err := c.ToTangent(vecs)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 1, 1, 1}, row(t, sym, 1))

	g := mustNew(t, normal.General, 2)
	ok, err = g.IsTangent(tangentFor(t, normal.General), 0)
	require.NoError(t, err)
	require.Equal(t, []bool{true}, ok)
}

func TestWithLogger_Accepted(t *testing.T) {
	t.Parallel()

	m := mustNew(t, normal.General, 1, normal.WithLogger(zap.NewExample()))
	p := mustVec(t, 0, 1)
	q := mustVec(t, 1, 2)
	_, err := m.Log(q, p)
	require.NoError(t, err)
}
