// SPDX-License-Identifier: MIT
package normal_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moiseevigor/geomstats/matrix"
	"github.com/moiseevigor/geomstats/normal"
)

// batchTol loosens geomTol for random batches, whose conditioning is not
// hand-picked.
func batchTol(kind normal.Kind) float64 {
	if kind == normal.General {
		return 1e-5
	}

	return 1e-8
}

// TestRandomBatch_Properties checks the geometric identities on seeded
// random batches for every kind and sample dimension 1 to 3.
func TestRandomBatch_Properties(t *testing.T) {
	t.Parallel()

	const batch = 5
	for _, kind := range kinds {
		for n := 1; n <= 3; n++ {
			kind, n := kind, n
			t.Run(fmt.Sprintf("%s/n=%d", kind, n), func(t *testing.T) {
				t.Parallel()
				m := mustNew(t, kind, n, normal.WithSeed(uint64(10*n+int(kind))))
				tol := batchTol(kind)

				p, err := m.RandomPoint(batch, 1.0)
				require.NoError(t, err)
				q, err := m.RandomPoint(batch, 1.0)
				require.NoError(t, err)
				r, err := m.RandomPoint(batch, 1.0)
				require.NoError(t, err)

				// exp∘log
				pq, err := m.Log(q, p)
				require.NoError(t, err)
				back, err := m.Exp(pq, p)
				require.NoError(t, err)
				requireClose(t, q, back, tol)

				// Exp stays on the manifold; log∘exp
				v, err := matrix.Scale(pq, 0.5)
				require.NoError(t, err)
				mid, err := m.Exp(v, p)
				require.NoError(t, err)
				ok, err := m.Belongs(mid, 1e-9)
				require.NoError(t, err)
				for i, b := range ok {
					assert.Truef(t, b, "Exp row %d left the manifold", i)
				}
				w, err := m.Log(mid, p)
				require.NoError(t, err)
				requireClose(t, v, w, tol)

				dpq, err := m.Dist(p, q)
				require.NoError(t, err)
				dqp, err := m.Dist(q, p)
				require.NoError(t, err)
				dqr, err := m.Dist(q, r)
				require.NoError(t, err)
				dpr, err := m.Dist(p, r)
				require.NoError(t, err)
				require.Len(t, dpq, batch)
				for i := range dpq {
					assert.GreaterOrEqual(t, dpq[i], 0.0)
					assert.InDeltaf(t, dpq[i], dqp[i], tol, "symmetry row %d", i)
					assert.LessOrEqualf(t, dpr[i], dpq[i]+dqr[i]+tol, "triangle row %d", i)
				}
			})
		}
	}
}

// TestGeneralDist_RandomPairs runs shooting on random 3-dimensional pairs far
// enough apart that the undamped Newton step overshoots.
func TestGeneralDist_RandomPairs(t *testing.T) {
	t.Parallel()

	m := mustNew(t, normal.General, 3, normal.WithSeed(7))
	ps, err := m.RandomPoint(20, 1.5)
	require.NoError(t, err)
	qs, err := m.RandomPoint(20, 1.5)
	require.NoError(t, err)

	d, err := m.Dist(ps, qs)
	require.NoError(t, err)
	back, err := m.Dist(qs, ps)
	require.NoError(t, err)
	require.Len(t, d, 20)
	for i := range d {
		assert.Greater(t, d[i], 0.0)
		assert.InDeltaf(t, d[i], back[i], 1e-6, "pair %d", i)
	}

	v, err := m.Log(qs, ps)
	require.NoError(t, err)
	end, err := m.Exp(v, ps)
	require.NoError(t, err)
	requireClose(t, qs, end, 1e-6)
}
