// SPDX-License-Identifier: MIT
// Package normal - batched public operations of Manifold.
//
// Every method validates shapes first (ErrShapeMismatch), then runs the
// kind's kernel row by row, broadcasting 1-row operands (see batch.go).

package normal

import (
	"fmt"
	"math"
	"slices"

	"github.com/moiseevigor/geomstats/matrix"
)

// Operation tags for error wrapping.
const (
	opBelongs      = "Belongs"
	opRandomPoint  = "RandomPoint"
	opUnstack      = "Unstack"
	opStack        = "Stack"
	opProjection   = "Projection"
	opIsTangent    = "IsTangent"
	opToTangent    = "ToTangent"
	opInner        = "InnerProduct"
	opMetricMatrix = "MetricMatrix"
	opExp          = "Exp"
	opLog          = "Log"
	opDist         = "Dist"
	opGeodesic     = "Geodesic"
)

// Curve is a geodesic parametrized on t ∈ R; Curve(0) is the start batch and
// Curve(1) the end batch.
type Curve func(t float64) (*matrix.Dense, error)

// ---------- ParameterSpace ----------

// Belongs reports, per row, whether points lie on the manifold: finite
// entries and an SPD covariance whose eigenvalues exceed atol (Centered also
// requires symmetry within atol). A wrong column count yields all-false, or
// ErrShapeMismatch under WithStrictShapes. Numeric content never errors.
//
// Errors:
//   - ErrShapeMismatch for nil points (or a wrong width in strict mode).
//   - ErrConfiguration for a NaN atol.
func (m *Manifold) Belongs(points *matrix.Dense, atol float64) ([]bool, error) {
	if points == nil {
		return nil, shapeErrorf(opBelongs, "points is nil")
	}
	if math.IsNaN(atol) {
		return nil, configErrorf(opBelongs, "atol=NaN")
	}
	atol = math.Abs(atol)
	out := make([]bool, points.Rows())
	if points.Cols() != m.Dim() {
		if m.cfg.strictShapes {
			return nil, shapeErrorf(opBelongs, "points has %d columns, want %d", points.Cols(), m.Dim())
		}
		return out, nil
	}
	rows, err := rowsOf(points)
	if err != nil {
		return nil, normalErrorf(opBelongs, err)
	}
	for i, p := range rows {
		out[i] = m.k.belongs(p, atol)
	}

	return out, nil
}

// RandomPoint draws nSamples points: means uniform in [-bound, bound],
// covariances expm(sym(U)) with U uniform in [-bound, bound] (Diagonal:
// variances exp(u)). Results always belong to the manifold.
//
// Errors:
//   - ErrConfiguration for nSamples ≤ 0 or a bound that is not finite and positive.
func (m *Manifold) RandomPoint(nSamples int, bound float64) (*matrix.Dense, error) {
	if nSamples <= 0 {
		return nil, configErrorf(opRandomPoint, "nSamples=%d", nSamples)
	}
	if !finitePositive(bound) {
		return nil, configErrorf(opRandomPoint, "bound=%g", bound)
	}
	r := m.rng()
	rows := make([][]float64, nSamples)
	var err error
	for i := range rows {
		if rows[i], err = m.k.randomPoint(r, bound); err != nil {
			return nil, normalErrorf(opRandomPoint, err)
		}
	}

	return assemble(opRandomPoint, rows)
}

// Unstack splits a flattened point into its mean and covariance matrix.
// Centered points return a zero mean.
func (m *Manifold) Unstack(point []float64) ([]float64, *matrix.Dense, error) {
	if len(point) != m.Dim() {
		return nil, nil, shapeErrorf(opUnstack, "point has %d entries, want %d", len(point), m.Dim())
	}
	mean, cov, err := m.k.unstack(point)
	if err != nil {
		return nil, nil, normalErrorf(opUnstack, err)
	}

	return mean, cov, nil
}

// UnstackMeanDiagonal returns the mean and the covariance diagonal of a point.
// For Diagonal points this is exactly [μ | v] split in two.
func (m *Manifold) UnstackMeanDiagonal(point []float64) (mean, variances []float64, err error) {
	mean, cov, err := m.Unstack(point)
	if err != nil {
		return nil, nil, err
	}
	variances = make([]float64, m.n)
	for i := range variances {
		if variances[i], err = cov.At(i, i); err != nil {
			return nil, nil, normalErrorf(opUnstack, err)
		}
	}

	return mean, variances, nil
}

// Stack is the inverse of Unstack. The mean must have SampleDim entries
// (Centered also accepts nil and ignores it); cov must be SampleDim×SampleDim.
// Content is not validated: check the result with Belongs.
//
// Errors:
//   - ErrShapeMismatch for wrong lengths or shapes, or (Diagonal) a non-zero
//     off-diagonal covariance entry.
func (m *Manifold) Stack(mean []float64, cov matrix.Matrix) ([]float64, error) {
	if !(m.kind == Centered && mean == nil) && len(mean) != m.n {
		return nil, shapeErrorf(opStack, "mean has %d entries, want %d", len(mean), m.n)
	}
	if cov == nil || cov.Rows() != m.n || cov.Cols() != m.n {
		return nil, shapeErrorf(opStack, "covariance must be %d×%d", m.n, m.n)
	}
	data, err := matrix.Data(cov)
	if err != nil {
		return nil, normalErrorf(opStack, err)
	}
	c, err := matrix.NewDenseFrom(m.n, m.n, data)
	if err != nil {
		return nil, normalErrorf(opStack, err)
	}
	p, err := m.k.stack(mean, c)
	if err != nil {
		return nil, normalErrorf(opStack, err)
	}

	return p, nil
}

// Projection maps ambient rows onto the manifold: covariances are
// symmetrized and their eigenvalues (variances) raised to at least the
// configured epsilon.
func (m *Manifold) Projection(points *matrix.Dense) (*matrix.Dense, error) {
	return m.mapRows(opProjection, points, m.k.project)
}

// IsTangent reports per row whether vecs are tangent vectors. Only Centered
// constrains them (symmetry within atol); the other encodings are symmetric
// by construction.
func (m *Manifold) IsTangent(vecs *matrix.Dense, atol float64) ([]bool, error) {
	_, all, err := gather(opIsTangent, operand{"vecs", vecs, m.Dim()})
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(all[0]))
	for i, v := range all[0] {
		out[i] = m.k.isTangent(v, math.Abs(atol))
	}

	return out, nil
}

// ToTangent projects ambient rows onto the tangent space.
func (m *Manifold) ToTangent(vecs *matrix.Dense) (*matrix.Dense, error) {
	return m.mapRows(opToTangent, vecs, m.k.toTangent)
}

func (m *Manifold) mapRows(op string, in *matrix.Dense, f func([]float64) ([]float64, error)) (*matrix.Dense, error) {
	_, all, err := gather(op, operand{"input", in, m.Dim()})
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(all[0]))
	for i, row := range all[0] {
		if out[i], err = f(row); err != nil {
			return nil, normalErrorf(op, err)
		}
	}

	return assemble(op, out)
}

// ---------- MetricTensor ----------

// InnerProduct returns g_base(a, b) per broadcast row.
//
// Errors:
//   - ErrShapeMismatch, ErrNotPositiveDefinite for a degenerate base.
func (m *Manifold) InnerProduct(a, b, base *matrix.Dense) ([]float64, error) {
	d := m.Dim()
	n, all, err := gather(opInner, operand{"a", a, d}, operand{"b", b, d}, operand{"base", base, d})
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		if out[i], err = m.k.inner(pick(all[0], i), pick(all[1], i), pick(all[2], i)); err != nil {
			return nil, normalErrorf(opInner, err)
		}
	}

	return out, nil
}

// SquaredNorm returns g_base(v, v) per broadcast row.
func (m *Manifold) SquaredNorm(v, base *matrix.Dense) ([]float64, error) {
	return m.InnerProduct(v, v, base)
}

// Norm returns √g_base(v, v) per broadcast row.
func (m *Manifold) Norm(v, base *matrix.Dense) ([]float64, error) {
	sq, err := m.SquaredNorm(v, base)
	if err != nil {
		return nil, err
	}
	for i := range sq {
		sq[i] = math.Sqrt(sq[i])
	}

	return sq, nil
}

// MetricMatrix returns, per base row, the Dim×Dim Gram matrix G with
// G[i,j] = g_base(e_i, e_j) in ambient coordinates.
func (m *Manifold) MetricMatrix(base *matrix.Dense) ([]*matrix.Dense, error) {
	d := m.Dim()
	_, all, err := gather(opMetricMatrix, operand{"base", base, d})
	if err != nil {
		return nil, err
	}
	basis := make([][]float64, d)
	for i := range basis {
		basis[i] = make([]float64, d)
		basis[i][i] = 1
	}
	out := make([]*matrix.Dense, len(all[0]))
	for r, p := range all[0] {
		g, err := matrix.NewDense(d, d)
		if err != nil {
			return nil, normalErrorf(opMetricMatrix, err)
		}
		for i := 0; i < d; i++ {
			for j := i; j < d; j++ {
				v, err := m.k.inner(basis[i], basis[j], p)
				if err != nil {
					return nil, normalErrorf(opMetricMatrix, err)
				}
				if err = g.Set(i, j, v); err != nil {
					return nil, normalErrorf(opMetricMatrix, err)
				}
				if err = g.Set(j, i, v); err != nil {
					return nil, normalErrorf(opMetricMatrix, err)
				}
			}
		}
		out[r] = g
	}

	return out, nil
}

// ---------- GeodesicSolver ----------

// Exp maps tangent vectors v at base to the end of the unit-time geodesic.
//
// Errors:
//   - ErrShapeMismatch, ErrNotPositiveDefinite for a degenerate base.
//   - ErrConvergence (General) when the integrated covariance leaves the SPD cone.
//   - matrix.ErrNaNInf when the endpoint overflows.
func (m *Manifold) Exp(v, base *matrix.Dense) (*matrix.Dense, error) {
	return m.binary(opExp, "v", v, "base", base, m.k.exp)
}

// Log returns the tangent vectors at base whose geodesics reach points.
//
// Errors:
//   - ErrShapeMismatch, ErrNotPositiveDefinite.
//   - *ConvergenceError (General) when shooting misses the tolerance.
func (m *Manifold) Log(points, base *matrix.Dense) (*matrix.Dense, error) {
	return m.binary(opLog, "points", points, "base", base, m.k.log)
}

func (m *Manifold) binary(op, an string, a *matrix.Dense, bn string, b *matrix.Dense,
	f func(x, y []float64) ([]float64, error)) (*matrix.Dense, error) {
	d := m.Dim()
	n, all, err := gather(op, operand{an, a, d}, operand{bn, b, d})
	if err != nil {
		return nil, err
	}
	out := make([][]float64, n)
	for i := range out {
		if out[i], err = f(pick(all[0], i), pick(all[1], i)); err != nil {
			return nil, normalErrorf(op, err)
		}
	}

	return assemble(op, out)
}

// SquaredDist returns the squared geodesic distance per broadcast row.
// Identical rows are at distance exactly 0.
func (m *Manifold) SquaredDist(a, b *matrix.Dense) ([]float64, error) {
	d := m.Dim()
	n, all, err := gather(opDist, operand{"a", a, d}, operand{"b", b, d})
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		pa, pb := pick(all[0], i), pick(all[1], i)
		if slices.Equal(pa, pb) {
			continue
		}
		if out[i], err = m.k.squaredDist(pa, pb); err != nil {
			return nil, normalErrorf(opDist, err)
		}
	}

	return out, nil
}

// Dist returns the geodesic distance per broadcast row; it equals
// √InnerProduct(Log(b, a), Log(b, a), a).
func (m *Manifold) Dist(a, b *matrix.Dense) ([]float64, error) {
	sq, err := m.SquaredDist(a, b)
	if err != nil {
		return nil, err
	}
	for i := range sq {
		sq[i] = math.Sqrt(math.Max(sq[i], 0))
	}

	return sq, nil
}

// Geodesic returns the curve t ↦ Exp(t·Log(end, start), start). The
// logarithm is solved once, up front.
func (m *Manifold) Geodesic(start, end *matrix.Dense) (Curve, error) {
	v, err := m.Log(end, start)
	if err != nil {
		return nil, normalErrorf(opGeodesic, err)
	}

	return func(t float64) (*matrix.Dense, error) {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, configErrorf(opGeodesic, "t=%g", t)
		}
		tv, err := matrix.Scale(v, t)
		if err != nil {
			return nil, normalErrorf(opGeodesic, err)
		}
		p, err := m.Exp(tv, start)
		if err != nil {
			return nil, fmt.Errorf("%s(t=%g): %w", opGeodesic, t, err)
		}

		return p, nil
	}, nil
}
