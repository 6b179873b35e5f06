// SPDX-License-Identifier: MIT
// Package normal - DistributionMap: densities and sampling.
//
//	log p(x) = −½ (k·log 2π + log|Σ| + (x−μ)ᵀ Σ⁻¹ (x−μ))
//
// Σ is factorized once per point with a gonum Cholesky; sampling draws
// x = μ + L·z with Σ = L·Lᵀ and z ~ N(0, I).

package normal

import (
	"fmt"
	"math"

	"github.com/viterin/vek"
	"gonum.org/v1/gonum/mat"

	"github.com/moiseevigor/geomstats/matrix"
)

const (
	opPointToPDF = "PointToPDF"
	opSample     = "Sample"
)

var log2Pi = math.Log(2 * math.Pi)

// PDF evaluates densities of a fixed batch of points at a batch of samples
// (one sample of SampleDim entries per row). The result is
// len(points) × len(samples); entry (i, j) is point i at sample j.
type PDF func(samples *matrix.Dense) (*matrix.Dense, error)

// gaussian is a point prepared for density evaluation and sampling.
type gaussian struct {
	mean   []float64
	chol   mat.Cholesky
	logDet float64
}

// prepare factorizes the covariance of every row of points.
func (m *Manifold) prepare(op string, points *matrix.Dense) ([]*gaussian, error) {
	_, all, err := gather(op, operand{"points", points, m.Dim()})
	if err != nil {
		return nil, err
	}
	out := make([]*gaussian, len(all[0]))
	for i, p := range all[0] {
		mean, cov, err := m.k.unstack(p)
		if err != nil {
			return nil, normalErrorf(op, err)
		}
		data, err := matrix.Data(cov)
		if err != nil {
			return nil, normalErrorf(op, err)
		}
		g := &gaussian{mean: mean}
		if ok := g.chol.Factorize(mat.NewSymDense(m.n, data)); !ok {
			return nil, fmt.Errorf("%s: point %d: %w", op, i, ErrNotPositiveDefinite)
		}
		g.logDet = g.chol.LogDet()
		out[i] = g
	}

	return out, nil
}

// logDensity evaluates log p(x).
func (g *gaussian) logDensity(x []float64) (float64, error) {
	k := len(g.mean)
	diff := vek.Sub(x, g.mean)
	var z mat.VecDense
	if err := g.chol.SolveVecTo(&z, mat.NewVecDense(k, diff)); err != nil && !isCondition(err) {
		return 0, err
	}
	quad := vek.Dot(diff, z.RawVector().Data)

	return -0.5 * (float64(k)*log2Pi + g.logDet + quad), nil
}

// PointToPDF returns the density function of each point in points.
//
// Errors:
//   - ErrShapeMismatch for points of the wrong width (at construction) or
//     samples without SampleDim columns (at evaluation).
//   - ErrNotPositiveDefinite when a covariance cannot be factorized.
func (m *Manifold) PointToPDF(points *matrix.Dense) (PDF, error) {
	logPDF, err := m.PointToLogPDF(points)
	if err != nil {
		return nil, err
	}

	return func(samples *matrix.Dense) (*matrix.Dense, error) {
		lp, err := logPDF(samples)
		if err != nil {
			return nil, err
		}
		for i := 0; i < lp.Rows(); i++ {
			row, err := lp.Row(i)
			if err != nil {
				return nil, normalErrorf(opPointToPDF, err)
			}
			for j := range row {
				row[j] = math.Exp(row[j])
			}
			if err = lp.SetRow(i, row); err != nil {
				return nil, normalErrorf(opPointToPDF, err)
			}
		}

		return lp, nil
	}, nil
}

// PointToLogPDF is PointToPDF on the log scale; it does not underflow for
// samples far in the tails.
func (m *Manifold) PointToLogPDF(points *matrix.Dense) (PDF, error) {
	gs, err := m.prepare(opPointToPDF, points)
	if err != nil {
		return nil, err
	}

	return func(samples *matrix.Dense) (*matrix.Dense, error) {
		_, all, err := gather(opPointToPDF, operand{"samples", samples, m.n})
		if err != nil {
			return nil, err
		}
		xs := all[0]
		out, err := matrix.NewDense(len(gs), len(xs))
		if err != nil {
			return nil, normalErrorf(opPointToPDF, err)
		}
		row := make([]float64, len(xs))
		for i, g := range gs {
			for j, x := range xs {
				if row[j], err = g.logDensity(x); err != nil {
					return nil, normalErrorf(opPointToPDF, err)
				}
			}
			if err = out.SetRow(i, row); err != nil {
				return nil, normalErrorf(opPointToPDF, err)
			}
		}

		return out, nil
	}, nil
}

// Sample draws nSamples i.i.d. vectors from each point's distribution using
// the manifold's random source. The result holds one nSamples × SampleDim
// batch per point.
//
// Errors:
//   - ErrConfiguration for nSamples ≤ 0.
//   - ErrShapeMismatch, ErrNotPositiveDefinite as for PointToPDF.
func (m *Manifold) Sample(points *matrix.Dense, nSamples int) ([]*matrix.Dense, error) {
	if nSamples <= 0 {
		return nil, configErrorf(opSample, "nSamples=%d", nSamples)
	}
	gs, err := m.prepare(opSample, points)
	if err != nil {
		return nil, err
	}
	r := m.rng()
	n := m.n
	out := make([]*matrix.Dense, len(gs))
	z := mat.NewVecDense(n, nil)
	var L mat.TriDense
	var x mat.VecDense
	for i, g := range gs {
		g.chol.LTo(&L)
		batch, err := matrix.NewDense(nSamples, n)
		if err != nil {
			return nil, normalErrorf(opSample, err)
		}
		for s := 0; s < nSamples; s++ {
			for j := 0; j < n; j++ {
				z.SetVec(j, r.NormFloat64())
			}
			x.MulVec(&L, z)
			if err = batch.SetRow(s, vek.Add(g.mean, x.RawVector().Data)); err != nil {
				return nil, normalErrorf(opSample, err)
			}
		}
		out[i] = batch
	}

	return out, nil
}
