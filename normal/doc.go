// Package normal models families of multivariate normal distributions as
// Riemannian manifolds: a distribution is a point, and distances, geodesics,
// exponential/logarithm maps and inner products come from the Fisher
// information metric.
//
// Three families are supported, selected by Kind:
//
//   - Centered: N(0, Σ). Affine-invariant SPD geometry in closed form.
//   - Diagonal: N(μ, diag(v)). A product of hyperbolic half-planes in closed form.
//   - General:  N(μ, Σ). Geodesics integrated numerically (RK4); the
//     logarithm is solved by Newton shooting and may fail with ErrConvergence.
//
// Batches are *matrix.Dense values with one point or tangent vector per row.
// Operands broadcast when they have one row or a common number of rows;
// results always keep the batch axis.
//
// Quick start:
//
//	m, _ := normal.New(normal.Diagonal, 2)
//	p, _ := normal.Vec(0, 0, 1, 1)   // μ = (0,0), v = (1,1)
//	q, _ := normal.Vec(1, 0, 2, 1)
//	d, _ := m.Dist(p, q)
//	pdf, _ := m.PointToPDF(p)
//	samples, _ := m.Sample(p, 1000)
//
// Randomness comes from a process-wide PCG source (reseed with Seed) unless a
// manifold is given its own stream with WithRand or WithSeed. Solver
// diagnostics are logged through zap (WithLogger); the default logger is a no-op.
package normal
