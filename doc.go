// Package geomstats is Riemannian geometry for families of multivariate
// normal distributions, in pure Go on top of gonum.
//
// What is in the box?
//
//	A distribution is a point on a manifold; the Fisher information metric
//	turns the family into a space with distances, geodesics and
//	exponential/logarithm maps:
//		• Centered  N(0, Σ)       - affine-invariant SPD geometry, closed form
//		• Diagonal  N(μ, diag(v)) - product of hyperbolic half-planes, closed form
//		• General   N(μ, Σ)       - numerical geodesics (RK4 + Newton shooting)
//		• Densities and sampling for every point
//
// Packages:
//
//	matrix/ - dense row-major matrices, validators, Jacobi eigen-decomposition
//	          and the symmetric spectral calculus (Expm, Logm, Sqrtm, Powm)
//	normal/ - the three manifolds, batching/broadcasting, PDFs and sampling
//
// Quick example:
//
//	m, _ := normal.New(normal.Diagonal, 1)
//	p, _ := normal.Vec(0, 1) // N(0, 1)
//	q, _ := normal.Vec(0, 4) // N(0, 4)
//	d, _ := m.Dist(p, q)     // √2·ln 2
//
// A runnable walk along a geodesic lives in examples/geodesic_interpolation.
//
//	go get github.com/moiseevigor/geomstats/normal
package geomstats
