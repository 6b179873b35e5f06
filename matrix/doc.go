// Package matrix provides the dense linear-algebra substrate used by the
// normal-distribution manifolds.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with bounds-checked accessors that
//     return errors instead of panicking.
//   - Canonical kernels (Add, Sub, Mul, Transpose, Scale, MatVec) with a flat
//     fast path for *Dense operands.
//   - Jacobi Eigen for symmetric input.
//   - Symmetric positive-definite (SPD) functional calculus: Expm, Logm,
//     Sqrtm, InvSqrtm, Powm, plus IsSPD, Congruence and the SymToVec/VecToSym
//     half-vectorization.
//   - Column statistics (CenterColumns, Covariance) and AllClose.
//
// All routines are deterministic: fixed loop orders, no map iteration, no
// hidden randomness. Numeric tolerances are configured through functional
// options (see options.go); invalid input is reported with the sentinel
// errors in errors.go and matched with errors.Is.
package matrix
