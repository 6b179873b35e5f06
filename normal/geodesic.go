// SPDX-License-Identifier: MIT
// Package normal - numerical geodesics of the General family.
//
// Geodesic equations of the Fisher metric in (μ, Σ) coordinates:
//
//	μ'' = Σ' Σ⁻¹ μ'
//	Σ'' = Σ' Σ⁻¹ Σ' − μ' μ'ᵀ
//
// Exp integrates them with fixed-step RK4 on t ∈ [0, 1]. Log solves the
// boundary value problem Exp_p(v) = q by damped Newton shooting with a
// forward-difference Jacobian; a stalled solve is retried by continuation
// through intermediate targets (general.go).
//
// State layout (flat, length 2(n + n²)):
//
//	[ μ (n) | Σ (n·n, row-major) | μ' (n) | Σ' (n·n) ]

package normal

import (
	"errors"
	"fmt"
	"math"

	"github.com/viterin/vek"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// errLeftCone marks an integration stage whose covariance is not SPD.
var errLeftCone = errors.New("covariance left the SPD cone during integration")

// minStepFraction is the smallest damping factor tried by the line search.
const minStepFraction = 1.0 / (1 << 30)

// reasonBudget is the ConvergenceError reason for an exhausted iteration
// budget; continuation is not retried after it.
const reasonBudget = "iteration budget"

// continuationStages are the stage counts tried, in order, after a direct
// shooting solve stalls.
var continuationStages = []int{2, 4, 8}

// sqrtEpsilon scales forward-difference steps.
var sqrtEpsilon = math.Sqrt(2.220446049250313e-16)

// flow is the geodesic vector field for n-dimensional Gaussians.
type flow struct{ n int }

func (f flow) size() int { return 2 * (f.n + f.n*f.n) }

// split returns views on the four blocks of a state vector.
func (f flow) split(y []float64) (mu, sigma, dmu, dsigma []float64) {
	n, nn := f.n, f.n*f.n
	mu = y[:n]
	sigma = y[n : n+nn]
	dmu = y[n+nn : 2*n+nn]
	dsigma = y[2*n+nn:]

	return mu, sigma, dmu, dsigma
}

// deriv evaluates dy/dt.
func (f flow) deriv(y []float64) ([]float64, error) {
	n := f.n
	_, sigma, dmu, dsigma := f.split(y)

	var chol mat.Cholesky
	if ok := chol.Factorize(mat.NewSymDense(n, append([]float64(nil), sigma...))); !ok {
		return nil, errLeftCone
	}
	dS := mat.NewDense(n, n, append([]float64(nil), dsigma...))
	dm := mat.NewVecDense(n, append([]float64(nil), dmu...))

	// z = Σ⁻¹μ', X = Σ⁻¹Σ'
	var z mat.VecDense
	if err := chol.SolveVecTo(&z, dm); err != nil && !isCondition(err) {
		return nil, err
	}
	var X mat.Dense
	if err := chol.SolveTo(&X, dS); err != nil && !isCondition(err) {
		return nil, err
	}

	var ddmu mat.VecDense
	ddmu.MulVec(dS, &z)
	var ddS mat.Dense
	ddS.Mul(dS, &X)

	out := make([]float64, f.size())
	oMu, oSigma, oDmu, oDsigma := f.split(out)
	copy(oMu, dmu)
	copy(oSigma, dsigma)
	copy(oDmu, ddmu.RawVector().Data)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := 0.5*(ddS.At(i, j)+ddS.At(j, i)) - dmu[i]*dmu[j]
			oDsigma[i*n+j], oDsigma[j*n+i] = v, v
		}
	}

	return out, nil
}

// isCondition reports a gonum ill-conditioning warning (result still usable).
func isCondition(err error) bool {
	var c mat.Condition

	return errors.As(err, &c)
}

// integrate advances y over t ∈ [0, 1] with steps RK4 steps.
func (f flow) integrate(y0 []float64, steps int) ([]float64, error) {
	h := 1 / float64(steps)
	y := append([]float64(nil), y0...)
	for s := 0; s < steps; s++ {
		k1, err := f.deriv(y)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", s, err)
		}
		k2, err := f.deriv(vek.Add(y, vek.MulNumber(k1, h/2)))
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", s, err)
		}
		k3, err := f.deriv(vek.Add(y, vek.MulNumber(k2, h/2)))
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", s, err)
		}
		k4, err := f.deriv(vek.Add(y, vek.MulNumber(k3, h)))
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", s, err)
		}
		// y += h/6·(k1 + 2k2 + 2k3 + k4)
		vek.MulNumber_Inplace(k2, 2)
		vek.MulNumber_Inplace(k3, 2)
		vek.Add_Inplace(k1, k2)
		vek.Add_Inplace(k1, k3)
		vek.Add_Inplace(k1, k4)
		vek.MulNumber_Inplace(k1, h/6)
		vek.Add_Inplace(y, k1)
	}

	return y, nil
}

// shooter solves Exp_base(v) = target for v.
type shooter struct {
	k      *generalKernel
	base   []float64
	target []float64
	logger *zap.Logger
}

func (s *shooter) residual(v []float64) ([]float64, error) {
	end, err := s.k.exp(v, s.base)
	if err != nil {
		return nil, err
	}

	return vek.Sub(end, s.target), nil
}

// jacobian approximates ∂F/∂v column by column with forward differences.
func (s *shooter) jacobian(v, f []float64) (*mat.Dense, error) {
	d := len(v)
	J := mat.NewDense(d, d, nil)
	vp := append([]float64(nil), v...)
	for j := 0; j < d; j++ {
		h := sqrtEpsilon * math.Max(1, math.Abs(v[j]))
		vp[j] = v[j] + h
		fp, err := s.residual(vp)
		vp[j] = v[j]
		if err != nil {
			return nil, fmt.Errorf("jacobian column %d: %w", j, err)
		}
		for i := 0; i < d; i++ {
			J.Set(i, j, (fp[i]-f[i])/h)
		}
	}

	return J, nil
}

// solve runs damped Newton from guess (falling back to fallback when the
// guess cannot be integrated).
//
// Convergence: ‖F(v)‖ ≤ tol·(1 + ‖target‖).
// Failure: *ConvergenceError after maxIter iterations, a singular Jacobian or
// a line search that cannot decrease the residual down to minStepFraction.
func (s *shooter) solve(guess, fallback []float64, tol float64, maxIter int) ([]float64, error) {
	atol := tol * (1 + vek.Norm(s.target))
	v := guess
	F, err := s.residual(v)
	if err != nil {
		s.logger.Debug("shooting guess left the SPD cone, using fallback", zap.Error(err))
		v = fallback
		if F, err = s.residual(v); err != nil {
			return nil, err
		}
	}
	res := vek.Norm(F)
	fail := func(iter int, reason string) error {
		s.logger.Warn("geodesic shooting failed",
			zap.String("reason", reason),
			zap.Int("iteration", iter),
			zap.Float64("residual", res),
			zap.Float64("tolerance", atol),
		)

		return &ConvergenceError{Op: "Log", Iterations: iter, Residual: res, Tolerance: atol, Reason: reason}
	}

	for iter := 0; ; iter++ {
		if res <= atol {
			s.logger.Debug("geodesic shooting converged", zap.Int("iteration", iter), zap.Float64("residual", res))
			return v, nil
		}
		if iter >= maxIter {
			return nil, fail(iter, reasonBudget)
		}
		J, err := s.jacobian(v, F)
		if err != nil {
			return nil, err
		}
		var delta mat.VecDense
		if err = delta.SolveVec(J, mat.NewVecDense(len(F), vek.MulNumber(F, -1))); err != nil && !isCondition(err) {
			return nil, fail(iter, "singular jacobian")
		}
		step := delta.RawVector().Data

		accepted := false
		for alpha := 1.0; alpha >= minStepFraction; alpha /= 2 {
			vTry := vek.Add(v, vek.MulNumber(step, alpha))
			FTry, err := s.residual(vTry)
			if err != nil {
				continue // trial left the cone: damp further
			}
			if r := vek.Norm(FTry); r < res {
				s.logger.Debug("geodesic shooting step",
					zap.Int("iteration", iter),
					zap.Float64("residual", r),
					zap.Float64("step", alpha),
				)
				v, F, res, accepted = vTry, FTry, r, true
				break
			}
		}
		if !accepted {
			return nil, fail(iter, "line search stalled")
		}
	}
}
